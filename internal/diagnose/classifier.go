package diagnose

import (
	"sort"
	"strings"

	"netdiag/internal/models"
)

// 维度的固定求值顺序，保证分类结果与map遍历顺序无关
var allDimensions = []Dimension{DimDNS, DimDirect, DimProxy, DimSysProxy}

// 缺失维度对应的最小补采信号，用于Inconclusive时的提示
var dimensionSignal = map[Dimension]string{
	DimDNS:      "dns.local",
	DimDirect:   "connectivity.direct",
	DimProxy:    "proxy.port.*",
	DimSysProxy: "system_proxy.enabled",
}

// ClassifierOptions 分类器参数
type ClassifierOptions struct {
	FastLatencyMs int64 // 低于该时延的歧义地址按哨兵地址处理
}

// Classifier 按优先级顺序对冻结信号集合求值的规则分类器
type Classifier struct {
	rules []Rule
	opts  ClassifierOptions
}

/**
 * Create a classifier over a static rule table
 * @param {[]Rule} rules - Decision table rows
 * @param {ClassifierOptions} opts - Disambiguation thresholds
 * @returns {*Classifier} Classifier with rules sorted by ascending priority
 */
func NewClassifier(rules []Rule, opts ClassifierOptions) *Classifier {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})
	return &Classifier{rules: sorted, opts: opts}
}

/**
 * Classify a frozen signal set into a diagnosis
 * @param {*models.SignalSet} set - Frozen signal set
 * @returns {models.Diagnosis} Exactly one diagnosis, never an error
 * @description
 * - 第一遍只接受完全匹配，置信度取规则自身的上限
 * - 第二遍允许恰好一个维度以unknown/ambiguous代入，置信度降为Medium
 * - 仍无命中时返回Inconclusive，并指出最值得补采的单个信号
 * - 对同一集合重复调用结果字节级一致
 */
func (c *Classifier) Classify(set *models.SignalSet) models.Diagnosis {
	obs := c.observe(set)

	// 第一遍：完全匹配
	for _, rule := range c.rules {
		subs, conflict := matchRule(rule, obs)
		if !conflict && len(subs) == 0 {
			return models.Diagnosis{
				Category:     rule.Category,
				Confidence:   rule.Confidence,
				MatchedRule:  rule.Name,
				Remediations: rule.Remediations,
			}
		}
	}

	// 第二遍：允许一个维度代入
	for _, rule := range c.rules {
		subs, conflict := matchRule(rule, obs)
		if !conflict && len(subs) == 1 {
			return models.Diagnosis{
				Category:     rule.Category,
				Confidence:   models.ConfidenceMedium,
				MatchedRule:  rule.Name,
				Substituted:  []string{string(subs[0])},
				Remediations: rule.Remediations,
			}
		}
	}

	return c.inconclusive(obs)
}

/**
 * Normalize the signal set into dimension values
 * @description
 * - dns: 所有state=ok的dns.*信号取最坏分类；ambiguous配合latency.target
 *   低于阈值判为sentinel，高于阈值判为real，无时延信号则保持ambiguous
 * - proxy: 任一proxy.port.*成功即ok；全部失败为fail；一个都没有为unknown
 */
func (c *Classifier) observe(set *models.SignalSet) map[Dimension]DimValue {
	obs := map[Dimension]DimValue{
		DimDNS:      ValUnknown,
		DimDirect:   ValUnknown,
		DimProxy:    ValUnknown,
		DimSysProxy: ValUnknown,
	}

	dnsClass := models.AddressClass("")
	proxySeen := false
	proxyOk := false
	for _, name := range set.Names() {
		sig, _ := set.Get(name)
		switch {
		case strings.HasPrefix(name, "dns."):
			if sig.State != models.StateOk {
				continue
			}
			dnsClass = worseClass(dnsClass, sig.Class)
		case name == "connectivity.direct":
			switch sig.State {
			case models.StateOk:
				obs[DimDirect] = ValOk
			case models.StateTimeout, models.StateError:
				obs[DimDirect] = ValFail
			}
		case strings.HasPrefix(name, "proxy.port."):
			switch sig.State {
			case models.StateOk:
				proxySeen = true
				proxyOk = true
			case models.StateTimeout, models.StateError:
				proxySeen = true
			}
		case name == "system_proxy.enabled":
			if sig.State != models.StateOk {
				continue
			}
			if sig.Bool {
				obs[DimSysProxy] = ValEnabled
			} else {
				obs[DimSysProxy] = ValDisabled
			}
		}
	}

	switch dnsClass {
	case models.ClassSentinel:
		obs[DimDNS] = ValSentinel
	case models.ClassReal:
		obs[DimDNS] = ValReal
	case models.ClassAmbiguous:
		obs[DimDNS] = c.disambiguate(set)
	}

	if proxyOk {
		obs[DimProxy] = ValOk
	} else if proxySeen {
		obs[DimProxy] = ValFail
	}

	return obs
}

// disambiguate 用往返时延判别歧义地址段：私有段地址配合近零时延视为哨兵地址
func (c *Classifier) disambiguate(set *models.SignalSet) DimValue {
	lat, ok := set.Get("latency.target")
	if !ok || lat.State != models.StateOk {
		return ValAmbiguous
	}
	if lat.LatencyMs < c.opts.FastLatencyMs {
		return ValSentinel
	}
	return ValReal
}

/**
 * Evaluate one rule against the observation
 * @returns {[]Dimension} Dimensions that needed substitution (unknown/ambiguous)
 * @returns {bool} True when a condition conflicts with a definite observation
 */
func matchRule(rule Rule, obs map[Dimension]DimValue) ([]Dimension, bool) {
	var subs []Dimension
	for _, cond := range rule.Conditions {
		got := obs[cond.Dim]
		if got == cond.Want {
			continue
		}
		if got == ValUnknown || got == ValAmbiguous {
			subs = append(subs, cond.Dim)
			continue
		}
		return nil, true
	}
	return subs, false
}

/**
 * Build the Inconclusive diagnosis
 * @description
 * - 在所有不含确定性冲突的规则中，统计每个被代入维度出现的次数，
 *   次数最多的维度就是最值得补采的信号
 */
func (c *Classifier) inconclusive(obs map[Dimension]DimValue) models.Diagnosis {
	counts := make(map[Dimension]int)
	for _, rule := range c.rules {
		subs, conflict := matchRule(rule, obs)
		if conflict {
			continue
		}
		for _, dim := range subs {
			counts[dim]++
		}
	}

	var best Dimension
	bestCount := 0
	for _, dim := range allDimensions {
		if counts[dim] > bestCount {
			best = dim
			bestCount = counts[dim]
		}
	}

	diag := models.Diagnosis{
		Category:   models.Inconclusive,
		Confidence: models.ConfidenceLow,
	}
	if bestCount > 0 {
		hint := dimensionSignal[best]
		diag.MissingHint = hint
		diag.Remediations = []models.Remediation{
			{Rank: 1, Action: "补采信号 " + hint + " 后重新运行诊断",
				Rationale: "该信号是当前最多候选规则共同缺失的判定依据"},
			{Rank: 2, Action: "确认本机网络接口已启用并重试",
				Rationale: "信号大面积缺失通常说明探针运行环境本身异常"},
		}
	} else {
		diag.Remediations = []models.Remediation{
			{Rank: 1, Action: "检查目标主机名是否正确后重新运行诊断",
				Rationale: "现有信号组合与所有已知故障模式都存在冲突"},
		}
	}
	return diag
}

// worseClass 返回两个地址分类中更坏的一个(sentinel > ambiguous > real)
func worseClass(a, b models.AddressClass) models.AddressClass {
	if a == models.ClassSentinel || b == models.ClassSentinel {
		return models.ClassSentinel
	}
	if a == models.ClassAmbiguous || b == models.ClassAmbiguous {
		return models.ClassAmbiguous
	}
	if a == "" {
		return b
	}
	return a
}
