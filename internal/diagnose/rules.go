package diagnose

import "netdiag/internal/models"

// Dimension 分类器使用的归一化信号维度
type Dimension string

const (
	DimDNS      Dimension = "dns"
	DimDirect   Dimension = "direct"
	DimProxy    Dimension = "proxy"
	DimSysProxy Dimension = "system_proxy"
)

// DimValue 维度取值
type DimValue string

const (
	ValUnknown   DimValue = "unknown"
	ValSentinel  DimValue = "sentinel"
	ValAmbiguous DimValue = "ambiguous"
	ValReal      DimValue = "real"
	ValOk        DimValue = "ok"
	ValFail      DimValue = "fail"
	ValEnabled   DimValue = "enabled"
	ValDisabled  DimValue = "disabled"
)

// Condition 规则对单个维度的要求
type Condition struct {
	Dim  Dimension
	Want DimValue
}

// Rule 决策表中的一行
// @Description 规则表是数据而非分支代码：新增诊断结论只追加行，不改控制流。
// 表在进程内静态加载，运行期不可变，只允许对已冻结的信号集合求值
type Rule struct {
	Name         string
	Priority     int // 越小越先匹配；引用维度多的规则排前
	Conditions   []Condition
	Category     models.Category
	Confidence   models.Confidence // 完全匹配时的置信度上限
	Remediations []models.Remediation
}

/**
 * Built-in decision table
 * @returns {[]Rule} Rules in ascending priority order
 * @description
 * - 前五行覆盖四个维度的组合，对应TUN/系统代理两种接管方式下的典型故障
 * - sentinel-no-traffic是代理维度无观测时的兜底行，置信度封顶Medium
 */
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "tun-dns-hijack-traffic-blocked",
			Priority: 10,
			Conditions: []Condition{
				{DimDNS, ValSentinel},
				{DimDirect, ValFail},
				{DimProxy, ValOk},
				{DimSysProxy, ValDisabled},
			},
			Category:   models.TunDnsHijackTrafficBlocked,
			Confidence: models.ConfidenceHigh,
			Remediations: []models.Remediation{
				{Rank: 1, Action: "重启代理软件的TUN(虚拟网卡)模式",
					Rationale: "DNS返回哨兵地址说明劫持仍在生效，但直连流量没有被接管，TUN数据面大概率卡死"},
				{Rank: 2, Action: "临时启用系统代理，指向已验证可用的本地代理端口",
					Rationale: "代理端口本身连通，系统代理可以作为TUN恢复前的替代出口"},
			},
		},
		{
			Name:     "proxy-software-down",
			Priority: 20,
			Conditions: []Condition{
				{DimDNS, ValSentinel},
				{DimDirect, ValFail},
				{DimProxy, ValFail},
				{DimSysProxy, ValDisabled},
			},
			Category:   models.ProxySoftwareDown,
			Confidence: models.ConfidenceHigh,
			Remediations: []models.Remediation{
				{Rank: 1, Action: "重启代理软件",
					Rationale: "DNS劫持残留但所有代理端口都不可用，代理内核很可能已经退出或假死"},
				{Rank: 2, Action: "确认代理内核进程存在且监听端口与配置一致",
					Rationale: "端口被其他进程占用或配置改动也会造成同样的信号组合"},
			},
		},
		{
			Name:     "tun-working",
			Priority: 30,
			Conditions: []Condition{
				{DimDNS, ValSentinel},
				{DimDirect, ValOk},
				{DimProxy, ValOk},
			},
			Category:   models.TunWorking,
			Confidence: models.ConfidenceHigh,
			Remediations: []models.Remediation{
				{Rank: 1, Action: "无需处理；若个别应用仍异常，检查该应用是否绕过了TUN接管",
					Rationale: "哨兵地址配合直连成功说明TUN正在正常接管并转发流量"},
			},
		},
		{
			Name:     "system-proxy-disabled",
			Priority: 40,
			Conditions: []Condition{
				{DimDNS, ValReal},
				{DimDirect, ValFail},
				{DimProxy, ValOk},
				{DimSysProxy, ValDisabled},
			},
			Category:   models.SystemProxyDisabled,
			Confidence: models.ConfidenceHigh,
			Remediations: []models.Remediation{
				{Rank: 1, Action: "在系统网络设置中启用系统代理，指向可用的本地代理端口",
					Rationale: "本地代理端口验证可用，但系统代理未启用，普通应用没有出口"},
				{Rank: 2, Action: "或者为需要联网的应用单独配置代理环境变量",
					Rationale: "不依赖系统级设置的应用可以通过HTTP_PROXY等变量走代理"},
			},
		},
		{
			Name:     "node-unavailable",
			Priority: 50,
			Conditions: []Condition{
				{DimDNS, ValReal},
				{DimDirect, ValFail},
				{DimProxy, ValFail},
				{DimSysProxy, ValEnabled},
			},
			Category:   models.NodeUnavailable,
			Confidence: models.ConfidenceHigh,
			Remediations: []models.Remediation{
				{Rank: 1, Action: "在代理软件中切换到其他节点后重试",
					Rationale: "代理链路本身在监听但无法完成出站请求，通常是当前节点失效"},
				{Rank: 2, Action: "检查订阅是否过期、节点服务器是否可达",
					Rationale: "全部节点失效往往意味着订阅或上游服务的问题"},
			},
		},
		{
			Name:     "sentinel-no-traffic",
			Priority: 55,
			// proxy维度要求unknown：一旦有代理端口观测(无论成败)本行即冲突退出，
			// 不会在有实证的情况下笼统归因到代理软件
			Conditions: []Condition{
				{DimDNS, ValSentinel},
				{DimDirect, ValFail},
				{DimProxy, ValUnknown},
			},
			Category:   models.ProxySoftwareDown,
			Confidence: models.ConfidenceMedium,
			Remediations: []models.Remediation{
				{Rank: 1, Action: "重启代理软件",
					Rationale: "DNS劫持残留且直连失败，但缺少代理端口信号，无法做四维判定；重启代理软件是最可能的恢复手段"},
				{Rank: 2, Action: "重启后重新运行诊断以获取完整信号",
					Rationale: "补齐代理端口连通性信号后可以给出高置信度结论"},
			},
		},
		{
			Name:     "network-healthy",
			Priority: 60,
			Conditions: []Condition{
				{DimDNS, ValReal},
				{DimDirect, ValOk},
			},
			Category:     models.NetworkHealthy,
			Confidence:   models.ConfidenceHigh,
			Remediations: []models.Remediation{},
		},
	}
}
