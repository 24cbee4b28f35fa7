package diagnose

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"netdiag/internal/models"
)

// 每个根因分类的一句话结论
var summaries = map[models.Category]string{
	models.TunDnsHijackTrafficBlocked: "DNS劫持生效但流量未被接管，TUN数据面异常",
	models.ProxySoftwareDown:          "代理软件疑似已退出或假死",
	models.TunWorking:                 "TUN模式工作正常，网络经代理接管转发",
	models.SystemProxyDisabled:        "本地代理可用但系统代理未启用",
	models.NodeUnavailable:            "代理链路在监听但当前节点不可用",
	models.NetworkHealthy:             "网络连接正常，无需代理介入",
	models.Inconclusive:               "现有信号不足以定位根因",
}

/**
 * Build a report from a frozen signal set and its diagnosis
 * @param {string} target - Diagnosed hostname
 * @param {*models.SignalSet} set - Frozen signal set
 * @param {models.Diagnosis} diag - Classifier verdict
 * @param {bool} timedOut - Whether the session deadline elapsed during collection
 * @returns {*models.Report} Structured report; same inputs yield byte-identical output
 * @description
 * - 不重跑任何探针；GeneratedAt取信号集合的冻结时间以保证重复构建稳定
 * - 信号明细按名称排序，修复建议按规则给定的优先级排序
 */
func BuildReport(target string, set *models.SignalSet, diag models.Diagnosis, timedOut bool) *models.Report {
	report := &models.Report{
		Target:      target,
		GeneratedAt: set.FrozenAt(),
		Summary:     summaries[diag.Category],
		Category:    diag.Category,
		Confidence:  diag.Confidence,
		TimedOut:    timedOut,
	}

	for _, name := range set.Names() {
		sig, _ := set.Get(name)
		report.Findings = append(report.Findings, models.SignalFinding{
			Name:    name,
			State:   sig.State,
			Value:   formatValue(sig),
			Meaning: meaningFor(sig),
		})
	}

	report.Remediations = make([]models.Remediation, len(diag.Remediations))
	copy(report.Remediations, diag.Remediations)
	sort.SliceStable(report.Remediations, func(i, j int) bool {
		return report.Remediations[i].Rank < report.Remediations[j].Rank
	})

	return report
}

/**
 * Serialize a report as indented JSON
 * @param {*models.Report} r - Report to serialize
 * @returns {string} JSON text
 * @returns {error} Marshal failure
 */
func ToJSON(r *models.Report) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

/**
 * Render a report as narrative text
 * @param {*models.Report} r - Report to render
 * @returns {string} Human-facing summary in the CLI output style
 */
func RenderText(r *models.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== Netdiag 连通性诊断报告 ===\n\n")
	fmt.Fprintf(&b, "目标: %s\n", r.Target)
	fmt.Fprintf(&b, "时间: %s\n", r.GeneratedAt.Format(time.RFC3339))
	if r.TimedOut {
		fmt.Fprintf(&b, "⚠️ 会话超时，以下结论基于部分信号\n")
	}
	fmt.Fprintf(&b, "\n%s 结论: %s (置信度: %s)\n\n", categoryIcon(r.Category), r.Summary, r.Confidence)

	fmt.Fprintf(&b, "=== 信号明细 (%d 项) ===\n", len(r.Findings))
	for _, f := range r.Findings {
		fmt.Fprintf(&b, "%s %s: %s", stateIcon(f.State), f.Name, f.Value)
		if f.Meaning != "" {
			fmt.Fprintf(&b, " — %s", f.Meaning)
		}
		fmt.Fprintln(&b)
	}
	fmt.Fprintln(&b)

	if len(r.Remediations) > 0 {
		fmt.Fprintf(&b, "=== 修复建议 ===\n")
		for _, rem := range r.Remediations {
			fmt.Fprintf(&b, "%d. %s\n", rem.Rank, rem.Action)
			fmt.Fprintf(&b, "   依据: %s\n", rem.Rationale)
		}
		fmt.Fprintln(&b)
	}

	fmt.Fprintf(&b, "=== 诊断完成 ===\n")
	return b.String()
}

// formatValue 把信号观测值转成文本形式
func formatValue(sig models.Signal) string {
	if sig.State != models.StateOk {
		if sig.Detail != "" {
			return string(sig.State) + " (" + sig.Detail + ")"
		}
		return string(sig.State)
	}
	switch sig.Kind {
	case models.KindResolvedAddress:
		return strings.Join(sig.Addresses, ", ") + " [" + string(sig.Class) + "]"
	case models.KindBoolean:
		if sig.Bool {
			if sig.Detail != "" {
				return "true (" + sig.Detail + ")"
			}
			return "true"
		}
		return "false"
	case models.KindLatency:
		return fmt.Sprintf("%dms", sig.LatencyMs)
	case models.KindListenerList:
		if len(sig.Ports) == 0 {
			return "无监听端口"
		}
		parts := make([]string, len(sig.Ports))
		for i, p := range sig.Ports {
			parts[i] = fmt.Sprintf("%d", p)
		}
		return strings.Join(parts, ", ")
	case models.KindHTTPStatus:
		return fmt.Sprintf("HTTP %d (%dms)", sig.StatusCode, sig.LatencyMs)
	}
	return sig.Detail
}

// meaningFor 给出信号的含义说明
func meaningFor(sig models.Signal) string {
	name := sig.Name
	switch {
	case name == "dns.local":
		return "系统本地解析器的解析结果"
	case strings.HasPrefix(name, "dns.external_"):
		return "外部解析器的解析结果"
	case name == "connectivity.direct":
		return "绕过代理的直连尝试"
	case strings.HasPrefix(name, "proxy.port.") && strings.HasSuffix(name, ".http"):
		return "经本地HTTP代理端口的访问尝试"
	case strings.HasPrefix(name, "proxy.port.") && strings.HasSuffix(name, ".socks5"):
		return "经本地SOCKS5代理端口的访问尝试"
	case name == "system_proxy.enabled":
		return "操作系统级代理设置"
	case name == "env_proxy.enabled":
		return "代理相关环境变量"
	case name == "git_proxy.enabled":
		return "git全局代理配置"
	case name == "listeners.candidates":
		return "候选代理端口的本地监听情况"
	case name == "latency.target":
		return "目标地址TCP往返时延，用于歧义地址判别"
	case name == "clash_api.reachable":
		return "代理管理API(仅信息性，不参与判定)"
	}
	return ""
}

// categoryIcon 结论图标
func categoryIcon(c models.Category) string {
	switch c {
	case models.NetworkHealthy, models.TunWorking:
		return "✅"
	case models.Inconclusive:
		return "❓"
	default:
		return "❌"
	}
}

// stateIcon 信号状态图标
func stateIcon(s models.SignalState) string {
	switch s {
	case models.StateOk:
		return "✅"
	case models.StateTimeout:
		return "⚠️"
	case models.StateSkipped:
		return "❓"
	default:
		return "❌"
	}
}
