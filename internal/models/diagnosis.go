package models

// Category 诊断根因分类
type Category string

const (
	TunDnsHijackTrafficBlocked Category = "TunDnsHijackTrafficBlocked"
	ProxySoftwareDown          Category = "ProxySoftwareDown"
	TunWorking                 Category = "TunWorking"
	SystemProxyDisabled        Category = "SystemProxyDisabled"
	NodeUnavailable            Category = "NodeUnavailable"
	NetworkHealthy             Category = "NetworkHealthy"
	Inconclusive               Category = "Inconclusive"
)

// Confidence 分类器对诊断结论的置信度
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Remediation 一条排序后的修复建议
// @Description 建议不会被引擎执行，只会被呈现给用户
type Remediation struct {
	Rank      int    `json:"rank" example:"1" description:"建议优先级，1最高"`
	Action    string `json:"action" description:"建议执行的操作"`
	Rationale string `json:"rationale" description:"建议的依据"`
}

// Diagnosis 分类器对一次会话信号集合的最终判定
// @Description 每次会话恰好产生一个，产生后不可变
type Diagnosis struct {
	Category     Category      `json:"category" example:"TunDnsHijackTrafficBlocked" description:"根因分类"`
	Confidence   Confidence    `json:"confidence" example:"high" description:"置信度"`
	MatchedRule  string        `json:"matchedRule,omitempty" description:"命中的规则名称"`
	Substituted  []string      `json:"substituted,omitempty" description:"部分匹配时被放宽的信号维度"`
	MissingHint  string        `json:"missingHint,omitempty" description:"无法定论时最需要补采的信号"`
	Remediations []Remediation `json:"remediations" description:"按优先级排序的修复建议"`
}
