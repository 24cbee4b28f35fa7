package models

import "time"

// SignalFinding 报告中的单条信号明细
type SignalFinding struct {
	Name    string      `json:"name" example:"dns.local" description:"信号名称"`
	State   SignalState `json:"state" example:"ok" description:"采集状态"`
	Value   string      `json:"value" description:"观测值的文本形式"`
	Meaning string      `json:"meaning" description:"观测值的含义说明"`
}

// Report 一次诊断会话的完整报告
// @Description 同一(信号集合,诊断)输入重复构建得到字节级一致的结构化输出
type Report struct {
	Target       string          `json:"target" example:"www.google.com" description:"被诊断的目标主机"`
	GeneratedAt  time.Time       `json:"generatedAt" description:"信号集合冻结时间"`
	Summary      string          `json:"summary" description:"一句话结论"`
	Category     Category        `json:"category" description:"根因分类"`
	Confidence   Confidence      `json:"confidence" description:"置信度"`
	Findings     []SignalFinding `json:"findings" description:"按名称排序的信号明细"`
	Remediations []Remediation   `json:"remediations" description:"按优先级排序的修复建议"`
	TimedOut     bool            `json:"timedOut" description:"会话是否在全部探针完成前超时"`
}
