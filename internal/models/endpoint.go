package models

import "fmt"

// 候选端点支持的代理协议
const (
	ProtoHTTP   = "http"
	ProtoSOCKS5 = "socks5"
)

// CandidateEndpoint 端口扫描发现的疑似本地代理端点
// @Description 每次会话重新计算，不持久化
type CandidateEndpoint struct {
	Port      int      `json:"port" example:"7890" description:"本地监听端口"`
	Protocols []string `json:"protocols" description:"待验证的代理协议"`
}

// Address 返回端点的本地回环地址
func (c CandidateEndpoint) Address() string {
	return fmt.Sprintf("127.0.0.1:%d", c.Port)
}
