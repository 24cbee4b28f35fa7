package probe

import (
	"context"

	"netdiag/internal/models"
)

// SystemProxyProbe 系统代理配置探针
// @Description 查询操作系统网络配置中Web/SOCKS代理的启用状态与端点，
// 查询方式按平台区分(见sysproxy_*.go)
type SystemProxyProbe struct{}

func (p *SystemProxyProbe) Name() string { return "system_proxy" }

func (p *SystemProxyProbe) Run(ctx context.Context, opts *Options) []models.Signal {
	sig := models.Signal{
		Name: "system_proxy.enabled",
		Kind: models.KindBoolean,
	}
	enabled, endpoint, err := querySystemProxy(ctx)
	if err != nil {
		sig.State = StateFromError(err)
		sig.Detail = err.Error()
		return []models.Signal{sig}
	}
	sig.State = models.StateOk
	sig.Bool = enabled
	sig.Detail = endpoint
	return []models.Signal{sig}
}
