package probe

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"netdiag/internal/models"

	xproxy "golang.org/x/net/proxy"
)

// DirectProbe 直连探针
// @Description 刻意绕过一切代理配置直接请求目标，验证裸网络通路
type DirectProbe struct{}

func (p *DirectProbe) Name() string { return "connectivity.direct" }

func (p *DirectProbe) Run(ctx context.Context, opts *Options) []models.Signal {
	sig := models.Signal{
		Name: "connectivity.direct",
		Kind: models.KindHTTPStatus,
	}
	// Proxy显式置nil以忽略环境变量里的代理
	transport := &http.Transport{
		Proxy:             nil,
		DisableKeepAlives: true,
	}
	fill(ctx, &sig, transport, opts.Target)
	return []models.Signal{sig}
}

// ProxyProbe 经候选端点的代理连通性探针，按端点和协议参数化
type ProxyProbe struct {
	Endpoint models.CandidateEndpoint
	Protocol string // models.ProtoHTTP / models.ProtoSOCKS5
}

func (p *ProxyProbe) Name() string {
	return fmt.Sprintf("proxy.port.%d.%s", p.Endpoint.Port, p.Protocol)
}

/**
 * Attempt an HTTP request to the target through one candidate endpoint
 * @returns {[]models.Signal} One http_status signal named proxy.port.<port>.<protocol>
 * @description
 * - HTTP模式走http.ProxyURL；SOCKS5模式走golang.org/x/net/proxy拨号器
 * - 候选端口可能根本不是对应协议的代理，失败同样是有效观测
 */
func (p *ProxyProbe) Run(ctx context.Context, opts *Options) []models.Signal {
	sig := models.Signal{
		Name:   p.Name(),
		Kind:   models.KindHTTPStatus,
		Detail: p.Endpoint.Address(),
	}

	transport := &http.Transport{DisableKeepAlives: true}
	switch p.Protocol {
	case models.ProtoHTTP:
		proxyURL, err := url.Parse("http://" + p.Endpoint.Address())
		if err != nil {
			sig.State = models.StateError
			sig.Detail = err.Error()
			return []models.Signal{sig}
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	case models.ProtoSOCKS5:
		dialer, err := xproxy.SOCKS5("tcp", p.Endpoint.Address(), nil, &net.Dialer{})
		if err != nil {
			sig.State = models.StateError
			sig.Detail = err.Error()
			return []models.Signal{sig}
		}
		if cd, ok := dialer.(xproxy.ContextDialer); ok {
			transport.DialContext = cd.DialContext
		} else {
			transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		}
	default:
		sig.State = models.StateSkipped
		sig.Detail = "unsupported protocol " + p.Protocol
		return []models.Signal{sig}
	}

	fill(ctx, &sig, transport, opts.Target)
	return []models.Signal{sig}
}

// fill 发起一次GET请求并把结果写入信号；任何HTTP响应都算连通
func fill(ctx context.Context, sig *models.Signal, transport *http.Transport, target string) {
	client := &http.Client{Transport: transport}
	defer transport.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+target, nil)
	if err != nil {
		sig.State = models.StateError
		sig.Detail = err.Error()
		return
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		sig.State = StateFromError(err)
		if sig.Detail != "" {
			sig.Detail += ": "
		}
		sig.Detail += err.Error()
		return
	}
	defer resp.Body.Close()

	sig.State = models.StateOk
	sig.StatusCode = resp.StatusCode
	sig.LatencyMs = time.Since(start).Milliseconds()
}
