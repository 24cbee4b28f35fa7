package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"netdiag/internal/models"
)

// ClashAPIProbe 代理管理API探针
// @Description 若候选端口中存在Clash系管理API，读取version与proxies做纯信息性记录；
// API不存在不是错误，分类器也不依赖本信号
type ClashAPIProbe struct {
	Ports []int // 端口扫描发现的监听端口
}

func (p *ClashAPIProbe) Name() string { return "clash_api" }

// versionPayload 管理API /version 响应体
type versionPayload struct {
	Version string `json:"version"`
}

// proxiesPayload 管理API /proxies 响应体
type proxiesPayload struct {
	Proxies map[string]json.RawMessage `json:"proxies"`
}

func (p *ClashAPIProbe) Run(ctx context.Context, opts *Options) []models.Signal {
	sig := models.Signal{
		Name: "clash_api.reachable",
		Kind: models.KindBoolean,
	}
	if len(p.Ports) == 0 {
		sig.State = models.StateSkipped
		sig.Detail = "no candidate ports listening"
		return []models.Signal{sig}
	}

	client := &http.Client{}
	for _, port := range p.Ports {
		version, ok := fetchVersion(ctx, client, port)
		if !ok {
			continue
		}
		sig.State = models.StateOk
		sig.Bool = true
		sig.Detail = fmt.Sprintf("port %d, version %s", port, version)
		if count, ok := fetchProxyCount(ctx, client, port); ok {
			sig.Detail += fmt.Sprintf(", %d proxies", count)
		}
		return []models.Signal{sig}
	}

	sig.State = models.StateOk
	sig.Bool = false
	sig.Detail = "no management API found"
	return []models.Signal{sig}
}

func fetchVersion(ctx context.Context, client *http.Client, port int) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("http://127.0.0.1:%d/version", port), nil)
	if err != nil {
		return "", false
	}
	resp, err := client.Do(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		if resp != nil {
			resp.Body.Close()
		}
		return "", false
	}
	defer resp.Body.Close()

	var payload versionPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Version == "" {
		return "", false
	}
	return payload.Version, true
}

func fetchProxyCount(ctx context.Context, client *http.Client, port int) (int, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("http://127.0.0.1:%d/proxies", port), nil)
	if err != nil {
		return 0, false
	}
	resp, err := client.Do(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		if resp != nil {
			resp.Body.Close()
		}
		return 0, false
	}
	defer resp.Body.Close()

	var payload proxiesPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, false
	}
	return len(payload.Proxies), true
}
