package probe

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"netdiag/internal/models"
)

// testServer 起一个固定返回204的回环HTTP服务，返回host:port和端口号
func testServer(t *testing.T) (string, int) {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(ts.Close)
	hostPort := strings.TrimPrefix(ts.URL, "http://")
	_, portStr, err := net.SplitHostPort(hostPort)
	if err != nil {
		t.Fatal(err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatal(err)
	}
	return hostPort, port
}

/**
 * Test the direct probe against a live local server
 */
func TestDirectProbe(t *testing.T) {
	hostPort, _ := testServer(t)

	cfg := testDiagnoseConfig()
	cfg.Target = hostPort
	opts, err := BuildOptions(cfg)
	if err != nil {
		t.Fatal(err)
	}

	sig := (&DirectProbe{}).Run(context.Background(), opts)[0]
	if sig.Name != "connectivity.direct" {
		t.Errorf("name = %s", sig.Name)
	}
	if sig.State != models.StateOk {
		t.Fatalf("state = %s (%s), want ok", sig.State, sig.Detail)
	}
	if sig.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", sig.StatusCode)
	}
}

/**
 * Test that a cancelled context becomes a Timeout signal, not a panic or error return
 */
func TestDirectProbeCancelled(t *testing.T) {
	hostPort, _ := testServer(t)

	cfg := testDiagnoseConfig()
	cfg.Target = hostPort
	opts, err := BuildOptions(cfg)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sig := (&DirectProbe{}).Run(ctx, opts)[0]
	if sig.State != models.StateTimeout {
		t.Errorf("state = %s, want timeout", sig.State)
	}
}

/**
 * Test the HTTP proxy probe through a local forward proxy
 * @description httptest服务对任何请求(包括绝对URI形式)都回204，
 * 从探针视角看等价于一个放行所有流量的HTTP代理
 */
func TestProxyProbeHTTP(t *testing.T) {
	_, port := testServer(t)

	cfg := testDiagnoseConfig()
	cfg.Target = "target.invalid"
	opts, err := BuildOptions(cfg)
	if err != nil {
		t.Fatal(err)
	}

	p := &ProxyProbe{
		Endpoint: models.CandidateEndpoint{Port: port, Protocols: []string{models.ProtoHTTP}},
		Protocol: models.ProtoHTTP,
	}
	if want := fmt.Sprintf("proxy.port.%d.http", port); p.Name() != want {
		t.Errorf("name = %s, want %s", p.Name(), want)
	}

	sig := p.Run(context.Background(), opts)[0]
	if sig.State != models.StateOk {
		t.Fatalf("state = %s (%s), want ok", sig.State, sig.Detail)
	}
	if sig.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", sig.StatusCode)
	}
}

/**
 * Test the probe against a dead endpoint: failure is an observation
 */
func TestProxyProbeDeadEndpoint(t *testing.T) {
	port := localPort(t, true)

	opts, err := BuildOptions(testDiagnoseConfig())
	if err != nil {
		t.Fatal(err)
	}

	p := &ProxyProbe{
		Endpoint: models.CandidateEndpoint{Port: port},
		Protocol: models.ProtoHTTP,
	}
	sig := p.Run(context.Background(), opts)[0]
	if sig.State != models.StateError && sig.State != models.StateTimeout {
		t.Errorf("state = %s, want error or timeout", sig.State)
	}
}

/**
 * Test the SOCKS5 probe against a non-SOCKS listener
 */
func TestProxyProbeSOCKS5Mismatch(t *testing.T) {
	_, port := testServer(t)

	cfg := testDiagnoseConfig()
	cfg.Target = "target.invalid"
	opts, err := BuildOptions(cfg)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	p := &ProxyProbe{
		Endpoint: models.CandidateEndpoint{Port: port},
		Protocol: models.ProtoSOCKS5,
	}
	sig := p.Run(ctx, opts)[0]
	if sig.State == models.StateOk {
		t.Error("HTTP server accepted as SOCKS5 proxy")
	}
}
