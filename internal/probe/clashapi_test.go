package probe

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"netdiag/internal/models"
)

// startMuxServer 起一个带路由的回环HTTP服务并返回其端口
func startMuxServer(t *testing.T, mux *http.ServeMux) int {
	t.Helper()
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	_, portStr, err := net.SplitHostPort(strings.TrimPrefix(ts.URL, "http://"))
	if err != nil {
		t.Fatal(err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatal(err)
	}
	return port
}

/**
 * Test management API discovery against a fake Clash endpoint
 */
func TestClashAPIProbe(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"version":"1.18.0"}`))
	})
	mux.HandleFunc("/proxies", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"proxies":{"DIRECT":{},"GLOBAL":{},"node-1":{}}}`))
	})
	srv := startMuxServer(t, mux)

	opts, err := BuildOptions(testDiagnoseConfig())
	if err != nil {
		t.Fatal(err)
	}

	sig := (&ClashAPIProbe{Ports: []int{srv}}).Run(context.Background(), opts)[0]
	if sig.Name != "clash_api.reachable" {
		t.Errorf("name = %s", sig.Name)
	}
	if sig.State != models.StateOk || !sig.Bool {
		t.Fatalf("signal = %+v, want reachable", sig)
	}
	if !strings.Contains(sig.Detail, "1.18.0") {
		t.Errorf("detail %q missing version", sig.Detail)
	}
	if !strings.Contains(sig.Detail, "3 proxies") {
		t.Errorf("detail %q missing proxy count", sig.Detail)
	}
}

/**
 * Test that ports without a management API are an Ok/false observation
 */
func TestClashAPIProbeNotFound(t *testing.T) {
	_, port := testServer(t) // 只会204的端口，没有/version语义

	opts, err := BuildOptions(testDiagnoseConfig())
	if err != nil {
		t.Fatal(err)
	}

	sig := (&ClashAPIProbe{Ports: []int{port}}).Run(context.Background(), opts)[0]
	if sig.State != models.StateOk || sig.Bool {
		t.Errorf("signal = %+v, want ok/false", sig)
	}
}

/**
 * Test skipping when the port sweep found nothing
 */
func TestClashAPIProbeSkipped(t *testing.T) {
	opts, err := BuildOptions(testDiagnoseConfig())
	if err != nil {
		t.Fatal(err)
	}
	sig := (&ClashAPIProbe{}).Run(context.Background(), opts)[0]
	if sig.State != models.StateSkipped {
		t.Errorf("state = %s, want skipped", sig.State)
	}
}
