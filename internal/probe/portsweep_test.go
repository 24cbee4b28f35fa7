package probe

import (
	"context"
	"net"
	"testing"

	"netdiag/internal/models"
)

// localPort 在回环地址上开一个监听并返回端口；close为true时立即释放端口
func localPort(t *testing.T, close bool) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	if close {
		ln.Close()
	} else {
		t.Cleanup(func() { ln.Close() })
	}
	return port
}

/**
 * Test that the sweep reports exactly the ports with live listeners
 */
func TestPortSweep(t *testing.T) {
	open := localPort(t, false)
	closed := localPort(t, true)

	cfg := testDiagnoseConfig()
	cfg.CandidatePorts = []int{open, closed}
	opts, err := BuildOptions(cfg)
	if err != nil {
		t.Fatal(err)
	}

	signals := (&PortSweepProbe{}).Run(context.Background(), opts)
	if len(signals) != 1 {
		t.Fatalf("got %d signals, want 1", len(signals))
	}
	sig := signals[0]
	if sig.Name != "listeners.candidates" || sig.State != models.StateOk {
		t.Fatalf("unexpected signal %+v", sig)
	}
	if len(sig.Ports) != 1 || sig.Ports[0] != open {
		t.Errorf("open ports = %v, want [%d]", sig.Ports, open)
	}
}

/**
 * Test that an empty sweep result is still a valid Ok observation
 */
func TestPortSweepEmpty(t *testing.T) {
	cfg := testDiagnoseConfig()
	cfg.CandidatePorts = []int{localPort(t, true)}
	opts, err := BuildOptions(cfg)
	if err != nil {
		t.Fatal(err)
	}

	sig := (&PortSweepProbe{}).Run(context.Background(), opts)[0]
	if sig.State != models.StateOk {
		t.Errorf("state = %s, want ok (no listener is an observation, not a failure)", sig.State)
	}
	if len(sig.Ports) != 0 {
		t.Errorf("ports = %v, want empty", sig.Ports)
	}
}

/**
 * Test candidate endpoint derivation from the listener signal
 */
func TestEndpoints(t *testing.T) {
	sig := models.Signal{
		Name:  "listeners.candidates",
		Kind:  models.KindListenerList,
		State: models.StateOk,
		Ports: []int{7890, 9090},
	}
	eps := Endpoints(sig)
	if len(eps) != 2 {
		t.Fatalf("got %d endpoints, want 2", len(eps))
	}
	if eps[0].Port != 7890 || eps[1].Port != 9090 {
		t.Errorf("ports = %d,%d", eps[0].Port, eps[1].Port)
	}
	for _, ep := range eps {
		if len(ep.Protocols) != 2 {
			t.Errorf("endpoint %d protocols = %v, want http+socks5", ep.Port, ep.Protocols)
		}
	}
	if eps[0].Address() != "127.0.0.1:7890" {
		t.Errorf("address = %s", eps[0].Address())
	}
}
