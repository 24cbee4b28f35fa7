package rpc

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testClient(t *testing.T, handler http.Handler) HTTPClient {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	address := strings.TrimPrefix(ts.URL, "http://")
	client := NewHTTPClient(&HTTPConfig{
		Address: address,
		Timeout: 5 * time.Second,
		BaseURL: ts.URL,
	})
	t.Cleanup(func() { client.Close() })
	return client
}

/**
 * Test GET against a healthy endpoint
 */
func TestClientGet(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthz" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"status":"healthy"}`))
	}))

	resp, err := client.Get("/healthz")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Text, "healthy") {
		t.Errorf("body = %s", resp.Text)
	}
	if resp.Error != "" {
		t.Errorf("unexpected error field %q", resp.Error)
	}
}

/**
 * Test POST with a JSON body
 */
func TestClientPost(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s", ct)
		}
		w.Write([]byte(`{}`))
	}))

	resp, err := client.Post("/netdiag/api/v1/diagnose", map[string]string{"target": "example.com"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

/**
 * Test error message extraction from a failing endpoint
 */
func TestClientErrorExtraction(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"诊断会话创建失败"}`))
	}))

	resp, err := client.Get("/healthz")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if resp.Error != "诊断会话创建失败" {
		t.Errorf("error = %q", resp.Error)
	}
}

/**
 * Test dial failure surfaces as a client error, not a panic
 */
func TestClientUnreachable(t *testing.T) {
	client := NewHTTPClient(&HTTPConfig{
		Address: "127.0.0.1:1",
		Timeout: time.Second,
		BaseURL: "http://127.0.0.1:1",
	})
	defer client.Close()

	if _, err := client.Get("/healthz"); err == nil {
		t.Fatal("expected connection error")
	}
}
