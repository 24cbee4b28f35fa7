package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"netdiag/internal/config"
)

// HTTPClient 定义HTTP客户端接口
type HTTPClient interface {
	Get(path string) (*HTTPResponse, error)
	Post(path string, data interface{}) (*HTTPResponse, error)
	Close() error
}

// HTTPConfig 定义HTTP客户端配置
type HTTPConfig struct {
	Address string        //netdiag服务侦听地址
	Timeout time.Duration // 默认超时时间
	BaseURL string        // 基础URL
}

// DefaultHTTPConfig 返回默认HTTP客户端配置
func DefaultHTTPConfig() *HTTPConfig {
	address := config.Config.Server.Address
	if strings.HasPrefix(address, ":") {
		address = "127.0.0.1" + address
	}
	if address == "" {
		address = "127.0.0.1:8091"
	}
	return &HTTPConfig{
		Address: address,
		Timeout: 30 * time.Second,
		BaseURL: "http://" + address,
	}
}

// HTTPResponse 定义HTTP响应结构
type HTTPResponse struct {
	StatusCode int    `json:"status_code"`
	Text       string `json:"text"`
	Error      string `json:"error,omitempty"`
}

// httpClient HTTP客户端实现
type httpClient struct {
	config *HTTPConfig
	client *http.Client
}

/**
 * Create new HTTP client for querying a running netdiag server
 * @param {*HTTPConfig} config - Client configuration, nil uses defaults
 * @returns {HTTPClient} HTTP client interface
 * @description
 * - 诊断会话可能接近会话超时上限才返回，默认客户端超时放宽到30秒
 */
func NewHTTPClient(cfg *HTTPConfig) HTTPClient {
	if cfg == nil {
		cfg = DefaultHTTPConfig()
	}
	return &httpClient{
		config: cfg,
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: 2 * time.Second}).DialContext,
			},
			Timeout: cfg.Timeout,
		},
	}
}

// Get 发送GET请求
func (c *httpClient) Get(path string) (*HTTPResponse, error) {
	resp, err := c.client.Get(c.config.BaseURL + path)
	if err != nil {
		return nil, fmt.Errorf("failed to reach netdiag server at %s: %w", c.config.Address, err)
	}
	return readResponse(resp)
}

// Post 发送POST请求
func (c *httpClient) Post(path string, data interface{}) (*HTTPResponse, error) {
	var body io.Reader
	if data != nil {
		payload, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}
	resp, err := c.client.Post(c.config.BaseURL+path, "application/json", body)
	if err != nil {
		return nil, fmt.Errorf("failed to reach netdiag server at %s: %w", c.config.Address, err)
	}
	return readResponse(resp)
}

// Close 关闭客户端连接
func (c *httpClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

func readResponse(resp *http.Response) (*HTTPResponse, error) {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	result := &HTTPResponse{
		StatusCode: resp.StatusCode,
		Text:       string(data),
	}
	if resp.StatusCode >= 400 {
		var payload struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &payload) == nil {
			result.Error = payload.Message
		}
	}
	return result, nil
}
