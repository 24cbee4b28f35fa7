package services

import (
	"sync/atomic"

	"netdiag/internal/models"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netdiag_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"route"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netdiag_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	probeCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netdiag_probe_total",
			Help: "Probe executions by terminal state",
		},
		[]string{"probe", "state"},
	)

	probeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netdiag_probe_duration_seconds",
			Help:    "Duration of probe executions",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"probe"},
	)

	sessionCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netdiag_session_total",
			Help: "Diagnostic sessions by resulting category",
		},
		[]string{"category"},
	)
)

// 本地计数器，供健康检查接口读取
var (
	totalRequests int64
	errorRequests int64
	totalSessions int64
)

func init() {
	prometheus.MustRegister(requestCount)
	prometheus.MustRegister(requestDuration)
	prometheus.MustRegister(probeCount)
	prometheus.MustRegister(probeDuration)
	prometheus.MustRegister(sessionCount)
}

// IncrementRequestCount 增加请求计数
func IncrementRequestCount(route string) {
	requestCount.WithLabelValues(route).Inc()
	atomic.AddInt64(&totalRequests, 1)
}

// RecordRequestDuration 记录请求处理时间
func RecordRequestDuration(route string, seconds float64) {
	requestDuration.WithLabelValues(route).Observe(seconds)
}

// IncrementErrorCount 增加错误请求计数
func IncrementErrorCount(route string) {
	atomic.AddInt64(&errorRequests, 1)
}

// GetTotalRequestCount 获取总请求数
func GetTotalRequestCount() int64 {
	return atomic.LoadInt64(&totalRequests)
}

// GetTotalErrorCount 获取错误请求数
func GetTotalErrorCount() int64 {
	return atomic.LoadInt64(&errorRequests)
}

/**
 * Record one probe execution
 * @param {string} probe - Probe name
 * @param {models.SignalState} state - Worst signal state the probe produced
 * @param {float64} seconds - Probe wall-clock duration
 */
func RecordProbe(probe string, state models.SignalState, seconds float64) {
	probeCount.WithLabelValues(probe, string(state)).Inc()
	probeDuration.WithLabelValues(probe).Observe(seconds)
}

// RecordSession 记录一次诊断会话的分类结果
func RecordSession(category models.Category) {
	sessionCount.WithLabelValues(string(category)).Inc()
	atomic.AddInt64(&totalSessions, 1)
}

// GetTotalSessionCount 获取已执行会话数
func GetTotalSessionCount() int64 {
	return atomic.LoadInt64(&totalSessions)
}
