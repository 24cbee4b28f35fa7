package services

import (
	"context"
	"sync"
	"time"

	"netdiag/internal/config"
	"netdiag/internal/diagnose"
	"netdiag/internal/logger"
	"netdiag/internal/models"
)

// Server 服务器模式下的诊断服务
// @Description 包装诊断会话供HTTP层调用；每次请求新建一个会话，互不影响
type Server struct {
	startTime time.Time
	version   string

	mu           sync.Mutex
	lastCategory models.Category
}

/**
 * Create diagnostic server instance
 * @param {string} version - Build version for the health endpoint
 * @returns {*Server} New server instance
 */
func NewServer(version string) *Server {
	return &Server{
		startTime: time.Now(),
		version:   version,
	}
}

/**
 * Run one diagnostic session with the current configuration
 * @param {context.Context} ctx - Request context; cancellation propagates to probes
 * @returns {*models.Report} Diagnostic report
 * @returns {error} Only for invalid configuration
 * @description
 * - 探针执行情况与会话分类结果都会记入Prometheus指标
 */
func (s *Server) RunDiagnosis(ctx context.Context) (*models.Report, error) {
	session, err := diagnose.NewSession(config.Config.Diagnose)
	if err != nil {
		return nil, err
	}
	session.SetObserver(RecordProbe)

	report, err := session.Run(ctx)
	if err != nil {
		return nil, err
	}

	RecordSession(report.Category)
	s.mu.Lock()
	s.lastCategory = report.Category
	s.mu.Unlock()

	logger.Infof("诊断完成: target=%s category=%s confidence=%s",
		report.Target, report.Category, report.Confidence)
	return report, nil
}

/**
 * Build health check response
 * @returns {models.HealthResponse} Version, uptime and key metrics
 */
func (s *Server) GetHealthz() models.HealthResponse {
	s.mu.Lock()
	last := s.lastCategory
	s.mu.Unlock()

	return models.HealthResponse{
		Version:   s.version,
		StartTime: s.startTime.Format(time.RFC3339),
		Status:    "UP",
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Metrics: models.Metrics{
			TotalRequests: GetTotalRequestCount(),
			ErrorRequests: GetTotalErrorCount(),
			TotalSessions: GetTotalSessionCount(),
			LastCategory:  string(last),
		},
	}
}
