package controllers

import (
	"netdiag/internal/config"
	"netdiag/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type APIController struct {
	server *services.Server
}

/**
 * Create new API controller instance
 * @param {*services.Server} server - Diagnostic server instance
 * @returns {*APIController} New API controller instance
 */
func NewAPIController(server *services.Server) *APIController {
	return &APIController{
		server: server,
	}
}

/**
 * Register all API routes to Gin engine
 * @param {*gin.Engine} r - Gin router instance
 * @description
 * - Registers routes for:
 *   - Diagnostic session execution
 *   - Configuration reload
 *   - Health check and Prometheus metrics
 */
func (a *APIController) RegisterRoutes(r *gin.Engine) {
	r.POST("/netdiag/api/v1/diagnose", a.Diagnose)
	r.POST("/netdiag/api/v1/reload", a.ReloadConfig)
	r.GET("/healthz", a.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// @Summary 执行连通性诊断
// @Description 并发运行全部网络探针，冻结信号集合后按规则表分类，返回完整诊断报告
// @Description 普通网络故障(探针超时、连接拒绝等)不会产生HTTP错误，均体现在报告的信号状态中
// @Tags Diagnose
// @Accept json
// @Produce json
// @Success 200 {object} models.Report "诊断报告：结论、置信度、信号明细与修复建议"
// @Failure 500 {object} map[string]interface{} "仅配置无效(目标主机名非法等)时返回"
// @Router /netdiag/api/v1/diagnose [post]
func (a *APIController) Diagnose(c *gin.Context) {
	report, err := a.server.RunDiagnosis(c.Request.Context())
	if err != nil {
		c.JSON(500, gin.H{
			"code":    "diagnose.invalid_config",
			"message": "Failed to run diagnosis: " + err.Error(),
		})
		return
	}
	c.JSON(200, report)
}

// @Summary 重新加载配置
// @Description 重新加载应用配置文件
// @Tags Config
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /netdiag/api/v1/reload [post]
func (a *APIController) ReloadConfig(c *gin.Context) {
	if err := config.ReloadConfig(); err != nil {
		c.JSON(500, gin.H{
			"code":    "config.reload_failed",
			"message": "Failed to reload configuration: " + err.Error(),
		})
		return
	}

	c.JSON(200, gin.H{
		"status":  "success",
		"message": "Configuration reloaded successfully",
	})
}

// @Summary 业务就绪探针
// @Description 检查服务是否已经做好准备，返回服务版本、启动时间、健康状态和关键指标统计结果
// @Tags System
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /healthz [get]
func (a *APIController) Healthz(c *gin.Context) {
	response := a.server.GetHealthz()
	c.JSON(200, response)
}
