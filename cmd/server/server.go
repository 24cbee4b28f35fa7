package server

import (
	"fmt"
	"log"

	"netdiag/cmd/root"
	"netdiag/controllers"
	"netdiag/internal/config"
	"netdiag/internal/middleware"
	"netdiag/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "启动HTTP服务",
	Long:  `以HTTP服务方式暴露诊断引擎：POST /netdiag/api/v1/diagnose触发一次会话，/healthz与/metrics提供运行状态`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := startServer(); err != nil {
			log.Fatal(err)
		}
	},
}

func startServer() error {
	if config.Config.Server.Mode != "" {
		gin.SetMode(config.Config.Server.Mode)
	}

	router := gin.Default()
	router.Use(middleware.MetricsMiddleware())

	server := services.NewServer(versionString())
	apiController := controllers.NewAPIController(server)
	apiController.RegisterRoutes(router)

	return router.Run(config.Config.Server.Address)
}

func versionString() string {
	return fmt.Sprintf("netdiag %s", root.SoftwareVer)
}

func init() {
	root.RootCmd.AddCommand(serverCmd)
}
