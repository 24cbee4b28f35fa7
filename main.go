package main

import (
	_ "netdiag/cmd"
	"netdiag/cmd/root"
	"netdiag/internal/config"
	"netdiag/internal/logger"
	"os"
)

func main() {
	// 检查是否是服务器模式
	isServerMode := len(os.Args) > 1 && os.Args[1] == "server"

	// 根据运行模式初始化日志系统
	logger.InitLogger(config.Config.Log.Path, config.Config.Log.Level, isServerMode)

	if err := root.RootCmd.Execute(); err != nil {
		logger.Fatal(err)
	}
	os.Exit(0)
}
