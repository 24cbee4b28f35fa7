package root

import (
	"github.com/spf13/cobra"
)

// 构建时经ldflags注入；version子命令与服务健康检查共用同一组值
var (
	SoftwareVer   = "dev"
	BuildTime     = ""
	BuildTag      = ""
	BuildCommitId = ""
)

var RootCmd = &cobra.Command{
	Use:   "netdiag",
	Short: "本地代理网络连通性诊断工具",
	Long:  `netdiag诊断由本地代理(DNS劫持+流量接管)介入的网络为何不通：并发采集DNS、直连、代理端口、系统代理等信号，对照规则表给出根因与修复建议`,
}
