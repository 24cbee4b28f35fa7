package diagnose

import (
	"context"
	"fmt"

	"netdiag/cmd/root"
	"netdiag/internal/config"
	"netdiag/internal/diagnose"
	"netdiag/internal/logger"

	"github.com/spf13/cobra"
)

var (
	flagTarget    string
	flagJSON      bool
	flagTimeoutMs int
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "执行一次连通性诊断",
	Long:  `并发运行全部网络探针并输出诊断报告；普通网络故障不会导致命令失败，只有配置非法时才报错`,
	Run: func(cmd *cobra.Command, args []string) {
		runDiagnose()
	},
}

const diagnoseExample = `  # 使用默认目标诊断
  netdiag diagnose

  # 指定目标并输出JSON
  netdiag diagnose --target www.github.com --json`

/**
 * Run one diagnostic session and print the report
 * @description
 * - 命令行参数覆盖配置文件中的对应项
 * - 文本模式输出叙述性报告，--json输出结构化报告
 */
func runDiagnose() {
	cfg := config.Config.Diagnose
	if flagTarget != "" {
		cfg.Target = flagTarget
	}
	if flagTimeoutMs > 0 {
		cfg.SessionTimeoutMs = flagTimeoutMs
	}

	session, err := diagnose.NewSession(cfg)
	if err != nil {
		logger.Fatal(err)
	}

	report, err := session.Run(context.Background())
	if err != nil {
		logger.Fatal(err)
	}

	if flagJSON {
		text, err := diagnose.ToJSON(report)
		if err != nil {
			logger.Fatal(err)
		}
		fmt.Println(text)
		return
	}
	fmt.Print(diagnose.RenderText(report))
}

func init() {
	diagnoseCmd.Flags().SortFlags = false
	diagnoseCmd.Flags().StringVarP(&flagTarget, "target", "t", "", "被诊断的目标主机名")
	diagnoseCmd.Flags().BoolVar(&flagJSON, "json", false, "输出结构化JSON报告")
	diagnoseCmd.Flags().IntVar(&flagTimeoutMs, "timeout", 0, "会话超时(毫秒)，覆盖配置文件")
	diagnoseCmd.Example = diagnoseExample
	root.RootCmd.AddCommand(diagnoseCmd)
}
