package check

import (
	"encoding/json"
	"fmt"

	"netdiag/cmd/root"
	"netdiag/internal/diagnose"
	"netdiag/internal/models"
	"netdiag/internal/rpc"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "请求运行中的netdiag服务执行诊断",
	Long:  `Connect to a running netdiag server and trigger one diagnostic session via the HTTP API`,
	Run: func(cmd *cobra.Command, args []string) {
		checkServerDiagnosis()
	},
}

const checkExample = `  # 请求本机netdiag服务执行诊断
  netdiag check`

/**
 * Request a diagnosis from a running server and display the report
 * @description
 * - Creates HTTP client pointing at the configured server address
 * - Calls /netdiag/api/v1/diagnose endpoint
 * - Handles connection errors and API response errors
 * - Renders the returned report in narrative form
 */
func checkServerDiagnosis() {
	rpcClient := rpc.NewHTTPClient(nil)
	defer rpcClient.Close()

	resp, err := rpcClient.Post("/netdiag/api/v1/diagnose", nil)
	if err != nil {
		fmt.Printf("Failed to call netdiag API: %v\n", err)
		return
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.Error != "" {
			fmt.Printf("Netdiag API returned error: %s\n", resp.Error)
			return
		}
		fmt.Printf("Unexpected response from netdiag API\n")
		return
	}

	var report models.Report
	if err := json.Unmarshal([]byte(resp.Text), &report); err != nil {
		fmt.Printf("Failed to unmarshal report: %v\n", err)
		return
	}

	// 成功反序列化，按叙述形式展示报告
	fmt.Print(diagnose.RenderText(&report))
}

func init() {
	checkCmd.Flags().SortFlags = false
	checkCmd.Example = checkExample
	root.RootCmd.AddCommand(checkCmd)
}
