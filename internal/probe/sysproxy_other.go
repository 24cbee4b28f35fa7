//go:build !darwin

package probe

import (
	"context"
	"os"
)

/**
 * Query system proxy settings on non-macOS platforms
 * @description
 * - Linux桌面环境的代理设置分散在各桌面框架里，没有统一查询入口，
 *   这里回退到检查标准环境变量
 */
func querySystemProxy(ctx context.Context) (bool, string, error) {
	for _, name := range []string{"HTTP_PROXY", "HTTPS_PROXY", "ALL_PROXY", "http_proxy", "https_proxy", "all_proxy"} {
		if v := os.Getenv(name); v != "" {
			return true, v, nil
		}
	}
	return false, "", nil
}
