package probe

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"netdiag/internal/models"
)

// 常见代理环境变量，大小写两种写法都要查；NO_PROXY只表达例外列表，不在其内
var proxyEnvVars = []string{
	"HTTP_PROXY", "HTTPS_PROXY", "ALL_PROXY",
	"http_proxy", "https_proxy", "all_proxy",
}

// EnvProbe 环境变量与工具级代理配置探针
// @Description 读取代理相关环境变量以及git全局代理配置，均为只读操作
type EnvProbe struct{}

func (p *EnvProbe) Name() string { return "env" }

/**
 * Collect environment-level proxy signals
 * @returns {[]models.Signal} env_proxy.enabled and git_proxy.enabled
 * @description
 * - env_proxy.enabled: true when any proxy environment variable is set,
 *   Detail lists which ones
 * - git_proxy.enabled: true when git global http.proxy is configured,
 *   Skipped when the git binary is absent
 */
func (p *EnvProbe) Run(ctx context.Context, opts *Options) []models.Signal {
	var set []string
	for _, name := range proxyEnvVars {
		if v := os.Getenv(name); v != "" {
			set = append(set, name+"="+v)
		}
	}
	envSig := models.Signal{
		Name:   "env_proxy.enabled",
		Kind:   models.KindBoolean,
		State:  models.StateOk,
		Bool:   len(set) > 0,
		Detail: strings.Join(set, ", "),
	}

	gitSig := models.Signal{
		Name: "git_proxy.enabled",
		Kind: models.KindBoolean,
	}
	if _, err := exec.LookPath("git"); err != nil {
		gitSig.State = models.StateSkipped
		gitSig.Detail = "git not installed"
	} else {
		out, err := exec.CommandContext(ctx, "git", "config", "--global", "--get", "http.proxy").Output()
		endpoint := strings.TrimSpace(string(out))
		if ctx.Err() != nil {
			gitSig.State = models.StateTimeout
		} else if err == nil && endpoint != "" {
			gitSig.State = models.StateOk
			gitSig.Bool = true
			gitSig.Detail = endpoint
		} else {
			// git config --get 对未设置的键返回非零退出码，属正常情况
			gitSig.State = models.StateOk
			gitSig.Bool = false
		}
	}

	return []models.Signal{envSig, gitSig}
}
