//go:build darwin

package probe

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

/**
 * Query system proxy settings on macOS (scutil --proxy)
 * @returns {bool} Whether any of HTTP/HTTPS/SOCKS proxy is enabled
 * @returns {string} Enabled proxy endpoint ("host:port")
 * @returns {error} scutil execution failure
 */
func querySystemProxy(ctx context.Context) (bool, string, error) {
	out, err := exec.CommandContext(ctx, "scutil", "--proxy").Output()
	if err != nil {
		return false, "", fmt.Errorf("scutil --proxy: %w", err)
	}

	values := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		parts := strings.SplitN(line, " : ", 2)
		if len(parts) == 2 {
			values[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}

	for _, kind := range []string{"HTTP", "HTTPS", "SOCKS"} {
		if values[kind+"Enable"] != "1" {
			continue
		}
		host := values[kind+"Proxy"]
		port := values[kind+"Port"]
		if host != "" {
			return true, host + ":" + port, nil
		}
		return true, "", nil
	}
	return false, "", nil
}
