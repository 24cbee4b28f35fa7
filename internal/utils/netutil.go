package utils

import (
	"context"
	"fmt"
	"net"
	"time"
)

// 本地端口探测超时；回环连接要么立即成功要么立即拒绝
const localDialTimeout = 300 * time.Millisecond

/**
 * Check whether a local port has an active listener
 * @param {int} port - Port on 127.0.0.1 to dial
 * @returns {bool} True if the dial succeeds
 */
func DialPort(ctx context.Context, port int) bool {
	d := net.Dialer{Timeout: localDialTimeout}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort("127.0.0.1", fmt.Sprintf("%d", port)))
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

/**
 * Measure one TCP round trip to an address
 * @param {string} address - "host:port" to dial
 * @returns {time.Duration} Connection establishment time
 * @returns {error} Dial failure
 */
func DialLatency(ctx context.Context, address string) (time.Duration, error) {
	var d net.Dialer
	start := time.Now()
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return 0, err
	}
	elapsed := time.Since(start)
	conn.Close()
	return elapsed, nil
}
