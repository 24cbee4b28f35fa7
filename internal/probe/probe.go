package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"netdiag/internal/config"
	"netdiag/internal/models"
)

// Prober 探针接口
// @Description 一次网络观测单元；必须在调用方给定的超时内返回，
// 超时以Timeout状态的信号表示，绝不向会话抛出异常
type Prober interface {
	Name() string
	Run(ctx context.Context, opts *Options) []models.Signal
}

// Options 一次诊断会话内所有探针共享的只读参数
type Options struct {
	Target         string
	Resolvers      []string
	CandidatePorts []int
	Sentinel       []*net.IPNet
	Ambiguous      []*net.IPNet
	LatencySamples int
}

/**
 * Build probe options from diagnose configuration
 * @param {config.DiagnoseConfig} cfg - Diagnose section of the app config
 * @returns {*Options} Compiled options shared by all probes
 * @returns {error} Programmer-error conditions only (invalid target, bad CIDR)
 * @description
 * - This is the only place the engine is allowed to fail a run:
 *   all network degradation is carried inside Signal states instead
 */
func BuildOptions(cfg config.DiagnoseConfig) (*Options, error) {
	target := strings.TrimSpace(cfg.Target)
	if target == "" || strings.ContainsAny(target, "/ \t") || strings.Contains(target, "://") {
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidTarget, cfg.Target)
	}
	if len(cfg.Resolvers) == 0 {
		return nil, config.ErrNoResolvers
	}
	if len(cfg.CandidatePorts) == 0 {
		return nil, config.ErrNoCandidatePorts
	}

	opts := &Options{
		Target:         target,
		Resolvers:      cfg.Resolvers,
		CandidatePorts: cfg.CandidatePorts,
		LatencySamples: cfg.LatencySamples,
	}
	var err error
	if opts.Sentinel, err = compileCIDRs(cfg.SentinelCIDRs); err != nil {
		return nil, err
	}
	if opts.Ambiguous, err = compileCIDRs(cfg.AmbiguousCIDRs); err != nil {
		return nil, err
	}
	return opts, nil
}

func compileCIDRs(blocks []string) ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(blocks))
	for _, block := range blocks {
		_, ipnet, err := net.ParseCIDR(block)
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR %q: %w", block, err)
		}
		nets = append(nets, ipnet)
	}
	return nets, nil
}

/**
 * Map a probe failure to a signal state
 * @param {error} err - Error returned by the underlying network call
 * @returns {models.SignalState} Timeout for deadline-style failures, Error otherwise
 */
func StateFromError(err error) models.SignalState {
	if err == nil {
		return models.StateOk
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return models.StateTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return models.StateTimeout
	}
	return models.StateError
}

/**
 * Classify a resolved address against the configured CIDR lists
 * @param {net.IP} ip - Resolved address
 * @param {[]*net.IPNet} sentinel - Blocks treated as fake/placeholder addresses
 * @param {[]*net.IPNet} ambiguous - Blocks that need the latency heuristic
 * @returns {models.AddressClass} sentinel, ambiguous or real
 */
func ClassifyAddress(ip net.IP, sentinel, ambiguous []*net.IPNet) models.AddressClass {
	for _, n := range sentinel {
		if n.Contains(ip) {
			return models.ClassSentinel
		}
	}
	for _, n := range ambiguous {
		if n.Contains(ip) {
			return models.ClassAmbiguous
		}
	}
	return models.ClassReal
}
