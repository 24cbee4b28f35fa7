package probe

import (
	"context"
	"sort"
	"sync"

	"netdiag/internal/models"
	"netdiag/internal/utils"
)

// PortSweepProbe 本地代理端口扫描探针
// @Description 对固定候选端口列表做极短超时的本地连接测试，
// 纯本地自省，不会触发外部网络流量
type PortSweepProbe struct{}

func (p *PortSweepProbe) Name() string { return "port_sweep" }

/**
 * Sweep candidate proxy ports for active listeners
 * @returns {[]models.Signal} One listener_list signal with the open ports
 * @description
 * - Ports are checked concurrently; an empty result is still state Ok
 *   (no listener is a legitimate observation, not a failure)
 */
func (p *PortSweepProbe) Run(ctx context.Context, opts *Options) []models.Signal {
	var (
		mu   sync.Mutex
		open []int
		wg   sync.WaitGroup
	)
	for _, port := range opts.CandidatePorts {
		wg.Add(1)
		go func(port int) {
			defer wg.Done()
			if utils.DialPort(ctx, port) {
				mu.Lock()
				open = append(open, port)
				mu.Unlock()
			}
		}(port)
	}
	wg.Wait()
	sort.Ints(open)

	return []models.Signal{{
		Name:  "listeners.candidates",
		Kind:  models.KindListenerList,
		State: models.StateOk,
		Ports: open,
	}}
}

/**
 * Derive candidate endpoints from the listener signal
 * @param {models.Signal} sig - listeners.candidates signal
 * @returns {[]models.CandidateEndpoint} One endpoint per open port, both protocols pending
 */
func Endpoints(sig models.Signal) []models.CandidateEndpoint {
	eps := make([]models.CandidateEndpoint, 0, len(sig.Ports))
	for _, port := range sig.Ports {
		eps = append(eps, models.CandidateEndpoint{
			Port:      port,
			Protocols: []string{models.ProtoHTTP, models.ProtoSOCKS5},
		})
	}
	return eps
}
