package probe

import (
	"context"
	"net"
	"sort"

	"netdiag/internal/models"
	"netdiag/internal/utils"
)

// LatencyProbe 往返时延探针
// @Description 对已解析出的目标地址做少量TCP往返取中位数；
// 只用于消除歧义地址段的分类歧义，不参与其他判定
type LatencyProbe struct {
	Address string // DNS探针解析出的地址，空串表示无可测地址
}

func (p *LatencyProbe) Name() string { return "latency" }

func (p *LatencyProbe) Run(ctx context.Context, opts *Options) []models.Signal {
	sig := models.Signal{
		Name: "latency.target",
		Kind: models.KindLatency,
	}
	if p.Address == "" {
		sig.State = models.StateSkipped
		sig.Detail = "no resolved address"
		return []models.Signal{sig}
	}

	address := net.JoinHostPort(p.Address, "80")
	sig.Detail = address

	samples := make([]int64, 0, opts.LatencySamples)
	var lastErr error
	for i := 0; i < opts.LatencySamples; i++ {
		if ctx.Err() != nil {
			break
		}
		elapsed, err := utils.DialLatency(ctx, address)
		if err != nil {
			lastErr = err
			continue
		}
		samples = append(samples, elapsed.Milliseconds())
	}

	if len(samples) == 0 {
		if lastErr == nil {
			lastErr = ctx.Err()
		}
		sig.State = StateFromError(lastErr)
		if lastErr != nil {
			sig.Detail += ": " + lastErr.Error()
		}
		return []models.Signal{sig}
	}

	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	sig.State = models.StateOk
	sig.LatencyMs = samples[len(samples)/2]
	return []models.Signal{sig}
}
