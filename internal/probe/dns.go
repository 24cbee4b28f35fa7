package probe

import (
	"context"
	"net"
	"strings"

	"netdiag/internal/models"
)

// DNSProbe DNS解析探针，按解析器参数化
// @Description Resolver为空时走系统本地解析，否则强制使用指定的外部解析器；
// 解析结果逐个对照哨兵/歧义CIDR列表分类
type DNSProbe struct {
	Resolver string // "host:port"，空串表示系统本地解析
}

func (p *DNSProbe) Name() string {
	return p.signalName()
}

func (p *DNSProbe) signalName() string {
	if p.Resolver == "" {
		return "dns.local"
	}
	host, _, err := net.SplitHostPort(p.Resolver)
	if err != nil {
		host = p.Resolver
	}
	var digits strings.Builder
	for _, r := range host {
		if r != '.' && r != ':' {
			digits.WriteRune(r)
		}
	}
	return "dns.external_" + digits.String()
}

/**
 * Resolve the target hostname and classify every returned address
 * @returns {[]models.Signal} One resolved_address signal
 * @description
 * - Signal class is the worst class across all addresses:
 *   sentinel > ambiguous > real
 * - Resolution failure is recorded as Error/Timeout state, never raised
 */
func (p *DNSProbe) Run(ctx context.Context, opts *Options) []models.Signal {
	sig := models.Signal{
		Name: p.signalName(),
		Kind: models.KindResolvedAddress,
	}

	resolver := net.DefaultResolver
	if p.Resolver != "" {
		server := p.Resolver
		resolver = &net.Resolver{
			PreferGo: true,
			Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, network, server)
			},
		}
		sig.Detail = "resolver " + server
	}

	addrs, err := resolver.LookupIPAddr(ctx, opts.Target)
	if err != nil {
		sig.State = StateFromError(err)
		if sig.Detail != "" {
			sig.Detail += ": "
		}
		sig.Detail += err.Error()
		return []models.Signal{sig}
	}

	sig.State = models.StateOk
	sig.Class = models.ClassReal
	for _, addr := range addrs {
		sig.Addresses = append(sig.Addresses, addr.IP.String())
		switch ClassifyAddress(addr.IP, opts.Sentinel, opts.Ambiguous) {
		case models.ClassSentinel:
			sig.Class = models.ClassSentinel
		case models.ClassAmbiguous:
			if sig.Class != models.ClassSentinel {
				sig.Class = models.ClassAmbiguous
			}
		}
	}
	return []models.Signal{sig}
}
