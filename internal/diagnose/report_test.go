package diagnose

import (
	"strings"
	"testing"

	"netdiag/internal/models"
)

func frozenSet(t *testing.T) *models.SignalSet {
	t.Helper()
	set := models.NewSignalSet()
	mustPut(t, set, dnsSignal("dns.local", models.ClassSentinel, "198.18.0.1"))
	mustPut(t, set, httpSignal("connectivity.direct", models.StateTimeout))
	mustPut(t, set, httpSignal("proxy.port.7890.http", models.StateOk))
	mustPut(t, set, sysProxySignal(false))
	set.Freeze()
	return set
}

/**
 * Test report idempotence
 * @description 同一冻结集合+同一诊断重复构建，JSON输出必须字节级一致
 */
func TestBuildReportIdempotent(t *testing.T) {
	set := frozenSet(t)
	diag := newClassifier().Classify(set)

	first, err := ToJSON(BuildReport("www.google.com", set, diag, false))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		again, err := ToJSON(BuildReport("www.google.com", set, diag, false))
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Fatalf("rebuild %d produced different JSON", i)
		}
	}
}

/**
 * Test remediation ordering by rule-assigned rank
 */
func TestBuildReportRemediationOrder(t *testing.T) {
	set := models.NewSignalSet()
	set.Freeze()
	diag := models.Diagnosis{
		Category:   models.ProxySoftwareDown,
		Confidence: models.ConfidenceHigh,
		Remediations: []models.Remediation{
			{Rank: 3, Action: "c"},
			{Rank: 1, Action: "a"},
			{Rank: 2, Action: "b"},
		},
	}

	report := BuildReport("example.com", set, diag, false)
	for i, want := range []string{"a", "b", "c"} {
		if report.Remediations[i].Action != want {
			t.Fatalf("remediation[%d] = %s, want %s", i, report.Remediations[i].Action, want)
		}
	}
}

/**
 * Test findings ordering and timestamp source
 */
func TestBuildReportFindings(t *testing.T) {
	set := frozenSet(t)
	diag := newClassifier().Classify(set)
	report := BuildReport("www.google.com", set, diag, true)

	if !report.GeneratedAt.Equal(set.FrozenAt()) {
		t.Error("GeneratedAt must reuse the freeze timestamp")
	}
	if !report.TimedOut {
		t.Error("TimedOut flag lost")
	}
	names := set.Names()
	if len(report.Findings) != len(names) {
		t.Fatalf("findings = %d, want %d", len(report.Findings), len(names))
	}
	for i, f := range report.Findings {
		if f.Name != names[i] {
			t.Errorf("finding[%d] = %s, want %s (sorted order)", i, f.Name, names[i])
		}
	}
}

/**
 * Test the narrative renderer
 */
func TestRenderText(t *testing.T) {
	set := frozenSet(t)
	diag := newClassifier().Classify(set)
	text := RenderText(BuildReport("www.google.com", set, diag, false))

	for _, want := range []string{
		"连通性诊断报告",
		"www.google.com",
		summaries[models.TunDnsHijackTrafficBlocked],
		"修复建议",
		"dns.local",
		"198.18.0.1",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered text missing %q", want)
		}
	}
}

/**
 * Test value formatting per signal kind
 */
func TestFormatValue(t *testing.T) {
	cases := []struct {
		sig  models.Signal
		want string
	}{
		{dnsSignal("dns.local", models.ClassSentinel, "198.18.0.1"), "198.18.0.1 [sentinel]"},
		{models.Signal{Kind: models.KindLatency, State: models.StateOk, LatencyMs: 42}, "42ms"},
		{models.Signal{Kind: models.KindHTTPStatus, State: models.StateTimeout, Detail: "context deadline exceeded"},
			"timeout (context deadline exceeded)"},
		{models.Signal{Kind: models.KindListenerList, State: models.StateOk, Ports: []int{7890, 9090}}, "7890, 9090"},
		{models.Signal{Kind: models.KindBoolean, State: models.StateOk, Bool: false}, "false"},
	}
	for _, c := range cases {
		if got := formatValue(c.sig); got != c.want {
			t.Errorf("formatValue(%s/%s) = %q, want %q", c.sig.Kind, c.sig.State, got, c.want)
		}
	}
}
