package server

import (
	"strings"
	"testing"

	"netdiag/cmd/root"
)

/**
 * Test that the health endpoint version and the version command share one source
 */
func TestVersionString(t *testing.T) {
	got := versionString()
	if !strings.Contains(got, root.SoftwareVer) {
		t.Errorf("versionString() = %q, missing build version %q", got, root.SoftwareVer)
	}
	if !strings.HasPrefix(got, "netdiag ") {
		t.Errorf("versionString() = %q, want netdiag prefix", got)
	}
}
