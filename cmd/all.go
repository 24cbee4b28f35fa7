package cmd

import (
	_ "netdiag/cmd/check"
	_ "netdiag/cmd/diagnose"
	_ "netdiag/cmd/root"
	_ "netdiag/cmd/server"
)
