package cmd

import (
	"fmt"

	"netdiag/cmd/root"

	"github.com/spf13/cobra"
)

func PrintVersions() {
	fmt.Printf("Version %s\n", root.SoftwareVer)
	fmt.Printf("Build Time: %s\n", root.BuildTime)
	fmt.Printf("Build Tag: %s\n", root.BuildTag)
	fmt.Printf("Build Commit ID: %s\n", root.BuildCommitId)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Long:  `The 'version' command shows version details including git commit and build time`,

	Run: func(cmd *cobra.Command, args []string) {
		PrintVersions()
	},
}

func init() {
	root.RootCmd.AddCommand(versionCmd)

	versionCmd.Example = `  netdiag version`
}
