package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zer0grav1tas/tenantctl/internal/message"
	"github.com/zer0grav1tas/tenantctl/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tenantctl",
	Run: func(cmd *cobra.Command, args []string) {
		message.Info("%s", version.FullVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
