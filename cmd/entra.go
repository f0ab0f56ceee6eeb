package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/zer0grav1tas/tenantctl/modules/entra"
)

var entraCmd = &cobra.Command{
	Use:     "entra",
	Aliases: []string{"aad"},
	Short:   "Entra ID directory modules",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

func init() {
	RegisterModule(entraCmd, entra.EntraCreateAppMetadata, entra.EntraCreateAppOptions, noCommon, entra.NewEntraCreateApp)
	RegisterModule(entraCmd, entra.EntraCleanupAppsMetadata, entra.EntraCleanupAppsOptions, noCommon, entra.NewEntraCleanupApps)
	RegisterModule(entraCmd, entra.EntraExportUsersMetadata, entra.EntraExportUsersOptions, noCommon, entra.NewEntraExportUsers)
	RegisterModule(entraCmd, entra.EntraManagerChainMetadata, entra.EntraManagerChainOptions, noCommon, entra.NewEntraManagerChain)
	rootCmd.AddCommand(entraCmd)
}
