package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/zer0grav1tas/tenantctl/modules/sharepoint"
)

var sharepointCmd = &cobra.Command{
	Use:     "sharepoint",
	Aliases: []string{"spo"},
	Short:   "SharePoint Online site modules",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

func init() {
	RegisterModule(sharepointCmd, sharepoint.SharePointSiteAuditMetadata, sharepoint.SharePointSiteAuditOptions, noCommon, sharepoint.NewSharePointSiteAudit)
	rootCmd.AddCommand(sharepointCmd)
}
