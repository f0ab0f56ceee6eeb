package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/zer0grav1tas/tenantctl/modules/auditlog"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Unified audit log modules",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

func init() {
	RegisterModule(auditCmd, auditlog.AuditActivityMetadata, auditlog.AuditActivityOptions, noCommon, auditlog.NewAuditActivity)
	rootCmd.AddCommand(auditCmd)
}
