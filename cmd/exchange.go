package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/zer0grav1tas/tenantctl/modules/exchange"
)

var exchangeCmd = &cobra.Command{
	Use:     "exchange",
	Aliases: []string{"exo"},
	Short:   "Exchange Online mailbox modules",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

func init() {
	RegisterModule(exchangeCmd, exchange.ExchangeMessageTraceMetadata, exchange.ExchangeMessageTraceOptions, noCommon, exchange.NewExchangeMessageTrace)
	RegisterModule(exchangeCmd, exchange.ExchangeSendMailMetadata, exchange.ExchangeSendMailOptions, noCommon, exchange.NewExchangeSendMail)
	rootCmd.AddCommand(exchangeCmd)
}
