package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/zer0grav1tas/tenantctl/internal/logs"
	"github.com/zer0grav1tas/tenantctl/modules"
	"github.com/zer0grav1tas/tenantctl/pkg/types"
)

// ModuleInfo tracks a registered module for the list-modules tree.
type ModuleInfo struct {
	CommandPath string
	Description string
}

var registeredModules = []ModuleInfo{}

var noCommon = []*types.Option{}

func RegisterModule(cmd *cobra.Command, metadata modules.Metadata, required []*types.Option, common []*types.Option, factoryFn func(options []*types.Option, run types.Run) (modules.Module, error)) {
	c := &cobra.Command{
		Use:   metadata.Id,
		Short: metadata.Description,
		Run: func(cmd *cobra.Command, args []string) {
			options := getOpts(cmd, required, common)
			run := types.Run{Data: make(chan types.Result)}
			m, err := factoryFn(options, run)
			if err != nil {
				logs.ConsoleLogger().Error(err.Error())
				os.Exit(1)
			}
			runModule(m, metadata, run)
		},
	}

	options2Flag(required, common, c)
	cmd.AddCommand(c)

	registeredModules = append(registeredModules, ModuleInfo{
		CommandPath: cmd.Name() + "/" + metadata.Id,
		Description: metadata.Description,
	})
}
