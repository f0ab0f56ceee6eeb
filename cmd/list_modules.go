package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var listModulesCmd = &cobra.Command{
	Use:   "list-modules",
	Short: "Display available tenantctl modules in a tree structure",
	Run: func(cmd *cobra.Command, args []string) {
		displayModuleTree()
	},
}

func displayModuleTree() {
	sort.Slice(registeredModules, func(i, j int) bool {
		return registeredModules[i].CommandPath < registeredModules[j].CommandPath
	})

	// Group by top-level command
	cmdGroups := make(map[string][]ModuleInfo)
	for _, module := range registeredModules {
		parts := strings.Split(module.CommandPath, "/")
		if len(parts) > 0 {
			cmdGroups[parts[0]] = append(cmdGroups[parts[0]], module)
		}
	}

	bold := color.New(color.Bold)
	if noColorFlag {
		color.NoColor = true
	}

	cmdNames := make([]string, 0, len(cmdGroups))
	for cmd := range cmdGroups {
		cmdNames = append(cmdNames, cmd)
	}
	sort.Strings(cmdNames)

	for i, cmd := range cmdNames {
		fmt.Printf("\n%s\n", bold.Sprint(cmd))
		for _, module := range cmdGroups[cmd] {
			parts := strings.Split(module.CommandPath, "/")
			fmt.Printf("├─ %s - %s\n", parts[len(parts)-1], module.Description)
		}
		if i < len(cmdNames)-1 {
			fmt.Println()
		}
	}
	fmt.Println()
}

func init() {
	rootCmd.AddCommand(listModulesCmd)
}
