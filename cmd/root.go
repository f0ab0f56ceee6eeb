package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zer0grav1tas/tenantctl/internal/logs"
	"github.com/zer0grav1tas/tenantctl/internal/message"
	"github.com/zer0grav1tas/tenantctl/modules"
	o "github.com/zer0grav1tas/tenantctl/modules/options"
	"github.com/zer0grav1tas/tenantctl/pkg/types"
)

var (
	cfgFile     string
	quietFlag   bool
	noColorFlag bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tenantctl",
	Short: "tenantctl is a CLI for narrow Microsoft 365 tenant administration tasks.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		message.SetQuiet(quietFlag)
		message.SetNoColor(noColorFlag)
		message.Banner()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// authOptions are shared by every module and registered as persistent flags.
var authOptions = []*types.Option{
	&o.TenantOpt,
	&o.ClientOpt,
	&o.SecretOpt,
	&o.PfxOpt,
	&o.PfxPasswordOpt,
	&o.CertOpt,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tenantctl.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "suppress status messages")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringP(o.OutputOpt.Name, o.OutputOpt.Short, o.OutputOpt.Value, o.OutputOpt.Description)
	rootCmd.PersistentFlags().String(o.FileNameOpt.Name, o.FileNameOpt.Value, o.FileNameOpt.Description)
	rootCmd.PersistentFlags().String(o.JqOpt.Name, o.JqOpt.Value, o.JqOpt.Description)

	for _, option := range authOptions {
		rootCmd.PersistentFlags().StringP(option.Name, option.Short, option.Value, option.Description)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".tenantctl" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".tenantctl")
	}

	viper.SetEnvPrefix("TENANTCTL")
	// Flag names use dashes; env vars can't, so --pfx-password maps to
	// TENANTCTL_PFX_PASSWORD.
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func options2Flag(options []*types.Option, common []*types.Option, cmd *cobra.Command) {
	for _, option := range options {
		option2Flag(option, cmd)
	}

	for _, option := range common {
		option2Flag(option, cmd)
	}
}

func option2Flag(option *types.Option, cmd *cobra.Command) {
	switch option.Type {
	case types.String:
		cmd.Flags().StringP(option.Name, option.Short, option.Value, option.Description)
	case types.Bool:
		value, _ := strconv.ParseBool(option.Value)
		cmd.Flags().BoolP(option.Name, option.Short, value, option.Description)
	case types.Int:
		intValue, _ := strconv.Atoi(option.Value)
		cmd.Flags().IntP(option.Name, option.Short, intValue, option.Description)
	}

	if option.Required {
		cmd.MarkFlagRequired(option.Name)
	}
}

func getOpts(cmd *cobra.Command, required []*types.Option, common []*types.Option) []*types.Option {
	opts := getGlobalOpts(cmd)

	auth := pickAuthOpts(opts)
	if err := o.ValidateOptions(auth, auth); err != nil {
		message.Critical("%s", err.Error())
		os.Exit(1)
	}

	opts = append(opts, getOptsFromCmd(cmd, required)...)
	err := o.ValidateOptions(opts, required)
	if err != nil {
		message.Critical("%s", err.Error())
		os.Exit(1)
	}

	opts = append(opts, getOptsFromCmd(cmd, common)...)
	err = o.ValidateOptions(opts, common)
	if err != nil {
		message.Critical("%s", err.Error())
		os.Exit(1)
	}

	return opts
}

// getGlobalOpts collects the persistent flags every module shares. Auth
// settings missing from the command line fall back to the viper config, so
// secrets can live in ~/.tenantctl.yaml or TENANTCTL_* env vars instead of
// shell history.
func getGlobalOpts(cmd *cobra.Command) []*types.Option {
	opts := []*types.Option{}

	output := o.OutputOpt
	output.Value, _ = cmd.Flags().GetString(output.Name)
	opts = append(opts, &output)

	filename := o.FileNameOpt
	filename.Value, _ = cmd.Flags().GetString(filename.Name)
	opts = append(opts, &filename)

	jq := o.JqOpt
	jq.Value, _ = cmd.Flags().GetString(jq.Name)
	opts = append(opts, &jq)

	for _, option := range authOptions {
		opt := *option
		opt.Value, _ = cmd.Flags().GetString(opt.Name)
		if opt.Value == "" {
			opt.Value = viper.GetString(opt.Name)
		}
		opts = append(opts, &opt)
	}

	return opts
}

// pickAuthOpts pulls the collected auth options back out of the full option
// set so their GUID formats can be validated before any module runs.
func pickAuthOpts(opts []*types.Option) []*types.Option {
	auth := []*types.Option{}
	for _, option := range authOptions {
		if opt := o.GetOptionByName(option.Name, opts); opt != nil {
			auth = append(auth, opt)
		}
	}
	return auth
}

func getOptsFromCmd(cmd *cobra.Command, required []*types.Option) []*types.Option {
	opts := []*types.Option{}
	for _, opt := range required {
		switch opt.Type {
		case types.String:
			opt.Value, _ = cmd.Flags().GetString(opt.Name)
		case types.Bool:
			value, _ := cmd.Flags().GetBool(opt.Name)
			opt.Value = strconv.FormatBool(value)
		case types.Int:
			value, _ := cmd.Flags().GetInt(opt.Name)
			opt.Value = strconv.Itoa(value)
		}
		opts = append(opts, opt)
	}
	return opts
}

func runModule(module modules.Module, meta modules.Metadata, run types.Run) {
	wg := new(sync.WaitGroup)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for result := range run.Data {
			for _, outputProvider := range module.GetOutputProviders() {
				wg.Add(1)
				go func(outputProvider types.OutputProvider, result types.Result) {
					defer wg.Done()
					err := outputProvider.Write(result)
					if err != nil {
						message.Error("%s", err.Error())
					}
				}(outputProvider, result)
			}
		}
	}()

	message.Section("%s", meta.Name)
	err := module.Invoke()
	if err != nil {
		logs.ConsoleLogger().Error(err.Error())
	}
	wg.Wait()
}
