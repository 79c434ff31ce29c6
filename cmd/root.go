package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/csav/cmd/inspect"
	"github.com/ValentinKolb/csav/cmd/tree"
	"github.com/ValentinKolb/csav/cmd/util"
	"github.com/ValentinKolb/csav/lib/common"
	"github.com/ValentinKolb/csav/lib/metrics"
	"github.com/spf13/cobra"
)

const (
	Version = "0.4.2"
)

var (
	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "csav",
		Short: "save file inspector",
		Long: fmt.Sprintf(`csav (v%s)

Decodes the node tree of a save file and the reflective object records
stored in its nodes, and checks that both re-encode losslessly.`, Version),
		SilenceUsage:       true,
		PersistentPreRunE:  setup,
		PersistentPostRunE: printMetrics,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of csav",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("csav v%s\n", Version)
		},
	}
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := util.GetConfig()
			if err != nil {
				return err
			}
			fmt.Print(conf.String())
			return nil
		},
	}
)

func init() {
	cobra.OnInitialize(util.InitConfig)

	RootCmd.AddCommand(tree.TreeCommands)
	RootCmd.AddCommand(inspect.ObjectCmd)
	RootCmd.AddCommand(inspect.ItemsCmd)
	RootCmd.AddCommand(inspect.FactsCmd)
	RootCmd.AddCommand(versionCmd)
	RootCmd.AddCommand(configCmd)

	util.SetupGlobalFlags(RootCmd)
}

// setup binds the flags of the executed command and initializes the loggers
func setup(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	conf, err := util.GetConfig()
	if err != nil {
		return err
	}
	return common.InitLoggers(conf.LogLevel)
}

func printMetrics(cmd *cobra.Command, _ []string) error {
	conf, err := util.GetConfig()
	if err != nil {
		return err
	}
	if conf.Metrics {
		metrics.WritePrometheus(cmd.OutOrStdout())
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
