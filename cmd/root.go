package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "newsdeck",
	Short: "TUI news aggregator",
	Long:  "newsdeck pulls headlines from your selected sources across categories into a single deduplicated, ranked feed.",
	RunE:  runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(categoriesCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("newsdeck %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
