package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/axondata/go-dinit/internal/config"
	"github.com/axondata/go-dinit/pkg/logging"
)

var (
	flagConfig  string
	flagDir     string
	flagVerbose bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "dinit",
	Short: "Minimal dependency-ordered service starter",
	Long: `dinit reads dinit-style service definitions from a directory,
resolves their dependency graph and brings a target service up,
starting independent services concurrently.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := logging.LevelInfo
		if flagVerbose {
			level = logging.LevelDebug
		}
		logging.Init(level, os.Stderr)

		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return err
		}
		if flagDir != "" {
			cfg.ServiceDir = flagDir
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "dinit.yaml",
		"path to the configuration file")
	rootCmd.PersistentFlags().StringVarP(&flagDir, "dir", "d", "",
		"service definition directory (overrides the config file)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"enable debug logging")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)
}
