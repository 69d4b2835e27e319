package main

import (
	"fmt"

	"github.com/spf13/cobra"

	dinit "github.com/axondata/go-dinit"
)

var startCmd = &cobra.Command{
	Use:   "start [target]",
	Short: "Bring a target service and its dependencies up",
	Long: `Start loads every definition from the service directory, resolves the
dependency closure of the target and starts it layer by layer. Services
that came up stay running even when the boot as a whole fails.

Without an argument the configured default target is started.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := cfg.Target
		if len(args) == 1 {
			target = args[0]
		}

		registry, err := dinit.LoadAll(cfg.ServiceDir)
		if err != nil {
			return err
		}

		engine := dinit.NewEngine(registry,
			dinit.WithConcurrency(cfg.Concurrency),
			dinit.WithStartDelay(cfg.StartDelay.Std()),
			dinit.WithReadyTimeout(cfg.ReadyTimeout.Std()),
			dinit.WithPIDDir(cfg.PIDDir),
		)

		result, err := engine.Start(cmd.Context(), target)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), result.Summary())
		for _, name := range result.Failed() {
			fmt.Fprintf(cmd.OutOrStdout(), "  failed:  %s: %v\n", name, result.Failures[name])
		}
		for _, name := range result.Skipped() {
			fmt.Fprintf(cmd.OutOrStdout(), "  skipped: %s\n", name)
		}

		if !result.Success {
			return fmt.Errorf("target %q did not come up", target)
		}
		return nil
	},
}
