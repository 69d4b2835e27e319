package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	dinit "github.com/axondata/go-dinit"
)

var checkCmd = &cobra.Command{
	Use:   "check [target]",
	Short: "Validate the service definitions without starting anything",
	Long: `Check loads and validates every definition in the service directory:
syntax, required fields, dependency references and cycles. Nothing is
launched. Every problem is reported, not just the first one.

When the target resolves, the layered start order is printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := cfg.Target
		if len(args) == 1 {
			target = args[0]
		}

		registry, err := dinit.LoadAll(cfg.ServiceDir)
		if err != nil {
			var merr *dinit.MultiError
			if errors.As(err, &merr) {
				for _, cause := range merr.Unwrap() {
					fmt.Fprintf(cmd.OutOrStdout(), "  %v\n", cause)
				}
				return fmt.Errorf("%d problem(s) found in %s", len(merr.Unwrap()), cfg.ServiceDir)
			}
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "OK: %d service(s) in %s\n", registry.Len(), cfg.ServiceDir)

		plan, err := dinit.Resolve(registry, target)
		if err != nil {
			var ue *dinit.UnknownTargetError
			if errors.As(err, &ue) && len(args) == 0 {
				// The default target is optional; definitions are still valid.
				fmt.Fprintf(cmd.OutOrStdout(), "No %q target defined, skipping plan\n", target)
				return nil
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Start order for target %q:\n", target)
		for i, layer := range plan.Layers {
			fmt.Fprintf(cmd.OutOrStdout(), "  %d: %s\n", i+1, strings.Join(layer, ", "))
		}
		return nil
	},
}
