package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	dinit "github.com/axondata/go-dinit"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the loaded service definitions",
	Long: `List loads the service directory and prints each service with its type,
command and dependencies, in load order.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := dinit.LoadAll(cfg.ServiceDir)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTYPE\tDEPENDS ON\tCOMMAND")
		for _, svc := range registry.Services() {
			deps := "-"
			if len(svc.DependsOn) > 0 {
				deps = strings.Join(svc.DependsOn, ",")
			}
			command := "-"
			if len(svc.Command) > 0 {
				command = strings.Join(svc.Command, " ")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", svc.Name, svc.Kind, deps, command)
		}
		return w.Flush()
	},
}
