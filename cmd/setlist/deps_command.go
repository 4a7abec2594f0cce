package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"setlist/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external binary dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(deps.Requirements(cfg))

			headers := []string{"DEPENDENCY", "COMMAND", "AVAILABLE", "REQUIRED", "NOTES"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft}
			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				notes := status.Detail
				if notes == "" {
					notes = status.Description
				}
				rows = append(rows, []string{
					status.Name,
					status.Command,
					yesNo(status.Available),
					yesNo(!status.Optional),
					notes,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))

			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return fmt.Errorf("missing required dependencies: %s", strings.Join(missing, ", "))
			}
			return nil
		},
	}
}
