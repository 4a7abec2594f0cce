package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"setlist/internal/config"
	"setlist/internal/segments"
)

func newSegmentsCommand(ctx *commandContext) *cobra.Command {
	segmentsCmd := &cobra.Command{
		Use:   "segments",
		Short: "Inspect and maintain stored music segments",
	}

	segmentsCmd.AddCommand(newSegmentsListCommand(ctx))
	segmentsCmd.AddCommand(newSegmentsClearCommand(ctx))

	return segmentsCmd
}

func newSegmentsListCommand(ctx *commandContext) *cobra.Command {
	var sourceFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored music segments",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			var records []*segments.Record
			source := strings.TrimSpace(sourceFlag)
			if source != "" {
				source, err = config.ExpandPath(source)
				if err != nil {
					return fmt.Errorf("resolve source path: %w", err)
				}
				records, err = store.ListBySource(cmd.Context(), source)
			} else {
				records, err = store.List(cmd.Context())
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No segments stored.")
				return nil
			}

			if !isTerminal(out) {
				for _, record := range records {
					fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\t%s\n",
						record.ID, record.SourcePath, record.Start, record.End,
						record.Title, record.Subtitle)
				}
				return nil
			}

			headers := []string{"SOURCE", "START", "END", "TITLE", "ARTIST"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft}
			rows := make([][]string, 0, len(records))
			for _, record := range records {
				title := record.Title
				if title == "" {
					title = displayTitle(record.SourcePath)
				}
				rows = append(rows, []string{
					record.SourcePath,
					record.Start,
					record.End,
					title,
					record.Subtitle,
				})
			}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceFlag, "source", "", "Only list segments for this source file")
	return cmd
}

func newSegmentsClearCommand(ctx *commandContext) *cobra.Command {
	var sourceFlag string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete stored music segments",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			var removed int64
			source := strings.TrimSpace(sourceFlag)
			if source != "" {
				source, err = config.ExpandPath(source)
				if err != nil {
					return fmt.Errorf("resolve source path: %w", err)
				}
				removed, err = store.DeleteBySource(cmd.Context(), source)
			} else {
				removed, err = store.Clear(cmd.Context())
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d segment(s)\n", removed)
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceFlag, "source", "", "Only delete segments for this source file")
	return cmd
}
