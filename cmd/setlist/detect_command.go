package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"setlist/internal/config"
	"setlist/internal/deps"
	"setlist/internal/pipeline"
	"setlist/internal/segments"
)

func newDetectCommand(ctx *commandContext) *cobra.Command {
	var modeFlag string
	var skipRecognition bool

	cmd := &cobra.Command{
		Use:   "detect <media-file>",
		Short: "Detect music segments in a media file",
		Long: `Detect extracts the audio from a media file, classifies it second by
second, and stores the music segments it finds. When recognition is enabled
each segment is also looked up against the song recognition service.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if modeFlag != "" {
				cfg.Detector.Mode = modeFlag
			}
			if skipRecognition {
				cfg.Recognition.Enabled = false
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return fmt.Errorf("missing required dependencies: %s (run 'setlist deps' for details)", strings.Join(missing, ", "))
			}

			source, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve source path: %w", err)
			}

			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			runner, err := pipeline.NewRunner(cfg, store, logger)
			if err != nil {
				return err
			}

			records, err := runner.Run(cmd.Context(), source)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No music segments detected.")
				return nil
			}

			fmt.Fprintf(out, "Detected %d music segment(s) in %s\n", len(records), source)
			fmt.Fprintln(out, renderSegmentTable(records))
			return nil
		},
	}

	cmd.Flags().StringVar(&modeFlag, "mode", "", "Detection strategy: batch or stream (defaults to the configured mode)")
	cmd.Flags().BoolVar(&skipRecognition, "skip-recognition", false, "Skip track recognition lookups")
	return cmd
}

func renderSegmentTable(records []*segments.Record) string {
	headers := []string{"#", "START", "END", "LENGTH", "TITLE", "ARTIST"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft}

	rows := make([][]string, 0, len(records))
	for i, record := range records {
		title := record.Title
		if title == "" {
			title = displayTitle(record.SourcePath)
		}
		length := time.Duration(record.EndSeconds-record.StartSeconds) * time.Second
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			record.Start,
			record.End,
			length.String(),
			title,
			record.Subtitle,
		})
	}
	return renderTable(headers, rows, aligns)
}
