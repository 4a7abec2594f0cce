package main

import (
	"context"
	"strings"
	"testing"

	"setlist/internal/detector"
	"setlist/internal/testsupport"
)

func seedSegments(t *testing.T, env *cliTestEnv) {
	t.Helper()
	store := testsupport.MustOpenStore(t, env.cfg)
	segs := []detector.MusicSegment{
		{
			SourcePath:   "/media/show.mp4",
			StartSeconds: 30,
			EndSeconds:   75,
			Start:        detector.FormatTimestamp(30),
			End:          detector.FormatTimestamp(75),
			Title:        "Recognized Song",
			Subtitle:     "Some Artist",
		},
		{
			SourcePath:   "/media/other.mp4",
			StartSeconds: 10,
			EndSeconds:   60,
			Start:        detector.FormatTimestamp(10),
			End:          detector.FormatTimestamp(60),
		},
	}
	if _, err := store.SaveAll(context.Background(), segs); err != nil {
		t.Fatalf("seed segments: %v", err)
	}
}

func TestSegmentsListEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"segments", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("segments list: %v", err)
	}
	requireContains(t, out, "No segments stored.")
}

func TestSegmentsListShowsStoredRows(t *testing.T) {
	env := setupCLITestEnv(t)
	seedSegments(t, env)

	out, _, err := runCLI(t, []string{"segments", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("segments list: %v", err)
	}
	requireContains(t, out, "/media/show.mp4")
	requireContains(t, out, "00:00:30")
	requireContains(t, out, "Recognized Song")
}

func TestSegmentsListFiltersBySource(t *testing.T) {
	env := setupCLITestEnv(t)
	seedSegments(t, env)

	out, _, err := runCLI(t, []string{"segments", "list", "--source", "/media/other.mp4"}, env.configPath)
	if err != nil {
		t.Fatalf("segments list --source: %v", err)
	}
	requireContains(t, out, "/media/other.mp4")
	if strings.Contains(out, "/media/show.mp4") {
		t.Fatalf("expected /media/show.mp4 to be filtered out of %q", out)
	}
}

func TestSegmentsClear(t *testing.T) {
	env := setupCLITestEnv(t)
	seedSegments(t, env)

	out, _, err := runCLI(t, []string{"segments", "clear", "--source", "/media/other.mp4"}, env.configPath)
	if err != nil {
		t.Fatalf("segments clear --source: %v", err)
	}
	requireContains(t, out, "Removed 1 segment(s)")

	out, _, err = runCLI(t, []string{"segments", "clear"}, env.configPath)
	if err != nil {
		t.Fatalf("segments clear: %v", err)
	}
	requireContains(t, out, "Removed 1 segment(s)")

	out, _, err = runCLI(t, []string{"segments", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("segments list: %v", err)
	}
	requireContains(t, out, "No segments stored.")
}
