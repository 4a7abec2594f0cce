package detector_test

import (
	"testing"

	"setlist/internal/detector"
)

// streamRun builds a frame feed at 0.25s spacing from a music/non-music
// script, one rune per frame: 'm' music label, 's' speech label, 'f'
// speech label but a cepstral average above the threshold.
func streamRun(t *testing.T, script string) []detector.MusicSegment {
	t.Helper()
	d := detector.NewStream("show.mp4")
	var out []detector.MusicSegment
	for i, c := range script {
		frame := detector.Frame{Timestamp: float64(i) * 0.25}
		switch c {
		case 'm':
			frame.Labels = "Music:Speech:Silence"
		case 's':
			frame.Labels = "Speech:Silence:Narration"
		case 'f':
			frame.Labels = "Speech:Silence:Narration"
			frame.MFCCMean = 0.45
			frame.HasMFCC = true
		default:
			t.Fatalf("bad script rune %q", c)
		}
		if seg, ok := d.Feed(frame); ok {
			out = append(out, seg)
		}
	}
	if seg, ok := d.Finalize(); ok {
		out = append(out, seg)
	}
	return out
}

func script(runs ...struct {
	c rune
	n int
}) string {
	var out []rune
	for _, r := range runs {
		for i := 0; i < r.n; i++ {
			out = append(out, r.c)
		}
	}
	return string(out)
}

func run(c rune, n int) struct {
	c rune
	n int
} {
	return struct {
		c rune
		n int
	}{c, n}
}

func TestStreamDetectsConfirmedSegment(t *testing.T) {
	// 32 music frames cover [0, 8); speech from t=8.0 closes the segment
	// once the merge window is exceeded.
	segments := streamRun(t, script(run('m', 32), run('s', 8)))
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	seg := segments[0]
	if seg.StartSeconds != 0 || seg.EndSeconds != 8 {
		t.Fatalf("segment = [%d,%d), want [0,8)", seg.StartSeconds, seg.EndSeconds)
	}
}

func TestStreamStartIsFirstConfirmingFrame(t *testing.T) {
	// Music begins at t=1.0. The segment must open at the first of the four
	// confirming frames, not the fourth.
	segments := streamRun(t, script(run('s', 4), run('m', 28), run('s', 8)))
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if segments[0].StartSeconds != 1 || segments[0].EndSeconds != 8 {
		t.Fatalf("segment = [%d,%d), want [1,8)", segments[0].StartSeconds, segments[0].EndSeconds)
	}
}

func TestStreamUnconfirmedBlipsIgnored(t *testing.T) {
	// Runs of three or fewer music frames never open a segment.
	segments := streamRun(t, script(
		run('m', 3), run('s', 4),
		run('m', 1), run('s', 4),
		run('m', 2), run('s', 4),
	))
	if len(segments) != 0 {
		t.Fatalf("expected no segments, got %v", segments)
	}
}

func TestStreamShortGapBridged(t *testing.T) {
	// Two 0.25s-frame gaps (0.5s total) inside a long run stay inside one
	// segment; the feed ends while still in the segment.
	segments := streamRun(t, script(run('m', 32), run('s', 2), run('m', 32)))
	if len(segments) != 1 {
		t.Fatalf("expected 1 bridged segment, got %d", len(segments))
	}
	seg := segments[0]
	if seg.StartSeconds != 0 || seg.EndSeconds != 17 {
		t.Fatalf("segment = [%d,%d), want [0,17)", seg.StartSeconds, seg.EndSeconds)
	}
}

func TestStreamLongGapSplitsSegments(t *testing.T) {
	// A 2s non-music gap closes the first segment at its potential end and
	// the second run confirms a fresh segment.
	segments := streamRun(t, script(run('m', 32), run('s', 8), run('m', 32)))
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	first, second := segments[0], segments[1]
	if first.StartSeconds != 0 || first.EndSeconds != 8 {
		t.Fatalf("first = [%d,%d), want [0,8)", first.StartSeconds, first.EndSeconds)
	}
	if second.StartSeconds != 10 || second.EndSeconds != 18 {
		t.Fatalf("second = [%d,%d), want [10,18)", second.StartSeconds, second.EndSeconds)
	}
}

func TestStreamShortSegmentDiscarded(t *testing.T) {
	// 5 seconds of music is under the 6 second floor.
	segments := streamRun(t, script(run('m', 20), run('s', 20)))
	if len(segments) != 0 {
		t.Fatalf("expected no segments, got %v", segments)
	}
}

func TestStreamCepstralSignalAloneCounts(t *testing.T) {
	// Frames whose labels say speech but whose cepstral average exceeds the
	// threshold still count as music.
	segments := streamRun(t, script(run('f', 32), run('s', 8)))
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if segments[0].StartSeconds != 0 || segments[0].EndSeconds != 8 {
		t.Fatalf("segment = [%d,%d), want [0,8)", segments[0].StartSeconds, segments[0].EndSeconds)
	}
}

func TestStreamFinalizeFlushesOpenSegment(t *testing.T) {
	segments := streamRun(t, script(run('m', 32)))
	if len(segments) != 1 {
		t.Fatalf("expected trailing segment, got %d", len(segments))
	}
	if segments[0].StartSeconds != 0 || segments[0].EndSeconds != 8 {
		t.Fatalf("segment = [%d,%d), want [0,8)", segments[0].StartSeconds, segments[0].EndSeconds)
	}
}

func TestStreamFinalizeDiscardsShortOpenSegment(t *testing.T) {
	segments := streamRun(t, script(run('m', 8)))
	if len(segments) != 0 {
		t.Fatalf("expected no segments, got %v", segments)
	}
}

func TestStreamAllQuietYieldsNothing(t *testing.T) {
	if segments := streamRun(t, script(run('s', 60))); len(segments) != 0 {
		t.Fatalf("expected no segments, got %v", segments)
	}
}
