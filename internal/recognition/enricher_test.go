package recognition_test

import (
	"context"
	"errors"
	"testing"

	"setlist/internal/detector"
	"setlist/internal/logging"
	"setlist/internal/recognition"
)

type fakeRecognizer struct {
	matches []recognition.Match
	errs    []error
	calls   int
}

func (f *fakeRecognizer) Detect(ctx context.Context, pcm []byte) (recognition.Match, error) {
	i := f.calls
	f.calls++
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	var match recognition.Match
	if i < len(f.matches) {
		match = f.matches[i]
	}
	return match, err
}

type fakeClips struct {
	starts []int
	err    error
}

func (f *fakeClips) Clip(ctx context.Context, wavPath string, startSeconds, clipSeconds int) ([]byte, error) {
	f.starts = append(f.starts, startSeconds)
	if f.err != nil {
		return nil, f.err
	}
	return []byte{0x01, 0x02}, nil
}

func newSegment(start, end int) *detector.MusicSegment {
	return &detector.MusicSegment{
		StartSeconds: start,
		EndSeconds:   end,
		Start:        detector.FormatTimestamp(start),
		End:          detector.FormatTimestamp(end),
	}
}

func TestEnrichFirstLookupMatches(t *testing.T) {
	rec := &fakeRecognizer{matches: []recognition.Match{{Title: "Track", Subtitle: "Artist", Found: true}}}
	clips := &fakeClips{}
	enricher := recognition.NewEnricher(rec, clips, logging.NewNop())

	seg := newSegment(30, 75)
	enricher.Enrich(context.Background(), "audio.wav", seg)

	if rec.calls != 1 {
		t.Fatalf("detect calls = %d, want 1", rec.calls)
	}
	if len(clips.starts) != 1 || clips.starts[0] != 30 {
		t.Fatalf("clip starts = %v, want [30]", clips.starts)
	}
	if seg.Title != "Track" || seg.Subtitle != "Artist" {
		t.Fatalf("segment metadata = %q/%q", seg.Title, seg.Subtitle)
	}
}

func TestEnrichRetriesOnceAfterCleanMiss(t *testing.T) {
	rec := &fakeRecognizer{matches: []recognition.Match{{}, {Title: "Track", Subtitle: "Artist", Found: true}}}
	clips := &fakeClips{}
	enricher := recognition.NewEnricher(rec, clips, logging.NewNop())

	seg := newSegment(30, 75)
	enricher.Enrich(context.Background(), "audio.wav", seg)

	if rec.calls != 2 {
		t.Fatalf("detect calls = %d, want 2", rec.calls)
	}
	want := []int{30, 35}
	if len(clips.starts) != 2 || clips.starts[0] != want[0] || clips.starts[1] != want[1] {
		t.Fatalf("clip starts = %v, want %v", clips.starts, want)
	}
	if seg.Title != "Track" {
		t.Fatalf("title = %q, want match from retry", seg.Title)
	}
}

func TestEnrichStopsAfterSingleRetry(t *testing.T) {
	rec := &fakeRecognizer{matches: []recognition.Match{{}, {}}}
	clips := &fakeClips{}
	enricher := recognition.NewEnricher(rec, clips, logging.NewNop())

	seg := newSegment(0, 20)
	enricher.Enrich(context.Background(), "audio.wav", seg)

	if rec.calls != 2 {
		t.Fatalf("detect calls = %d, want 2", rec.calls)
	}
	if seg.Title != "" || seg.Subtitle != "" {
		t.Fatalf("segment should stay unlabeled, got %q/%q", seg.Title, seg.Subtitle)
	}
}

func TestEnrichTransportErrorSkipsRetry(t *testing.T) {
	rec := &fakeRecognizer{errs: []error{errors.New("request timed out")}}
	clips := &fakeClips{}
	enricher := recognition.NewEnricher(rec, clips, logging.NewNop())

	seg := newSegment(10, 40)
	enricher.Enrich(context.Background(), "audio.wav", seg)

	if rec.calls != 1 {
		t.Fatalf("detect calls = %d, want 1 (no retry after transport error)", rec.calls)
	}
	if seg.Title != "" {
		t.Fatalf("title = %q, want empty", seg.Title)
	}
}

func TestEnrichClipErrorSkipsDetect(t *testing.T) {
	rec := &fakeRecognizer{}
	clips := &fakeClips{err: errors.New("ffmpeg exited with status 1")}
	enricher := recognition.NewEnricher(rec, clips, logging.NewNop())

	seg := newSegment(10, 40)
	enricher.Enrich(context.Background(), "audio.wav", seg)

	if rec.calls != 0 {
		t.Fatalf("detect calls = %d, want 0", rec.calls)
	}
}
