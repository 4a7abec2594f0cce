package recognition

import (
	"context"
	"log/slog"

	"setlist/internal/detector"
	"setlist/internal/logging"
)

const (
	// ClipSeconds is the fixed clip length submitted for recognition.
	ClipSeconds = 5
	// retryOffsetSeconds shifts the second lookup past an intro or fade-in
	// the service could not match.
	retryOffsetSeconds = 5
)

// ClipSource cuts raw PCM clips from the recognition-rate audio.
type ClipSource interface {
	Clip(ctx context.Context, wavPath string, startSeconds, clipSeconds int) ([]byte, error)
}

// Enricher attaches recognized track metadata to detected segments.
type Enricher struct {
	recognizer Recognizer
	clips      ClipSource
	logger     *slog.Logger
}

// NewEnricher builds an enricher around a recognizer and a clip source.
func NewEnricher(recognizer Recognizer, clips ClipSource, logger *slog.Logger) *Enricher {
	return &Enricher{
		recognizer: recognizer,
		clips:      clips,
		logger:     logging.NewComponentLogger(logger, "recognition"),
	}
}

// Enrich tries to identify the track playing in seg, filling Title and
// Subtitle on success. The first lookup uses a clip at the segment start; a
// clean non-match earns exactly one retry five seconds later. Clip and
// transport failures are logged and swallowed so one bad segment never
// aborts the remaining lookups.
func (e *Enricher) Enrich(ctx context.Context, wavPath string, seg *detector.MusicSegment) {
	logger := e.logger.With(
		logging.String("start", seg.Start),
		logging.String("end", seg.End),
	)

	match, err := e.lookup(ctx, wavPath, seg.StartSeconds)
	if err != nil {
		logger.Warn("recognition lookup failed", logging.Error(err))
		return
	}
	if !match.Found {
		// One retry, shifted past a possible intro the service cannot match.
		match, err = e.lookup(ctx, wavPath, seg.StartSeconds+retryOffsetSeconds)
		if err != nil {
			logger.Warn("recognition retry failed", logging.Error(err))
			return
		}
	}
	if !match.Found {
		logger.Info("no track identified for segment")
		return
	}

	seg.Title = match.Title
	seg.Subtitle = match.Subtitle
	logger.Info("track identified",
		logging.String("title", match.Title),
		logging.String("subtitle", match.Subtitle))
}

func (e *Enricher) lookup(ctx context.Context, wavPath string, startSeconds int) (Match, error) {
	pcm, err := e.clips.Clip(ctx, wavPath, startSeconds, ClipSeconds)
	if err != nil {
		return Match{}, err
	}
	return e.recognizer.Detect(ctx, pcm)
}
