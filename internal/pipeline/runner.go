package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"setlist/internal/classifier"
	"setlist/internal/config"
	"setlist/internal/detector"
	"setlist/internal/logging"
	"setlist/internal/media/audio"
	"setlist/internal/recognition"
	"setlist/internal/segments"
)

const (
	// classifierSampleRate is the mono rate the classifier models expect.
	classifierSampleRate = 16000
	// recognitionSampleRate is the mono rate submitted for track lookup.
	recognitionSampleRate = 44100
)

// AudioExtractor produces downmixed WAV files and raw PCM clips.
type AudioExtractor interface {
	ExtractMono(ctx context.Context, src string, sampleRate int) (string, error)
	Clip(ctx context.Context, wavPath string, startSeconds, clipSeconds int) ([]byte, error)
}

// LabelSource scores a WAV file into per-second label frames.
type LabelSource interface {
	Labels(ctx context.Context, wavPath string) ([]classifier.LabelFrame, error)
}

// FeatureSource streams cepstral feature frames from a WAV file.
type FeatureSource interface {
	Stream(ctx context.Context, wavPath string, emit func(classifier.FeatureFrame) error) error
}

// SegmentWriter persists detected segments.
type SegmentWriter interface {
	SaveAll(ctx context.Context, segs []detector.MusicSegment) ([]*segments.Record, error)
}

// SegmentEnricher attaches recognized track metadata to a segment.
type SegmentEnricher interface {
	Enrich(ctx context.Context, wavPath string, seg *detector.MusicSegment)
}

// Runner executes the detection pipeline for one source file at a time.
type Runner struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     SegmentWriter
	extractor AudioExtractor
	labels    LabelSource
	features  FeatureSource
	enricher  SegmentEnricher
	mode      detector.Mode
	lock      *flock.Flock
}

// RunnerOption overrides a pipeline collaborator, primarily for tests.
type RunnerOption func(*Runner)

// WithExtractor replaces the ffmpeg-backed audio extractor.
func WithExtractor(extractor AudioExtractor) RunnerOption {
	return func(r *Runner) { r.extractor = extractor }
}

// WithLabelSource replaces the classifier subprocess.
func WithLabelSource(labels LabelSource) RunnerOption {
	return func(r *Runner) { r.labels = labels }
}

// WithFeatureSource replaces the feature extractor subprocess.
func WithFeatureSource(features FeatureSource) RunnerOption {
	return func(r *Runner) { r.features = features }
}

// WithEnricher replaces the recognition enricher.
func WithEnricher(enricher SegmentEnricher) RunnerOption {
	return func(r *Runner) { r.enricher = enricher }
}

// NewRunner wires a pipeline from configuration. Collaborators not overridden
// by options are built from the config: the ffmpeg extractor, the classifier
// scorer, the feature reader in stream mode, and the recognition enricher
// when recognition is enabled.
func NewRunner(cfg *config.Config, store SegmentWriter, logger *slog.Logger, opts ...RunnerOption) (*Runner, error) {
	if cfg == nil || store == nil {
		return nil, errors.New("pipeline requires config and store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	mode, err := detector.ParseMode(cfg.Detector.Mode)
	if err != nil {
		return nil, err
	}

	runner := &Runner{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "pipeline"),
		store:  store,
		mode:   mode,
		lock:   flock.New(filepath.Join(cfg.Paths.LogDir, "setlist.lock")),
	}
	for _, opt := range opts {
		opt(runner)
	}

	if runner.extractor == nil {
		runner.extractor = audio.NewExtractor(
			cfg.Paths.StagingDir,
			audio.WithBinaries(cfg.Transcode.FFmpeg, cfg.Transcode.FFprobe),
			audio.WithLogger(logger),
		)
	}
	if runner.labels == nil {
		classMap, err := classifier.LoadClassMap(cfg.ClassMap(), logger)
		if err != nil {
			return nil, fmt.Errorf("load class map: %w", err)
		}
		runner.labels = classifier.NewScorer(
			cfg.Classifier.ScorerCommand,
			classMap,
			cfg.Classifier.TopLabels,
			classifier.WithModelDir(cfg.Classifier.ModelDir),
			classifier.WithLogger(logger),
		)
	}
	if runner.features == nil && mode == detector.ModeStream {
		runner.features = classifier.NewFeatureReader(cfg.Classifier.FeaturesCommand, logger)
	}
	if runner.enricher == nil && cfg.Recognition.Enabled {
		client, err := recognition.New(
			cfg.Recognition.APIKey,
			cfg.Recognition.BaseURL,
			cfg.Recognition.Host,
			recognition.WithTimeout(time.Duration(cfg.Recognition.TimeoutSeconds)*time.Second),
		)
		if err != nil {
			return nil, fmt.Errorf("recognition client: %w", err)
		}
		runner.enricher = recognition.NewEnricher(client, runner.extractor, logger)
	}

	return runner, nil
}

// Run detects music segments in sourcePath and persists them. It returns the
// stored records in playback order.
func (r *Runner) Run(ctx context.Context, sourcePath string) ([]*segments.Record, error) {
	if _, err := os.Stat(sourcePath); err != nil {
		return nil, fmt.Errorf("source file: %w", err)
	}

	locked, err := r.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, errors.New("another setlist run is already in progress")
	}
	defer func() { _ = r.lock.Unlock() }()

	started := time.Now()
	logger := r.logger.With(logging.String(logging.FieldRunID, uuid.NewString()))
	logger.Info("detection started",
		logging.String(logging.FieldSource, sourcePath),
		logging.String(logging.FieldMode, string(r.mode)))

	segs, err := r.detect(ctx, sourcePath)
	if err != nil {
		return nil, err
	}
	if len(segs) == 0 {
		logger.Info("no music segments detected", logging.String(logging.FieldSource, sourcePath))
		return nil, nil
	}

	if r.enricher != nil {
		if err := r.enrich(ctx, sourcePath, segs); err != nil {
			return nil, err
		}
	}

	records, err := r.store.SaveAll(ctx, segs)
	if err != nil {
		return nil, fmt.Errorf("persist segments: %w", err)
	}

	logger.Info("detection finished",
		logging.String(logging.FieldSource, sourcePath),
		logging.Int("segments", len(records)),
		logging.Duration("elapsed", time.Since(started)))
	return records, nil
}

func (r *Runner) detect(ctx context.Context, sourcePath string) ([]detector.MusicSegment, error) {
	wavPath, err := r.extractor.ExtractMono(ctx, sourcePath, classifierSampleRate)
	if err != nil {
		return nil, fmt.Errorf("extract classifier audio: %w", err)
	}
	defer r.removeTemp(wavPath)

	det, err := detector.New(r.mode, sourcePath)
	if err != nil {
		return nil, err
	}

	frames, err := r.labels.Labels(ctx, wavPath)
	if err != nil {
		return nil, fmt.Errorf("classify audio: %w", err)
	}

	var segs []detector.MusicSegment
	switch r.mode {
	case detector.ModeBatch:
		for _, frame := range frames {
			if seg, ok := det.Feed(detector.Frame{
				Timestamp: float64(frame.TimeIndex),
				Labels:    frame.Labels,
			}); ok {
				segs = append(segs, seg)
			}
		}
	case detector.ModeStream:
		err := r.features.Stream(ctx, wavPath, func(feature classifier.FeatureFrame) error {
			if seg, ok := det.Feed(detector.Frame{
				Timestamp: feature.Timestamp,
				Labels:    labelAt(frames, feature.Timestamp),
				MFCCMean:  feature.MFCCMean,
				HasMFCC:   true,
			}); ok {
				segs = append(segs, seg)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("stream features: %w", err)
		}
	}

	if seg, ok := det.Finalize(); ok {
		segs = append(segs, seg)
	}
	return segs, nil
}

func (r *Runner) enrich(ctx context.Context, sourcePath string, segs []detector.MusicSegment) error {
	wavPath, err := r.extractor.ExtractMono(ctx, sourcePath, recognitionSampleRate)
	if err != nil {
		return fmt.Errorf("extract recognition audio: %w", err)
	}
	defer r.removeTemp(wavPath)

	for i := range segs {
		r.enricher.Enrich(ctx, wavPath, &segs[i])
	}
	return nil
}

func (r *Runner) removeTemp(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		r.logger.Warn("remove staging file failed",
			logging.String("path", path),
			logging.Error(err))
	}
}

// labelAt returns the label string of the frame nearest to t. Feature frames
// arrive several times per second while labels cover one second each, so the
// lookup rounds to the closest second and clamps to the scored range.
func labelAt(frames []classifier.LabelFrame, t float64) string {
	if len(frames) == 0 {
		return ""
	}
	idx := int(math.Round(t))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(frames) {
		idx = len(frames) - 1
	}
	return frames[idx].Labels
}
