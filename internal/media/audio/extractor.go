package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"setlist/internal/logging"
	"setlist/internal/media/ffprobe"
)

var commandContext = exec.CommandContext

// Extractor wraps the ffmpeg CLI for audio extraction.
type Extractor struct {
	ffmpeg     string
	ffprobe    string
	stagingDir string
	logger     *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithBinaries overrides the ffmpeg and ffprobe binary names.
func WithBinaries(ffmpegBin, ffprobeBin string) Option {
	return func(e *Extractor) {
		if strings.TrimSpace(ffmpegBin) != "" {
			e.ffmpeg = ffmpegBin
		}
		if strings.TrimSpace(ffprobeBin) != "" {
			e.ffprobe = ffprobeBin
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor constructs an extractor writing temporary WAVs to stagingDir.
func NewExtractor(stagingDir string, opts ...Option) *Extractor {
	e := &Extractor{
		ffmpeg:     "ffmpeg",
		ffprobe:    "ffprobe",
		stagingDir: stagingDir,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractMono merges every audio stream of src and writes a mono WAV at the
// given sample rate into the staging directory. The returned path is a
// temporary file owned by the caller; delete it once consumed.
func (e *Extractor) ExtractMono(ctx context.Context, src string, sampleRate int) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", errors.New("source path required")
	}
	if sampleRate <= 0 {
		return "", fmt.Errorf("invalid sample rate %d", sampleRate)
	}

	probe, err := ffprobe.Inspect(ctx, e.ffprobe, src)
	if err != nil {
		return "", err
	}
	streams := probe.AudioStreamCount()
	if streams == 0 {
		return "", fmt.Errorf("no audio streams in %s", src)
	}

	stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	outPath := filepath.Join(e.stagingDir, fmt.Sprintf("%s_mono_%d_%s.wav", stem, sampleRate, uuid.NewString()))

	args := []string{"-v", "error", "-y", "-i", src, "-vn"}
	if streams > 1 {
		args = append(args, "-af", fmt.Sprintf("amerge=inputs=%d", streams))
	}
	args = append(args,
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
		"-f", "wav",
		outPath,
	)

	e.logger.Debug("extracting audio",
		logging.String("source", src),
		logging.Int("sample_rate", sampleRate),
		logging.Int("audio_streams", streams))

	cmd := commandContext(ctx, e.ffmpeg, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("ffmpeg extract: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return outPath, nil
}

// Clip returns clipSeconds of raw signed 16-bit little-endian mono PCM from
// wavPath, starting at startSeconds.
func (e *Extractor) Clip(ctx context.Context, wavPath string, startSeconds, clipSeconds int) ([]byte, error) {
	if strings.TrimSpace(wavPath) == "" {
		return nil, errors.New("wav path required")
	}
	if clipSeconds <= 0 {
		return nil, fmt.Errorf("invalid clip length %d", clipSeconds)
	}
	if startSeconds < 0 {
		startSeconds = 0
	}

	args := []string{
		"-v", "error",
		"-ss", strconv.Itoa(startSeconds),
		"-t", strconv.Itoa(clipSeconds),
		"-i", wavPath,
		"-ac", "1",
		"-acodec", "pcm_s16le",
		"-f", "s16le",
		"pipe:1",
	}

	cmd := commandContext(ctx, e.ffmpeg, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg clip: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg clip at %ds produced no audio", startSeconds)
	}
	return stdout.Bytes(), nil
}
