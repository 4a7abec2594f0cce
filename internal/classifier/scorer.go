package classifier

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"setlist/internal/logging"
)

var commandContext = exec.CommandContext

// scannerBuffer bounds a single scorer/feature output line. Probability rows
// for large vocabularies run a few kilobytes; a megabyte leaves headroom.
const scannerBuffer = 1 << 20

// Scorer runs the external model scorer and adapts its output into
// LabelFrames.
type Scorer struct {
	command  string
	modelDir string
	classMap ClassMap
	topK     int
	logger   *slog.Logger
}

// ScorerOption configures a Scorer.
type ScorerOption func(*Scorer)

// WithModelDir passes a model directory to the scorer command.
func WithModelDir(dir string) ScorerOption {
	return func(s *Scorer) {
		s.modelDir = strings.TrimSpace(dir)
	}
}

// WithLogger attaches a logger for row diagnostics.
func WithLogger(logger *slog.Logger) ScorerOption {
	return func(s *Scorer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScorer constructs a scorer adapter around the given command.
func NewScorer(command string, classMap ClassMap, topK int, opts ...ScorerOption) *Scorer {
	s := &Scorer{
		command:  command,
		classMap: classMap,
		topK:     topK,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Labels scores the WAV at path and returns one LabelFrame per second of
// audio, in order, with no gaps. A blank output row still yields a frame
// with empty labels so indices stay aligned with absolute seconds.
func (s *Scorer) Labels(ctx context.Context, wavPath string) ([]LabelFrame, error) {
	if strings.TrimSpace(wavPath) == "" {
		return nil, errors.New("wav path required")
	}

	args := make([]string, 0, 3)
	if s.modelDir != "" {
		args = append(args, "--model", s.modelDir)
	}
	args = append(args, wavPath)

	cmd := commandContext(ctx, s.command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start scorer: %w", err)
	}

	var frames []LabelFrame
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), scannerBuffer)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		index := len(frames)
		if line == "" {
			// Keep the 1:1 second alignment even when the model saw nothing.
			frames = append(frames, LabelFrame{TimeIndex: index})
			continue
		}
		probabilities, err := parseProbabilityRow(line)
		if err != nil {
			s.logger.Warn("skipping malformed scorer row",
				logging.Int("row", index), logging.Error(err))
			frames = append(frames, LabelFrame{TimeIndex: index})
			continue
		}
		frames = append(frames, LabelFrame{
			TimeIndex: index,
			Labels:    TopLabels(s.classMap, probabilities, s.topK),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read scorer output: %w", err)
	}

	if err := cmd.Wait(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("scorer failed: %w: %s", err, detail)
		}
		return nil, fmt.Errorf("scorer failed: %w", err)
	}
	return frames, nil
}

func parseProbabilityRow(line string) ([]float64, error) {
	fields := strings.Split(line, ",")
	probabilities := make([]float64, 0, len(fields))
	for _, field := range fields {
		value, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("parse probability %q: %w", field, err)
		}
		probabilities = append(probabilities, value)
	}
	return probabilities, nil
}
