package classifier

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"setlist/internal/logging"
)

// FeatureFrame is one DSP analysis frame (~20-25ms of audio): a timestamp
// and the averaged cepstral coefficients for that window. Frames are
// ephemeral; they are consumed in order and never persisted.
type FeatureFrame struct {
	Timestamp float64
	MFCCMean  float64
}

// FeatureReader runs the external feature command and streams its per-frame
// cepstral rows.
type FeatureReader struct {
	command string
	logger  *slog.Logger
}

// NewFeatureReader constructs a reader around the given command.
func NewFeatureReader(command string, logger *slog.Logger) *FeatureReader {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &FeatureReader{command: command, logger: logger}
}

// Stream invokes the feature command on the WAV at path and calls emit for
// every frame in time order. Each output row is "timestamp,c1,...,cN"; the
// reader averages the coefficients. Malformed rows are skipped with a
// diagnostic. A non-nil error from emit stops the stream.
func (r *FeatureReader) Stream(ctx context.Context, wavPath string, emit func(FeatureFrame) error) error {
	if strings.TrimSpace(wavPath) == "" {
		return errors.New("wav path required")
	}
	if emit == nil {
		return errors.New("emit callback required")
	}

	cmd := commandContext(ctx, r.command, wavPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start feature reader: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), scannerBuffer)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		frame, err := parseFeatureRow(line)
		if err != nil {
			r.logger.Warn("skipping malformed feature row", logging.Error(err))
			continue
		}
		if err := emit(frame); err != nil {
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read feature output: %w", err)
	}

	if err := cmd.Wait(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return fmt.Errorf("feature reader failed: %w: %s", err, detail)
		}
		return fmt.Errorf("feature reader failed: %w", err)
	}
	return nil
}

func parseFeatureRow(line string) (FeatureFrame, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 2 {
		return FeatureFrame{}, fmt.Errorf("feature row %q needs a timestamp and coefficients", line)
	}
	timestamp, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil {
		return FeatureFrame{}, fmt.Errorf("parse timestamp %q: %w", fields[0], err)
	}
	var sum float64
	for _, field := range fields[1:] {
		value, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return FeatureFrame{}, fmt.Errorf("parse coefficient %q: %w", field, err)
		}
		sum += value
	}
	return FeatureFrame{
		Timestamp: timestamp,
		MFCCMean:  sum / float64(len(fields)-1),
	}, nil
}
