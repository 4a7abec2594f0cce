package detector

import "fmt"

// Mode selects a detection strategy.
type Mode string

const (
	// ModeBatch scans a complete per-second label sequence.
	ModeBatch Mode = "batch"
	// ModeStream consumes a live feature/label frame feed.
	ModeStream Mode = "stream"
)

// ParseMode normalizes a mode string from configuration or flags.
func ParseMode(value string) (Mode, error) {
	switch Mode(value) {
	case ModeBatch, "":
		return ModeBatch, nil
	case ModeStream:
		return ModeStream, nil
	default:
		return "", fmt.Errorf("unknown detector mode %q", value)
	}
}

// Detector is the shared contract for both strategies. Feed consumes one
// frame in time order and reports a segment when that frame closed one;
// Finalize flushes any segment still open at end of stream.
//
// A Detector owns its own state and must see frames for a single source in
// strict order. Separate sources need separate instances; instances share
// nothing, so concurrent use across sources needs no locking.
type Detector interface {
	Feed(Frame) (MusicSegment, bool)
	Finalize() (MusicSegment, bool)
}

// New constructs a detector for the given mode analyzing the named source.
func New(mode Mode, source string) (Detector, error) {
	switch mode {
	case ModeBatch:
		return NewBatch(source), nil
	case ModeStream:
		return NewStream(source), nil
	default:
		return nil, fmt.Errorf("unknown detector mode %q", mode)
	}
}
