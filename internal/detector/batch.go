package detector

const (
	// batchMinSegmentSeconds is the minimum duration a batch segment must
	// cover to be emitted. Shorter candidates are discarded outright.
	batchMinSegmentSeconds = 10
	// batchGapBudget is how many non-music frames an open segment absorbs
	// before closing. The budget is per segment and is not restored by
	// later music frames.
	batchGapBudget = 1
)

type batchPhase int

const (
	batchIdle batchPhase = iota
	batchInSegment
)

// batchState carries the batch state machine between frames. The zero value
// is the idle state.
type batchState struct {
	phase    batchPhase
	start    int
	last     int
	gapCount int
}

// stepBatch advances the batch state machine by one per-second frame and
// returns the next state plus any segment the frame closed. Pure function:
// no detector state is touched.
func stepBatch(state batchState, frame Frame) (batchState, int, int, bool) {
	second := int(frame.Timestamp)
	music := IsMusicLabel(frame.Labels)

	switch state.phase {
	case batchIdle:
		if music {
			return batchState{phase: batchInSegment, start: second, last: second}, 0, 0, false
		}
		return state, 0, 0, false

	case batchInSegment:
		if music {
			state.last = second
			return state, 0, 0, false
		}
		if state.gapCount < batchGapBudget {
			state.gapCount++
			return state, 0, 0, false
		}
		start, end := state.start, state.last+1
		return batchState{}, start, end, end-start >= batchMinSegmentSeconds
	}
	return state, 0, 0, false
}

// Batch detects music intervals in a complete per-second label sequence.
type Batch struct {
	source string
	state  batchState
}

// NewBatch returns a batch-mode detector for the named source.
func NewBatch(source string) *Batch {
	return &Batch{source: source}
}

// Feed consumes the next per-second frame.
func (b *Batch) Feed(frame Frame) (MusicSegment, bool) {
	next, start, end, closed := stepBatch(b.state, frame)
	b.state = next
	if !closed {
		return MusicSegment{}, false
	}
	return newSegment(b.source, start, end), true
}

// Finalize closes a segment still open at the end of the sequence.
func (b *Batch) Finalize() (MusicSegment, bool) {
	if b.state.phase != batchInSegment {
		return MusicSegment{}, false
	}
	start, end := b.state.start, b.state.last+1
	b.state = batchState{}
	if end-start < batchMinSegmentSeconds {
		return MusicSegment{}, false
	}
	return newSegment(b.source, start, end), true
}

var _ Detector = (*Batch)(nil)
