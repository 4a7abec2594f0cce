package detector

const (
	// streamConfirmFrames is how many consecutive music frames must arrive
	// before a segment opens. Suppresses single-frame false positives.
	streamConfirmFrames = 4
	// streamMergeThreshold is the wall-clock gap, in seconds, bridged
	// without closing an open segment.
	streamMergeThreshold = 0.5
	// streamMinSegmentSeconds is the minimum duration of an emitted segment.
	streamMinSegmentSeconds = 6.0
	// mfccMeanThreshold is the normalized cepstral average above which a
	// frame counts as music regardless of its labels.
	mfccMeanThreshold = 0.3
)

type streamPhase int

const (
	streamIdle streamPhase = iota
	streamConfirming
	streamInSegment
	streamClosing
)

// streamState carries the stream state machine between frames. The zero
// value is the idle state.
type streamState struct {
	phase        streamPhase
	confirmCount int
	confirmStart float64
	start        float64
	potentialEnd float64
	lastTime     float64
}

type streamEmit struct {
	start float64
	end   float64
	ok    bool
}

func isMusicFrame(frame Frame) bool {
	if frame.HasMFCC && frame.MFCCMean > mfccMeanThreshold {
		return true
	}
	return IsMusicLabel(frame.Labels)
}

// stepStream advances the stream state machine by one frame. Pure function;
// the emitted interval, if any, has already passed the minimum-length filter.
func stepStream(state streamState, frame Frame) (streamState, streamEmit) {
	t := frame.Timestamp
	music := isMusicFrame(frame)
	state.lastTime = t

	switch state.phase {
	case streamIdle:
		if music {
			return confirmFrom(state, t), streamEmit{}
		}
		return state, streamEmit{}

	case streamConfirming:
		if !music {
			state.phase = streamIdle
			state.confirmCount = 0
			return state, streamEmit{}
		}
		state.confirmCount++
		if state.confirmCount >= streamConfirmFrames {
			state.phase = streamInSegment
			state.start = state.confirmStart
			state.potentialEnd = 0
		}
		return state, streamEmit{}

	case streamInSegment:
		if music {
			return state, streamEmit{}
		}
		state.phase = streamClosing
		state.potentialEnd = t
		return state, streamEmit{}

	case streamClosing:
		if music {
			if t-state.potentialEnd <= streamMergeThreshold {
				// Bridge the gap. The counter returns to the threshold so
				// the bridged segment does not re-confirm.
				state.phase = streamInSegment
				state.confirmCount = streamConfirmFrames
				state.potentialEnd = 0
				return state, streamEmit{}
			}
			emit := closeEmit(state)
			return confirmFrom(streamState{lastTime: t}, t), emit
		}
		if t-state.potentialEnd <= streamMergeThreshold {
			return state, streamEmit{}
		}
		emit := closeEmit(state)
		return streamState{lastTime: t}, emit
	}
	return state, streamEmit{}
}

func confirmFrom(state streamState, t float64) streamState {
	state.confirmCount = 1
	state.confirmStart = t
	if streamConfirmFrames <= 1 {
		state.phase = streamInSegment
		state.start = t
		return state
	}
	state.phase = streamConfirming
	return state
}

func closeEmit(state streamState) streamEmit {
	end := state.potentialEnd
	if end-state.start < streamMinSegmentSeconds {
		return streamEmit{}
	}
	return streamEmit{start: state.start, end: end, ok: true}
}

// Stream detects music intervals in a live feature/label frame feed.
type Stream struct {
	source string
	state  streamState
}

// NewStream returns a stream-mode detector for the named source.
func NewStream(source string) *Stream {
	return &Stream{source: source}
}

// Feed consumes the next frame from the feed.
func (s *Stream) Feed(frame Frame) (MusicSegment, bool) {
	next, emit := stepStream(s.state, frame)
	s.state = next
	if !emit.ok {
		return MusicSegment{}, false
	}
	return newSegmentFromTimes(s.source, emit.start, emit.end), true
}

// Finalize closes a segment still open when the feed ends. An in-progress
// segment ends at the last frame seen; a closing segment ends at its
// recorded potential end.
func (s *Stream) Finalize() (MusicSegment, bool) {
	state := s.state
	s.state = streamState{}

	var start, end float64
	switch state.phase {
	case streamInSegment:
		start, end = state.start, state.lastTime
	case streamClosing:
		start, end = state.start, state.potentialEnd
	default:
		return MusicSegment{}, false
	}
	if end-start < streamMinSegmentSeconds {
		return MusicSegment{}, false
	}
	return newSegmentFromTimes(s.source, start, end), true
}

var _ Detector = (*Stream)(nil)
