package detector

import (
	"fmt"
	"math"
)

// MusicSegment is one detected music interval within a source recording.
//
// StartSeconds/EndSeconds form a half-open interval: EndSeconds is one past
// the last second that contained music, so EndSeconds-StartSeconds is the
// segment duration. The integer fields are authoritative; the formatted
// strings exist for display and wrap at 24 hours.
type MusicSegment struct {
	SourcePath   string
	StartSeconds int
	EndSeconds   int
	Start        string
	End          string
	Title        string
	Subtitle     string
}

// Duration returns the segment length in whole seconds.
func (s MusicSegment) Duration() int {
	return s.EndSeconds - s.StartSeconds
}

func newSegment(source string, startSeconds, endSeconds int) MusicSegment {
	return MusicSegment{
		SourcePath:   source,
		StartSeconds: startSeconds,
		EndSeconds:   endSeconds,
		Start:        FormatTimestamp(startSeconds),
		End:          FormatTimestamp(endSeconds),
	}
}

func newSegmentFromTimes(source string, start, end float64) MusicSegment {
	startSec := int(math.Floor(start))
	endSec := int(math.Ceil(end))
	if endSec <= startSec {
		endSec = startSec + 1
	}
	return newSegment(source, startSec, endSec)
}

// FormatTimestamp renders a second offset as HH:MM:SS, wrapping at 24 hours.
func FormatTimestamp(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := (seconds / 3600) % 24
	minutes := (seconds / 60) % 60
	secs := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}
