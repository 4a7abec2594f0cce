package detector

// Frame is a single timed observation fed to a detector.
//
// Batch mode feeds one frame per second with Timestamp equal to the second
// offset. Stream mode feeds one frame per DSP analysis window (~20-25 ms)
// with the nearest per-second label string attached.
type Frame struct {
	// Timestamp is the frame position in seconds from the start of the source.
	Timestamp float64
	// Labels holds the colon-joined classifier labels for this frame,
	// most probable first. Empty means the classifier saw nothing.
	Labels string
	// MFCCMean is the normalized average of the frame's cepstral
	// coefficients. Only meaningful when HasMFCC is set.
	MFCCMean float64
	// HasMFCC reports whether MFCCMean carries a real measurement.
	HasMFCC bool
}
