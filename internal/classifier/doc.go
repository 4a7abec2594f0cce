// Package classifier adapts the external audio-event model to the detector.
//
// The model itself runs out of process: a scorer command reads a mono 16kHz
// WAV and prints one class-probability row per second of audio. This package
// loads the model's vocabulary CSV, ranks each row's probabilities into a
// colon-joined top-K label string, and guarantees one LabelFrame per second
// with no gaps so frame indices stay aligned with absolute seconds. A second
// command streams per-frame cepstral coefficient rows for the hybrid
// detection mode.
package classifier
