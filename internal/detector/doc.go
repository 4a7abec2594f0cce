// Package detector turns per-second classifier labels (and optionally
// low-level spectral features) into filtered music segments.
//
// Two strategies implement the same Detector contract: Batch scans a
// pre-computed label sequence with a one-frame gap budget and a ten second
// floor, while Stream consumes a live frame feed with confirmation
// hysteresis, a 0.5 second merge window, and a six second floor. Both are
// explicit state machines driven by pure step functions, so every transition
// can be unit tested frame by frame without an audio pipeline.
//
// The detector raises no domain errors; it is a pure state machine over
// well-formed input. Error handling belongs to the adapters that feed it.
package detector
