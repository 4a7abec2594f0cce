// Package recognition identifies the track playing inside a detected music
// segment. A Client talks to the external recognition API with a short
// base64-encoded PCM clip; the Enricher wraps it with the retry policy: one
// lookup at the segment start and, on a clean non-match, exactly one more
// five seconds later. Lookups are best effort; failures never abort the run.
package recognition
