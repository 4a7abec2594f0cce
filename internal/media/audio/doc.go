// Package audio drives ffmpeg to prepare analysis audio: every audio stream
// of a source is merged and downmixed to a mono WAV at the sample rate a
// consumer needs (16kHz for classification, 44.1kHz for recognition), and
// short raw PCM clips are cut for recognition lookups. Extracted WAVs land
// in the staging directory and are the caller's to delete once consumed.
package audio
