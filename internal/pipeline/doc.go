// Package pipeline runs one detection pass over a media file: audio
// extraction, per-second classification, boundary detection, optional track
// recognition, and persistence. A file lock keeps concurrent runs from
// racing on the staging directory and database.
package pipeline
