// Package segments persists detected music segments in SQLite.
package segments
