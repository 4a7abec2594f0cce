package detector

import "regexp"

// musicLabelPattern matches classifier class names that indicate music:
// genres, instruments, and performance verbs. Labels are free-form display
// names, so this is a case-insensitive substring test rather than an exact
// match. Compiled once; the pattern is hot (checked per frame).
var musicLabelPattern = regexp.MustCompile(`(?i)(music|instrument|orchestra|rock|funk|sing|song|metal|` +
	`blues|jazz|disco|grunge|guitar|banjo|harmonica|accordion|sitar|` +
	`mandolin|ukulele|piano|harpsichord|drum|timpani|percussion|cymbal|` +
	`hi-hat|maraca|tambourine|marimba|xylophone|trumpet|trombone|horn|` +
	`violin|cello|string|flute|saxophone|clarinet|organ|synthesizer|` +
	`raggae|country|opera|choir|lullaby|a capella|harmonic)`)

// IsMusicLabel reports whether any part of a colon-joined label string names
// a music-related class.
func IsMusicLabel(labels string) bool {
	if labels == "" {
		return false
	}
	return musicLabelPattern.MatchString(labels)
}
