package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"setlist/internal/config"
)

// Requirement defines an external dependency Setlist relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements builds the external binary list for the given configuration.
// The feature extractor is only required in stream mode, and only the first
// word of each classifier command is a binary to resolve.
func Requirements(cfg *config.Config) []Requirement {
	reqs := []Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.Transcode.FFmpeg,
			Description: "Extracts and downmixes audio tracks",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.Transcode.FFprobe,
			Description: "Inspects container streams",
		},
		{
			Name:        "Classifier",
			Command:     commandBinary(cfg.Classifier.ScorerCommand),
			Description: "Scores audio frames against the sound vocabulary",
		},
	}
	reqs = append(reqs, Requirement{
		Name:        "Feature extractor",
		Command:     commandBinary(cfg.Classifier.FeaturesCommand),
		Description: "Emits cepstral feature rows for stream detection",
		Optional:    cfg.Detector.Mode != "stream",
	})
	return reqs
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the names of unavailable non-optional dependencies.
func MissingRequired(statuses []Status) []string {
	var missing []string
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status.Name)
		}
	}
	return missing
}

func commandBinary(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
