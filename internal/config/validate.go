package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	var err error
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}
	if c.Paths.DatabaseDir, err = expandPath(c.Paths.DatabaseDir); err != nil {
		return err
	}
	if c.Classifier.ModelDir, err = expandPath(c.Classifier.ModelDir); err != nil {
		return err
	}
	if strings.TrimSpace(c.Classifier.ClassMapPath) != "" {
		if c.Classifier.ClassMapPath, err = expandPath(c.Classifier.ClassMapPath); err != nil {
			return err
		}
	}

	c.Classifier.ScorerCommand = strings.TrimSpace(c.Classifier.ScorerCommand)
	c.Classifier.FeaturesCommand = strings.TrimSpace(c.Classifier.FeaturesCommand)
	c.Detector.Mode = strings.ToLower(strings.TrimSpace(c.Detector.Mode))
	c.Recognition.APIKey = strings.TrimSpace(c.Recognition.APIKey)
	c.Recognition.BaseURL = strings.TrimRight(strings.TrimSpace(c.Recognition.BaseURL), "/")
	c.Recognition.Host = strings.TrimSpace(c.Recognition.Host)
	c.Transcode.FFmpeg = strings.TrimSpace(c.Transcode.FFmpeg)
	c.Transcode.FFprobe = strings.TrimSpace(c.Transcode.FFprobe)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	if c.Recognition.APIKey == "" {
		c.Recognition.APIKey = strings.TrimSpace(os.Getenv("SHAZAM_API_KEY"))
	}
	if c.Detector.Mode == "" {
		c.Detector.Mode = "batch"
	}
	return nil
}

// Validate reports configuration problems that would break a detection run.
func (c *Config) Validate() error {
	var problems []string

	if c.Paths.StagingDir == "" {
		problems = append(problems, "paths.staging_dir must be set")
	}
	if c.Paths.DatabaseDir == "" {
		problems = append(problems, "paths.database_dir must be set")
	}
	if c.Classifier.ScorerCommand == "" {
		problems = append(problems, "classifier.scorer_command must be set")
	}
	if c.Classifier.TopLabels < 1 || c.Classifier.TopLabels > 10 {
		problems = append(problems, "classifier.top_labels must be between 1 and 10")
	}
	switch c.Detector.Mode {
	case "batch":
	case "stream":
		if c.Classifier.FeaturesCommand == "" {
			problems = append(problems, "detector.mode \"stream\" requires classifier.features_command")
		}
	default:
		problems = append(problems, fmt.Sprintf("detector.mode %q is not batch or stream", c.Detector.Mode))
	}
	if c.Recognition.Enabled {
		if c.Recognition.BaseURL == "" {
			problems = append(problems, "recognition.base_url must be set when recognition is enabled")
		}
		if c.Recognition.TimeoutSeconds <= 0 {
			problems = append(problems, "recognition.timeout_seconds must be positive")
		}
	}
	if c.Transcode.FFmpeg == "" {
		problems = append(problems, "transcode.ffmpeg must be set")
	}
	if c.Transcode.FFprobe == "" {
		problems = append(problems, "transcode.ffprobe must be set")
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q is not console or json", c.Logging.Format))
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}
