package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StagingDir  string `toml:"staging_dir"`
	LogDir      string `toml:"log_dir"`
	DatabaseDir string `toml:"database_dir"`
}

// Classifier contains configuration for the external audio-event scorer.
type Classifier struct {
	// ScorerCommand is the binary that scores a mono 16kHz WAV and emits one
	// comma-separated probability row per second on stdout.
	ScorerCommand string `toml:"scorer_command"`
	// FeaturesCommand emits one "timestamp,c1..cN" cepstral row per DSP
	// analysis frame. Empty disables stream mode.
	FeaturesCommand string `toml:"features_command"`
	// ModelDir holds the model artifacts, including the class map.
	ModelDir string `toml:"model_dir"`
	// ClassMapPath overrides the vocabulary CSV location. Defaults to
	// <model_dir>/assets/yamnet_class_map.csv.
	ClassMapPath string `toml:"class_map_path"`
	// TopLabels is how many ranked class names join each label string.
	TopLabels int `toml:"top_labels"`
}

// Detector contains detection strategy configuration.
type Detector struct {
	// Mode selects the strategy: "batch" or "stream".
	Mode string `toml:"mode"`
}

// Recognition contains configuration for the external song recognition service.
type Recognition struct {
	Enabled        bool   `toml:"enabled"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Host           string `toml:"host"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Transcode contains the ffmpeg-family binaries used for audio extraction.
type Transcode struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for setlist.
type Config struct {
	Paths       Paths       `toml:"paths"`
	Classifier  Classifier  `toml:"classifier"`
	Detector    Detector    `toml:"detector"`
	Recognition Recognition `toml:"recognition"`
	Transcode   Transcode   `toml:"transcode"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/setlist/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("setlist.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a detection run needs.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.LogDir, c.Paths.DatabaseDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the SQLite file backing the segment store.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DatabaseDir, "segments.db")
}

// ClassMap returns the vocabulary CSV path, applying the model-dir default.
func (c *Config) ClassMap() string {
	if strings.TrimSpace(c.Classifier.ClassMapPath) != "" {
		return c.Classifier.ClassMapPath
	}
	return filepath.Join(c.Classifier.ModelDir, "assets", "yamnet_class_map.csv")
}

// CreateSample writes the embedded sample configuration to the given path.
func CreateSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath expands a user-supplied path without loading configuration.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
