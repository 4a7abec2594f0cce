package config

// Default returns the repository default configuration.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir:  "~/.local/share/setlist/staging",
			LogDir:      "~/.local/share/setlist/logs",
			DatabaseDir: "~/.local/share/setlist/db",
		},
		Classifier: Classifier{
			ScorerCommand: "yamnet-score",
			ModelDir:      "~/.local/share/setlist/yamnet",
			TopLabels:     5,
		},
		Detector: Detector{
			Mode: "batch",
		},
		Recognition: Recognition{
			Enabled:        true,
			BaseURL:        "https://shazam.p.rapidapi.com",
			Host:           "shazam.p.rapidapi.com",
			TimeoutSeconds: 15,
		},
		Transcode: Transcode{
			FFmpeg:  "ffmpeg",
			FFprobe: "ffprobe",
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}
