package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Settings holds all configuration options. It is read-only once a run
// starts and shared by every worker.
type Settings struct {
	// Output
	OutputDir string `json:"output_dir"`
	BulkFile  string `json:"bulk_file"`
	LogDir    string `json:"log_dir"`

	// Processing
	MaxWorkers          int     `json:"max_workers"`
	SpeedMultiplier     float64 `json:"speed_multiplier"`
	SampleRate          int     `json:"sample_rate"`
	Channels            int     `json:"channels"`
	MaxItems            int     `json:"max_items"` // 0 keeps the per-provider caps
	MaxDepth            int     `json:"max_depth"`
	PlatformTranscripts bool    `json:"platform_transcripts"`
	Threads             bool    `json:"threads"` // write a .thread.txt next to each transcript

	// Retry settings for audio downloads
	DownloadMaxRetries    int     `json:"download_max_retries"`
	DownloadRetryCooldown float64 `json:"download_retry_cooldown"`
	DownloadRetryExponent float64 `json:"download_retry_exponent"`

	// External tools
	YtDlpPath    string  `json:"ytdlp_path"`
	FFmpegPath   string  `json:"ffmpeg_path"`
	ParakeetPath string  `json:"parakeet_path"`
	ToolRate     float64 `json:"tool_rate"` // yt-dlp invocations per second
	ToolBurst    int     `json:"tool_burst"`

	// LLM enhancement
	LLMAPIKey string `json:"llm_api_key"`
	LLMAPIURL string `json:"llm_api_url"`
	LLMModel  string `json:"llm_model"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		OutputDir: "output",
		BulkFile:  "bulk.txt",
		LogDir:    defaultLogDir(),

		MaxWorkers:      4,
		SpeedMultiplier: 3.0,
		SampleRate:      16000,
		Channels:        1,
		MaxDepth:        4,

		DownloadMaxRetries:    3,
		DownloadRetryCooldown: 0.5,
		DownloadRetryExponent: 4.0,

		YtDlpPath:    "yt-dlp",
		FFmpegPath:   "ffmpeg",
		ParakeetPath: "parakeet-mlx",
		ToolRate:     2,
		ToolBurst:    4,

		LLMAPIURL: "https://openrouter.ai/api/v1",
		LLMModel:  "openai/gpt-4o-mini",
	}
}

// DefaultPath is where the CLI looks for a settings file when none is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "settings.json"
	}
	return filepath.Join(dir, "social-transcriber", "settings.json")
}

func defaultLogDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "logs"
	}
	return filepath.Join(dir, "social-transcriber", "logs")
}

// Load reads settings from a JSON file. A missing file yields defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, errors.Wrapf(err, "reading settings %s", path)
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, errors.Wrapf(err, "parsing settings %s", path)
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks settings that would otherwise fail deep inside a run.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.OutputDir) == "" {
		return errors.New("output directory is required")
	}
	if s.MaxWorkers < 1 {
		return errors.Errorf("max workers must be at least 1, got %d", s.MaxWorkers)
	}
	if s.SpeedMultiplier <= 0 {
		return errors.Errorf("speed multiplier must be positive, got %g", s.SpeedMultiplier)
	}
	if s.SampleRate <= 0 || s.Channels <= 0 {
		return errors.New("sample rate and channels must be positive")
	}
	if s.MaxItems < 0 {
		return errors.Errorf("max items cannot be negative, got %d", s.MaxItems)
	}
	if s.MaxDepth < 1 {
		return errors.Errorf("max depth must be at least 1, got %d", s.MaxDepth)
	}
	if s.DownloadMaxRetries < 1 {
		return errors.Errorf("download max retries must be at least 1, got %d", s.DownloadMaxRetries)
	}
	return nil
}

// CanEnhance reports whether LLM enhancement has what it needs.
func (s *Settings) CanEnhance() bool {
	return strings.TrimSpace(s.LLMAPIKey) != ""
}
