package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/social-transcriber/internal/bulk"
	"github.com/handiism/social-transcriber/internal/config"
	"github.com/handiism/social-transcriber/internal/store"
)

// shSettings points every external tool at sh so tool checks pass.
func shSettings(t *testing.T) *config.Settings {
	t.Helper()
	s := config.DefaultSettings()
	s.OutputDir = t.TempDir()
	s.YtDlpPath = "sh"
	s.FFmpegPath = "sh"
	s.ParakeetPath = "sh"
	return s
}

func TestNewConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Settings)
	}{
		{"invalid settings", func(s *config.Settings) { s.MaxWorkers = 0 }},
		{"missing yt-dlp", func(s *config.Settings) { s.YtDlpPath = "definitely-not-yt-dlp" }},
		{"missing parakeet", func(s *config.Settings) { s.ParakeetPath = "definitely-not-parakeet" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := shSettings(t)
			tt.modify(s)

			_, err := New(s, Options{})
			require.Error(t, err)
			var ce *ConfigError
			assert.ErrorAs(t, err, &ce)
		})
	}
}

func TestNewDryRunSkipsTranscriptionTools(t *testing.T) {
	s := shSettings(t)
	s.ParakeetPath = "definitely-not-parakeet"

	a, err := New(s, Options{DryRun: true})
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Manager)
	assert.NoFileExists(t, store.DefaultPath(s.OutputDir))
}

func TestNewOpensLedger(t *testing.T) {
	s := shSettings(t)

	a, err := New(s, Options{})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(s.OutputDir, store.FileName))
	assert.NoError(t, a.Close())
}

func TestNewEnhancement(t *testing.T) {
	tests := []struct {
		name      string
		apiKey    string
		wantLevel bulk.ProgressLevel
	}{
		{"without key", "", bulk.LevelWarning},
		{"with key", "sk-test", bulk.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := shSettings(t)
			s.LLMAPIKey = tt.apiKey
			var events []bulk.ProgressEvent

			a, err := New(s, Options{Enhance: true, DryRun: true, OnProgress: func(e bulk.ProgressEvent) {
				events = append(events, e)
			}})
			require.NoError(t, err)
			defer a.Close()

			require.Len(t, events, 1)
			assert.Equal(t, tt.wantLevel, events[0].Level)
		})
	}
}
