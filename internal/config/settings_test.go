package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), settings)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")

	settings := DefaultSettings()
	settings.OutputDir = "/tmp/transcripts"
	settings.MaxWorkers = 8
	settings.SpeedMultiplier = 2
	require.NoError(t, settings.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"max_workers": 2}`), 0644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.MaxWorkers)
	assert.Equal(t, "output", loaded.OutputDir)
	assert.Equal(t, 16000, loaded.SampleRate)
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults", func(s *Settings) {}, false},
		{"no output", func(s *Settings) { s.OutputDir = " " }, true},
		{"zero workers", func(s *Settings) { s.MaxWorkers = 0 }, true},
		{"negative speed", func(s *Settings) { s.SpeedMultiplier = -1 }, true},
		{"negative max items", func(s *Settings) { s.MaxItems = -3 }, true},
		{"zero depth", func(s *Settings) { s.MaxDepth = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("OPENROUTER_API_KEY=from-file\n"), 0644))

	t.Setenv(EnvMaxWorkers, "6")
	t.Setenv(EnvSpeed, "not-a-number")
	t.Setenv(EnvModel, "some/model")
	// godotenv never overrides variables that are already set
	os.Unsetenv(EnvAPIKey)
	t.Cleanup(func() { os.Unsetenv(EnvAPIKey) })

	s := DefaultSettings()
	s.ApplyEnv(envFile)

	assert.Equal(t, "from-file", s.LLMAPIKey)
	assert.Equal(t, 6, s.MaxWorkers)
	assert.Equal(t, 3.0, s.SpeedMultiplier)
	assert.Equal(t, "some/model", s.LLMModel)
	assert.True(t, s.CanEnhance())
}

func TestApplyEnv_MissingFileIsFine(t *testing.T) {
	s := DefaultSettings()
	s.ApplyEnv(filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, 4, s.MaxWorkers)
}
