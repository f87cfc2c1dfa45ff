package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/social-transcriber/internal/config"
	"github.com/handiism/social-transcriber/internal/expand"
	ioutils "github.com/handiism/social-transcriber/internal/io"
	"github.com/handiism/social-transcriber/internal/logging"
	"github.com/handiism/social-transcriber/internal/model"
	"github.com/handiism/social-transcriber/internal/store"
)

// writeConfig stores settings that keep logs and tools inside the test.
func writeConfig(t *testing.T, overrides map[string]any) string {
	t.Helper()
	dir := t.TempDir()
	settings := map[string]any{
		"log_dir":       filepath.Join(dir, "logs"),
		"output_dir":    filepath.Join(dir, "output"),
		"ytdlp_path":    "sh",
		"ffmpeg_path":   "sh",
		"parakeet_path": "sh",
	}
	for k, v := range overrides {
		settings[k] = v
	}
	data, err := json.Marshal(settings)
	require.NoError(t, err)

	path := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, ExitOK},
		{"config", fail(ExitFailure, "bad"), ExitFailure},
		{"interrupted", &exitError{code: ExitInterrupted, err: context.Canceled}, ExitInterrupted},
		{"bare cancel", errors.Wrap(context.Canceled, "running"), ExitInterrupted},
		{"other", errors.New("boom"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestRun_ConfigErrors(t *testing.T) {
	cfg := writeConfig(t, nil)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no urls", []string{"run", "--config", cfg}, "no URLs given"},
		{"no urls on root", []string{"--config", cfg}, "no URLs given"},
		{"bad workers", []string{"run", "--config", cfg, "-w", "0", "https://vimeo.com/1"}, "max workers"},
		{"bad speed", []string{"run", "--config", cfg, "--speed", "-1", "https://vimeo.com/1"}, "speed multiplier"},
		{"file is a directory", []string{"run", "--config", cfg, "-f", t.TempDir()}, "is a directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, ExitFailure, exitCode(err))
		})
	}
}

func TestRun_MissingPendingFile(t *testing.T) {
	cfg := writeConfig(t, nil)
	path := filepath.Join(t.TempDir(), "nope.txt")

	_, err := execute(t, "run", "--config", cfg, "-f", path, "https://example.com/x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pending file")
	assert.Equal(t, ExitFailure, exitCode(err))
	assert.NoFileExists(t, path)
}

func TestEnvWarningsReachLogFile(t *testing.T) {
	cfg := writeConfig(t, nil)
	t.Setenv(config.EnvMaxWorkers, "many")

	_, err := execute(t, "history", "--config", cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(filepath.Dir(cfg), "logs", logging.LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Invalid integer, using default")
	assert.Contains(t, string(data), config.EnvMaxWorkers)
}

func TestRun_BadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := execute(t, "run", "--config", path, "https://vimeo.com/1")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, exitCode(err))
}

func TestRootDefaultsToRun_DryRun(t *testing.T) {
	cfg := writeConfig(t, nil)

	out, err := execute(t, "--config", cfg, "--dry-run", "https://example.com/not-a-video")
	require.NoError(t, err)
	assert.Contains(t, out, "No provider found for URL")
	assert.Contains(t, out, "Plan: 0 videos from 1 sources")
	assert.Contains(t, out, "https://example.com/not-a-video")
}

func TestRun_DryRunReadsPendingFile(t *testing.T) {
	cfg := writeConfig(t, nil)
	bulkFile := filepath.Join(t.TempDir(), "bulk.txt")
	content := "# queue\nhttps://example.com/a\n\nhttps://example.com/b\n"
	require.NoError(t, os.WriteFile(bulkFile, []byte(content), 0644))

	out, err := execute(t, "run", "--config", cfg, "--dry-run", "-f", bulkFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Plan: 0 videos from 2 sources")

	data, err := os.ReadFile(bulkFile)
	require.NoError(t, err)
	assert.Equal(t, content, string(data), "dry run must not rewrite the pending file")
}

func TestExportPlan(t *testing.T) {
	plan := &expand.Plan{Jobs: []model.Job{
		{Video: model.VideoReference{URL: "https://vimeo.com/1"}},
		{Video: model.VideoReference{URL: "https://www.youtube.com/watch?v=abc"}},
	}}
	path := filepath.Join(t.TempDir(), "plan.txt")

	require.NoError(t, exportPlan(path, plan))

	urls, err := ioutils.LoadURLs(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://vimeo.com/1", "https://www.youtube.com/watch?v=abc"}, urls)
}

func TestRun_DryRunExportsEmptyPlan(t *testing.T) {
	cfg := writeConfig(t, nil)
	path := filepath.Join(t.TempDir(), "plan.txt")

	out, err := execute(t, "run", "--config", cfg, "--dry-run", "--export", path, "https://example.com/x")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 0 video URLs")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestCombine(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Creator"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Creator", "a.txt"), []byte("A"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Creator", "b.txt"), []byte("B"), 0644))

	out, err := execute(t, "combine", "--config", writeConfig(t, nil), "-d", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Creator -> "+filepath.Join(dir, "Creator_combined.txt"))

	data, err := os.ReadFile(filepath.Join(dir, "Creator_combined.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "A")
	assert.Contains(t, string(data), "B")
}

func TestCombine_NothingToCombine(t *testing.T) {
	out, err := execute(t, "combine", "--config", writeConfig(t, nil), "-d", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No transcripts found")
}

func TestCombine_MissingDir(t *testing.T) {
	_, err := execute(t, "combine", "--config", writeConfig(t, nil), "-d", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, exitCode(err))
}

func TestThread(t *testing.T) {
	cfg := writeConfig(t, nil)
	dir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "threads")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Creator"), 0755))

	talk := filepath.Join(dir, "Creator", "talk.txt")
	require.NoError(t, os.WriteFile(talk, []byte("# Building Go services\nFirst point here. Second point here."), 0644))
	// Same heading twice forces a numbered second name.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Creator", "again.txt"), []byte("# Building Go services\nMore words."), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Creator_combined.txt"), []byte("skip me"), 0644))

	tests := []struct {
		name      string
		input     string
		wantFiles []string
	}{
		{"single file", talk, []string{"Building Go services.thread.txt"}},
		{"folder", dir, []string{"Building Go services.thread.txt", "Building Go services (2).thread.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, os.RemoveAll(outDir))

			out, err := execute(t, "thread", "--config", cfg, "-o", outDir, tt.input)
			require.NoError(t, err)

			entries, err := os.ReadDir(outDir)
			require.NoError(t, err)
			assert.Len(t, entries, len(tt.wantFiles))
			for _, name := range tt.wantFiles {
				assert.FileExists(t, filepath.Join(outDir, name))
				assert.Contains(t, out, filepath.Join(outDir, name))
			}
		})
	}

	data, err := os.ReadFile(filepath.Join(outDir, "Building Go services.thread.txt"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Topic: Building Go services\n\nThread 1:\n"))
}

func TestThread_NoTranscripts(t *testing.T) {
	out, err := execute(t, "thread", "--config", writeConfig(t, nil), t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No transcripts found")
}

func TestThread_MissingInput(t *testing.T) {
	_, err := execute(t, "thread", "--config", writeConfig(t, nil), filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, exitCode(err))
}

func TestHistory(t *testing.T) {
	outputDir := t.TempDir()
	ledger, err := store.Open(store.DefaultPath(outputDir))
	require.NoError(t, err)

	at := time.Now()
	require.NoError(t, ledger.Record(context.Background(), store.Entry{
		RunID: "run-1", Source: "https://vimeo.com/1", VideoURL: "https://vimeo.com/1",
		Status: store.StatusSucceeded, Path: "output/First.txt", Duration: 2 * time.Second, At: at,
	}))
	require.NoError(t, ledger.Record(context.Background(), store.Entry{
		RunID: "run-1", Source: "https://vimeo.com/2", VideoURL: "https://vimeo.com/2",
		Status: store.StatusFailed, Error: "downloading audio: boom", At: at.Add(time.Second),
	}))
	require.NoError(t, ledger.Close())

	cfg := writeConfig(t, nil)

	out, err := execute(t, "history", "--config", cfg, "-o", outputDir)
	require.NoError(t, err)
	assert.Contains(t, out, "https://vimeo.com/1")
	assert.Contains(t, out, "output/First.txt")
	assert.Contains(t, out, "downloading audio: boom")

	out, err = execute(t, "history", "--config", cfg, "-o", outputDir, "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "https://vimeo.com/2")
	assert.NotContains(t, out, "https://vimeo.com/1")
}

func TestHistory_Empty(t *testing.T) {
	out, err := execute(t, "history", "--config", writeConfig(t, nil), "-o", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No history yet")
}
