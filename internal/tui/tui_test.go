package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/social-transcriber/internal/bulk"
	"github.com/handiism/social-transcriber/internal/config"
	"github.com/handiism/social-transcriber/internal/model"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	settings := config.DefaultSettings()
	settings.OutputDir = filepath.Join(t.TempDir(), "output")
	return NewModel(settings)
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	updated, ok := next.(Model)
	require.True(t, ok)
	return updated
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestOptionToggles(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyType
		get  func(Model) bool
	}{
		{"enhance", tea.KeyCtrlE, func(m Model) bool { return m.enhance }},
		{"platform transcripts", tea.KeyCtrlT, func(m Model) bool { return m.platformTranscripts }},
		{"pending file", tea.KeyCtrlF, func(m Model) bool { return m.usePendingFile }},
		{"verbose", tea.KeyCtrlO, func(m Model) bool { return m.verbose }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			before := tt.get(m)

			m = update(t, m, tea.KeyMsg{Type: tt.key})
			assert.Equal(t, !before, tt.get(m))

			m = update(t, m, tea.KeyMsg{Type: tt.key})
			assert.Equal(t, before, tt.get(m))
		})
	}
}

func TestPendingFileCount(t *testing.T) {
	m := newTestModel(t)
	m.settings.BulkFile = filepath.Join(t.TempDir(), "bulk.txt")
	require.NoError(t, os.WriteFile(m.settings.BulkFile, []byte("# queue\nhttps://vimeo.com/1\n\nhttps://vimeo.com/2\n"), 0644))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlF})
	assert.True(t, m.usePendingFile)
	assert.Equal(t, 2, m.pendingURLs)
	assert.Contains(t, m.View(), "2 URLs")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlF})
	assert.False(t, m.usePendingFile)
	assert.Zero(t, m.pendingURLs)
}

func TestEnterWithoutURLs(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, StateInput, m.state)
	assert.Contains(t, m.notice, "Enter at least one URL")
	assert.Contains(t, m.View(), "Enter at least one URL")
}

func TestProgressMsg(t *testing.T) {
	m := newTestModel(t)
	m.state = StateTranscribing

	m = update(t, m, ProgressMsg{Event: bulk.ProgressEvent{Message: "hidden", Level: bulk.LevelVerbose}})
	assert.Empty(t, m.logs, "verbose events are hidden unless verbose is on")

	m.verbose = true
	m = update(t, m, ProgressMsg{Event: bulk.ProgressEvent{Message: "shown", Level: bulk.LevelVerbose}})
	require.Len(t, m.logs, 1)
	assert.Equal(t, "shown", m.logs[0].Message)

	m = update(t, m, ProgressMsg{Event: bulk.ProgressEvent{
		Message: "[1/2] Failed: https://vimeo.com/1: boom",
		Level:   bulk.LevelError,
		Done: &bulk.JobDone{
			Completed: 1,
			Total:     2,
			URL:       "https://vimeo.com/1",
			Result:    model.JobResult{Err: errors.New("boom")},
		},
	}})
	assert.Equal(t, 1, m.completedJobs)
	assert.Equal(t, 2, m.totalJobs)
	assert.Equal(t, 1, m.failedJobs)
	assert.Contains(t, m.View(), "Videos: 1/2 | Failed: 1")
}

func TestLogsAreTrimmed(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < maxLogs+5; i++ {
		m = update(t, m, ProgressMsg{Event: bulk.ProgressEvent{Message: fmt.Sprintf("line %d", i), Level: bulk.LevelInfo}})
	}
	require.Len(t, m.logs, maxLogs)
	assert.Equal(t, "line 5", m.logs[0].Message)
	assert.Equal(t, fmt.Sprintf("line %d", maxLogs+4), m.logs[maxLogs-1].Message)
}

func TestWaitForEvent(t *testing.T) {
	assert.Nil(t, waitForEvent(nil))

	events := make(chan bulk.ProgressEvent, 1)
	events <- bulk.ProgressEvent{Message: "hello", Level: bulk.LevelInfo}
	close(events)

	cmd := waitForEvent(events)
	require.NotNil(t, cmd)
	assert.Equal(t, ProgressMsg{Event: bulk.ProgressEvent{Message: "hello", Level: bulk.LevelInfo}}, cmd())
	assert.Equal(t, EventsClosedMsg{}, cmd())
}

func TestSenderDropsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan bulk.ProgressEvent)
	cancel()

	done := make(chan struct{})
	go func() {
		sender(ctx, events)(bulk.ProgressEvent{Message: "late"})
		close(done)
	}()
	<-done
}

func TestPlanPipeline_InvalidSettings(t *testing.T) {
	settings := config.DefaultSettings()
	settings.MaxWorkers = 0
	events := make(chan bulk.ProgressEvent, 1)

	msg := planPipeline(context.Background(), runRequest{settings: settings, urls: []string{"https://vimeo.com/1"}}, events)()
	done, ok := msg.(PlanDoneMsg)
	require.True(t, ok)
	require.Error(t, done.Err)
	assert.Contains(t, done.Err.Error(), "max workers")

	_, open := <-events
	assert.False(t, open, "events channel is closed when planning fails")
}

func TestPlanDoneWithError(t *testing.T) {
	m := newTestModel(t)
	m.state = StatePlanning

	m = update(t, m, PlanDoneMsg{Err: errors.New("required tools not found on PATH: yt-dlp")})
	assert.Equal(t, StateError, m.state)
	assert.Contains(t, m.View(), "required tools not found")
}

func TestRunDone(t *testing.T) {
	report := &bulk.Report{Total: 2, Succeeded: 2, OutputDir: "output"}

	t.Run("complete", func(t *testing.T) {
		m := newTestModel(t)
		m.state = StateTranscribing

		m = update(t, m, RunDoneMsg{Report: report, Removed: 1})
		assert.Equal(t, StateComplete, m.state)
		view := m.View()
		assert.Contains(t, view, "Successfully processed: 2/2 videos")
		assert.Contains(t, view, "Removed 1 completed URLs")
	})

	t.Run("cancelled", func(t *testing.T) {
		m := newTestModel(t)
		m.state = StateTranscribing
		m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
		assert.Contains(t, m.notice, "Cancelling")

		m = update(t, m, RunDoneMsg{Report: report})
		assert.Equal(t, StateError, m.state)
		assert.EqualError(t, m.err, "cancelled by user")
	})

	t.Run("pending file error", func(t *testing.T) {
		m := newTestModel(t)
		m.state = StateTranscribing

		m = update(t, m, RunDoneMsg{Report: report, PendingErr: errors.New("disk full")})
		require.NotEmpty(t, m.logs)
		assert.Contains(t, m.logs[len(m.logs)-1].Message, "disk full")
	})
}

func TestReset(t *testing.T) {
	m := newTestModel(t)
	m.state = StateComplete
	m.completedJobs = 3
	m.totalJobs = 3
	m.logs = []LogEntry{{Message: "old"}}
	m.cancel()

	m = update(t, m, runes("r"))
	assert.Equal(t, StateInput, m.state)
	assert.Empty(t, m.logs)
	assert.Zero(t, m.completedJobs)
	assert.Zero(t, m.totalJobs)
	assert.NoError(t, m.ctx.Err())
}
