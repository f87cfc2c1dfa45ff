package bulk

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/social-transcriber/internal/config"
	"github.com/handiism/social-transcriber/internal/expand"
	"github.com/handiism/social-transcriber/internal/model"
	"github.com/handiism/social-transcriber/internal/store"
)

// Transcriber turns an audio file into text written at outputPath.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, outputPath string, verbose bool) (string, error)
}

// Enhancer rewrites a raw transcript into a formatted document.
type Enhancer interface {
	Enhance(ctx context.Context, title, raw string) (string, error)
}

// Ledger records job outcomes.
type Ledger interface {
	Record(ctx context.Context, e store.Entry) error
}

// Deps are the collaborators of a Manager. Enhancer and Ledger may be nil.
type Deps struct {
	Registry    expand.Resolver
	Transcriber Transcriber
	Enhancer    Enhancer
	Ledger      Ledger
}

// Option customises a Manager.
type Option func(*Manager)

// WithVerbose forwards verbose output to the transcriber and emits
// per-step events.
func WithVerbose(v bool) Option {
	return func(m *Manager) { m.verbose = v }
}

// Manager coordinates expansion and transcription of a batch of URLs.
type Manager struct {
	settings   *config.Settings
	deps       Deps
	expander   *expand.Engine
	onProgress func(ProgressEvent)
	verbose    bool
	now        func() time.Time

	mu     sync.Mutex
	claims map[string]bool // transcript paths handed out in this run
}

// NewManager creates a new Manager.
func NewManager(settings *config.Settings, deps Deps, onProgress func(ProgressEvent), opts ...Option) *Manager {
	m := &Manager{
		settings:   settings,
		deps:       deps,
		onProgress: onProgress,
		now:        time.Now,
		claims:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.expander = expand.NewEngine(deps.Registry, expand.Options{
		MaxItems: settings.MaxItems,
		MaxDepth: settings.MaxDepth,
		OnNotice: func(n expand.Notice) {
			m.progress(ProgressEvent{Message: n.Message, Level: levelOf(n.Level)})
		},
	})
	return m
}

// Plan expands urls into jobs.
func (m *Manager) Plan(ctx context.Context, urls []string) *expand.Plan {
	m.progress(ProgressEvent{Message: "Discovering and expanding all video URLs...", Level: LevelInfo})
	plan := m.expander.Expand(ctx, urls)
	m.progress(ProgressEvent{Message: fmt.Sprintf("Found %d total videos to process", len(plan.Jobs)), Level: LevelInfo})
	return plan
}

// Process plans and runs urls.
func (m *Manager) Process(ctx context.Context, urls []string) *Report {
	return m.Run(ctx, m.Plan(ctx, urls))
}

// message travels from workers to the progress consumer.
type message struct {
	event  ProgressEvent
	result *model.JobResult
}

// Run processes every job of plan on a bounded pool and blocks until all of
// them finished. Job failures never stop other jobs.
//
// Workers only send messages; a single consumer goroutine owns the
// completion counter, the result slice, the ledger and the progress
// callback.
func (m *Manager) Run(ctx context.Context, plan *expand.Plan) *Report {
	start := time.Now()
	runID := store.NewRunID()
	total := len(plan.Jobs)
	results := make([]model.JobResult, total)

	workers := m.settings.MaxWorkers
	if workers < 1 {
		workers = 1
	}

	messages := make(chan message, workers*4)
	var consumer sync.WaitGroup
	consumer.Add(1)
	go func() {
		defer consumer.Done()
		m.consume(ctx, messages, results, runID)
	}()

	log := logrus.WithFields(logrus.Fields{"run_id": runID, "jobs": total, "workers": workers})
	log.Info("Run started")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, job := range plan.Jobs {
		job := job // capture
		g.Go(func() error {
			emit := func(e ProgressEvent) { messages <- message{event: e} }
			result := m.processJob(gctx, job, total, emit)
			messages <- message{result: &result}
			return nil // Continue with other jobs
		})
	}

	g.Wait()
	close(messages)
	consumer.Wait()

	m.cleanupFailedDirs(results)

	report := newReport(plan, results, m.settings.OutputDir, runID, time.Since(start))
	log.WithFields(logrus.Fields{
		"succeeded": report.Succeeded,
		"failed":    report.Failed,
		"elapsed":   report.Elapsed.Round(time.Millisecond),
	}).Info("Run finished")
	return report
}

func (m *Manager) consume(ctx context.Context, in <-chan message, results []model.JobResult, runID string) {
	total := len(results)
	completed := 0
	recordCtx := context.WithoutCancel(ctx)

	for msg := range in {
		if msg.result == nil {
			m.progress(msg.event)
			continue
		}

		r := *msg.result
		results[r.Job.Index] = r
		completed++
		m.record(recordCtx, runID, r)

		done := &JobDone{Completed: completed, Total: total, URL: r.Job.Video.URL, Result: r}
		if r.Succeeded() {
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("[%d/%d] Transcribed: %s", completed, total, r.Path),
				Level:   LevelSuccess,
				Done:    done,
			})
		} else {
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("[%d/%d] Failed: %s: %v", completed, total, r.Job.Video.URL, r.Err),
				Level:   LevelError,
				Done:    done,
			})
		}
	}
}

func (m *Manager) record(ctx context.Context, runID string, r model.JobResult) {
	if m.deps.Ledger == nil {
		return
	}

	entry := store.Entry{
		RunID:    runID,
		Source:   r.Job.Source,
		VideoURL: r.Job.Video.URL,
		Folder:   r.Job.Context.String(),
		Status:   store.StatusSucceeded,
		Path:     r.Path,
		Duration: r.Duration,
	}
	if !r.Succeeded() {
		entry.Status = store.StatusFailed
		entry.Error = r.Err.Error()
	}

	if err := m.deps.Ledger.Record(ctx, entry); err != nil {
		logrus.WithError(err).WithField("url", entry.VideoURL).Warn("Could not record job in ledger")
	}
}

func (m *Manager) waitForRetry(ctx context.Context, tries int) {
	cooldown := m.settings.DownloadRetryCooldown * math.Pow(m.settings.DownloadRetryExponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
	}
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
