package bulk

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/handiism/social-transcriber/internal/expand"
	ioutils "github.com/handiism/social-transcriber/internal/io"
	"github.com/handiism/social-transcriber/internal/model"
)

// Report aggregates the outcome of one run, keyed by source URL.
type Report struct {
	RunID     string
	Results   map[string]*model.SourceResult
	Order     []string
	Total     int
	Succeeded int
	Failed    int
	OutputDir string
	Elapsed   time.Duration
}

func newReport(plan *expand.Plan, results []model.JobResult, outputDir, runID string, elapsed time.Duration) *Report {
	r := &Report{
		RunID:     runID,
		Results:   make(map[string]*model.SourceResult, len(plan.Sources)),
		Order:     append([]string(nil), plan.Sources...),
		Total:     len(results),
		OutputDir: outputDir,
		Elapsed:   elapsed,
	}

	for _, res := range results {
		if res.Succeeded() {
			r.Succeeded++
		} else {
			r.Failed++
		}
	}

	for _, source := range plan.Sources {
		sr := &model.SourceResult{Source: source, Issues: plan.Issues[source]}
		for _, idx := range plan.Links[source] {
			sr.Results = append(sr.Results, results[idx])
		}
		r.Results[source] = sr
	}
	return r
}

// CompletedSources returns the sources whose every job succeeded without
// expansion issues.
func (r *Report) CompletedSources() map[string]bool {
	done := make(map[string]bool)
	for source, sr := range r.Results {
		if sr.Complete() {
			done[source] = true
		}
	}
	return done
}

// SingleVideoFailed reports whether the run consisted of exactly one job and
// that job failed.
func (r *Report) SingleVideoFailed() bool {
	return r.Total == 1 && r.Failed == 1
}

// Summary returns the human readable end-of-run lines.
func (r *Report) Summary() []string {
	lines := []string{fmt.Sprintf("Successfully processed: %d/%d videos", r.Succeeded, r.Total)}
	if r.Failed > 0 {
		lines = append(lines, fmt.Sprintf("Failed: %d videos", r.Failed))
	}
	dir := r.OutputDir
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	lines = append(lines, fmt.Sprintf("Output saved to: %s", dir))
	return lines
}

// UpdatePendingFile drops every completed source from pf and saves it once.
// Sources that were partly processed, produced no jobs or hit expansion
// issues stay for a later run. It returns the number of removed lines.
func UpdatePendingFile(pf *ioutils.PendingFile, r *Report) (int, error) {
	removed := pf.Remove(r.CompletedSources())
	if err := pf.Save(); err != nil {
		return 0, err
	}
	return removed, nil
}
