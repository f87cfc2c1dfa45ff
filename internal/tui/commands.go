package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/handiism/social-transcriber/internal/app"
	"github.com/handiism/social-transcriber/internal/bulk"
	"github.com/handiism/social-transcriber/internal/config"
	"github.com/handiism/social-transcriber/internal/expand"
	ioutils "github.com/handiism/social-transcriber/internal/io"
)

// runRequest is everything needed to start one run.
type runRequest struct {
	settings    *config.Settings
	urls        []string
	pendingPath string
	enhance     bool
	verbose     bool
}

// pipelineRun is a planned run waiting to be executed.
type pipelineRun struct {
	app     *app.App
	plan    *expand.Plan
	pending *ioutils.PendingFile
}

// waitForEvent delivers the next pipeline event as a ProgressMsg.
func waitForEvent(events <-chan bulk.ProgressEvent) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return EventsClosedMsg{}
		}
		return ProgressMsg{Event: event}
	}
}

// sender forwards pipeline events to the UI. Events are dropped once ctx
// is cancelled and the UI may no longer be reading.
func sender(ctx context.Context, events chan<- bulk.ProgressEvent) func(bulk.ProgressEvent) {
	return func(event bulk.ProgressEvent) {
		select {
		case events <- event:
		case <-ctx.Done():
		}
	}
}

// planPipeline wires the pipeline and expands the requested URLs. The
// events channel is closed when planning fails.
func planPipeline(ctx context.Context, req runRequest, events chan bulk.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		urls := req.urls
		var pending *ioutils.PendingFile
		if req.pendingPath != "" {
			pf, err := ioutils.OpenPendingFile(req.pendingPath)
			if err != nil {
				close(events)
				return PlanDoneMsg{Err: err}
			}
			pending = pf
			urls = append(urls, pf.URLs()...)
		}

		a, err := app.New(req.settings, app.Options{
			Verbose:    req.verbose,
			Enhance:    req.enhance,
			OnProgress: sender(ctx, events),
		})
		if err != nil {
			close(events)
			return PlanDoneMsg{Err: err}
		}

		plan := a.Manager.Plan(ctx, urls)
		return PlanDoneMsg{Run: &pipelineRun{app: a, plan: plan, pending: pending}}
	}
}

// runPipeline processes a planned run and closes the events channel once
// the pipeline is done with it.
func runPipeline(ctx context.Context, run *pipelineRun, events chan bulk.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		defer close(events)
		defer run.app.Close()

		report := run.app.Manager.Run(ctx, run.plan)

		msg := RunDoneMsg{Report: report}
		if run.pending != nil {
			msg.Removed, msg.PendingErr = bulk.UpdatePendingFile(run.pending, report)
		}
		return msg
	}
}
