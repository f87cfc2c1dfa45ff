package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/handiism/social-transcriber/internal/app"
	"github.com/handiism/social-transcriber/internal/bulk"
	"github.com/handiism/social-transcriber/internal/config"
	"github.com/handiism/social-transcriber/internal/expand"
	ioutils "github.com/handiism/social-transcriber/internal/io"
)

type runOptions struct {
	file                string
	outputDir           string
	maxWorkers          int
	speed               float64
	enhance             bool
	maxItems            int
	platformTranscripts bool
	threads             bool
	dryRun              bool
	export              string
}

// NewRunCmd creates the run command.
func NewRunCmd(st *state) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [URL...]",
		Short: "Download and transcribe videos, playlists, channels and profiles",
		Example: `  social-transcriber run https://www.youtube.com/watch?v=dQw4w9WgXcQ
  social-transcriber run -f bulk.txt --enhance
  social-transcriber run https://www.tiktok.com/@creator --max-items 10 --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranscription(cmd, args, st, opts)
		},
	}

	addRunFlags(cmd, opts)
	return cmd
}

func addRunFlags(cmd *cobra.Command, opts *runOptions) {
	defaults := config.DefaultSettings()

	flags := cmd.Flags()
	flags.StringVarP(&opts.file, "file", "f", "", "Pending-work file of URLs, rewritten after the run")
	flags.StringVarP(&opts.outputDir, "output-dir", "o", defaults.OutputDir, "Output directory")
	flags.IntVarP(&opts.maxWorkers, "max-workers", "w", defaults.MaxWorkers, "Number of concurrent jobs")
	flags.Float64Var(&opts.speed, "speed", defaults.SpeedMultiplier, "Audio speed multiplier before transcription")
	flags.BoolVar(&opts.enhance, "enhance", false, "Format transcripts with an LLM (needs "+config.EnvAPIKey+")")
	flags.IntVar(&opts.maxItems, "max-items", 0, "Cap children of every playlist, channel or profile (0 keeps provider defaults)")
	flags.BoolVar(&opts.platformTranscripts, "platform-transcripts", false, "Use platform subtitles when available")
	flags.BoolVar(&opts.threads, "threads", false, "Also write a thread file next to each transcript")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Expand and print the job plan without processing")
	flags.StringVar(&opts.export, "export", "", "Write the expanded video URLs to this file")
	cmd.Args = cobra.ArbitraryArgs
}

// apply copies explicitly set flags over the loaded settings.
func (o *runOptions) apply(cmd *cobra.Command, s *config.Settings) {
	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		s.OutputDir = o.outputDir
	}
	if flags.Changed("max-workers") {
		s.MaxWorkers = o.maxWorkers
	}
	if flags.Changed("speed") {
		s.SpeedMultiplier = o.speed
	}
	if flags.Changed("max-items") {
		s.MaxItems = o.maxItems
	}
	if flags.Changed("platform-transcripts") {
		s.PlatformTranscripts = o.platformTranscripts
	}
	if flags.Changed("threads") {
		s.Threads = o.threads
	}
}

func runTranscription(cmd *cobra.Command, args []string, st *state, opts *runOptions) error {
	ctx := cmd.Context()
	out := newPrinter(cmd.OutOrStdout(), st.verbose)

	settings := *st.settings
	opts.apply(cmd, &settings)

	urls := append([]string(nil), args...)
	var pending *ioutils.PendingFile
	if opts.file != "" {
		info, err := os.Stat(opts.file)
		if err != nil {
			return fail(ExitFailure, "pending file: %v", err)
		}
		if info.IsDir() {
			return fail(ExitFailure, "pending file %s is a directory", opts.file)
		}
		pf, err := ioutils.OpenPendingFile(opts.file)
		if err != nil {
			return fail(ExitFailure, "%v", err)
		}
		pending = pf
		urls = append(urls, pf.URLs()...)
	}
	if len(urls) == 0 {
		return fail(ExitFailure, "no URLs given: pass URLs as arguments or use --file")
	}

	a, err := app.New(&settings, app.Options{
		Verbose:    st.verbose,
		Enhance:    opts.enhance,
		DryRun:     opts.dryRun,
		OnProgress: out.event,
	})
	if err != nil {
		return fail(ExitFailure, "%v", err)
	}
	defer a.Close()

	out.header("Social Transcriber")
	plan := a.Manager.Plan(ctx, urls)

	if opts.export != "" {
		if err := exportPlan(opts.export, plan); err != nil {
			return fail(ExitFailure, "%v", err)
		}
		out.event(bulk.ProgressEvent{Message: fmt.Sprintf("Wrote %d video URLs to %s", len(plan.Jobs), opts.export), Level: bulk.LevelSuccess})
	}

	if opts.dryRun {
		printPlan(cmd.OutOrStdout(), plan)
		if ctx.Err() != nil {
			return &exitError{code: ExitInterrupted, err: ctx.Err()}
		}
		return nil
	}

	report := a.Manager.Run(ctx, plan)

	out.println("")
	out.header("Summary")
	for _, line := range report.Summary() {
		out.println(infoStyle.Render(line))
	}

	if pending != nil {
		removed, err := bulk.UpdatePendingFile(pending, report)
		if err != nil {
			out.event(bulk.ProgressEvent{Message: fmt.Sprintf("Could not update %s: %v", pending.Path(), err), Level: bulk.LevelError})
		} else if removed > 0 {
			out.event(bulk.ProgressEvent{Message: fmt.Sprintf("Removed %d completed URLs from %s", removed, pending.Path()), Level: bulk.LevelSuccess})
		}
	}

	switch {
	case ctx.Err() != nil:
		return &exitError{code: ExitInterrupted, err: ctx.Err()}
	case report.SingleVideoFailed():
		return fail(ExitFailure, "transcription failed")
	}
	return nil
}

// exportPlan writes one video URL per line, in job order, so the list can
// be fed back with --file.
func exportPlan(path string, plan *expand.Plan) error {
	urls := make([]string, 0, len(plan.Jobs))
	for _, job := range plan.Jobs {
		urls = append(urls, job.Video.URL)
	}
	return ioutils.SaveURLs(path, urls)
}

func printPlan(w io.Writer, plan *expand.Plan) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Plan: %d videos from %d sources", len(plan.Jobs), len(plan.Sources))))
	for _, source := range plan.Sources {
		fmt.Fprintln(w, infoStyle.Render(source))
		for _, job := range plan.JobsFor(source) {
			folder := job.Context.String()
			if folder == "" {
				folder = "."
			}
			fmt.Fprintf(w, "  %s %s\n", dimStyle.Render(folder), job.Video.URL)
		}
		for _, issue := range plan.Issues[source] {
			fmt.Fprintln(w, warningStyle.Render("  ! "+issue.Error()))
		}
	}
}
