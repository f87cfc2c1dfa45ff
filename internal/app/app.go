package app

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/handiism/social-transcriber/internal/bulk"
	"github.com/handiism/social-transcriber/internal/command"
	"github.com/handiism/social-transcriber/internal/config"
	"github.com/handiism/social-transcriber/internal/enhance"
	"github.com/handiism/social-transcriber/internal/http"
	"github.com/handiism/social-transcriber/internal/provider"
	"github.com/handiism/social-transcriber/internal/store"
	"github.com/handiism/social-transcriber/internal/transcribe"
)

// ConfigError marks problems the user has to fix before any work can
// start.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return e.Err.Error() }

func (e *ConfigError) Unwrap() error { return e.Err }

// Options selects optional behaviour of the assembled pipeline.
type Options struct {
	Verbose bool
	Enhance bool
	// DryRun only needs yt-dlp; the transcription tools are not checked.
	DryRun     bool
	OnProgress func(bulk.ProgressEvent)
}

// App is the fully wired pipeline shared by the CLI and the TUI.
type App struct {
	Settings *config.Settings
	Manager  *bulk.Manager
	ledger   *store.Ledger
}

// New validates settings, checks the external tools and wires every
// component. Setup failures are returned as *ConfigError.
func New(settings *config.Settings, opts Options) (*App, error) {
	if err := settings.Validate(); err != nil {
		return nil, &ConfigError{Err: err}
	}

	tools := []string{settings.YtDlpPath}
	if !opts.DryRun {
		tools = append(tools, settings.FFmpegPath, settings.ParakeetPath)
	}
	if err := command.Require(tools...); err != nil {
		return nil, &ConfigError{Err: err}
	}

	notify := func(level bulk.ProgressLevel, msg string) {
		if opts.OnProgress != nil {
			opts.OnProgress(bulk.ProgressEvent{Message: msg, Level: level})
		}
	}

	runner := &command.ExecRunner{
		Passthrough: func(name string) bool { return opts.Verbose && name == settings.ParakeetPath },
	}

	registry := provider.NewRegistry(provider.Options{
		Runner:  runner,
		Binary:  settings.YtDlpPath,
		Limiter: rate.NewLimiter(rate.Limit(settings.ToolRate), settings.ToolBurst),
	})

	transcriber := transcribe.New(settings, runner)
	if err := transcriber.SetSpeed(settings.SpeedMultiplier); err != nil {
		return nil, &ConfigError{Err: err}
	}

	deps := bulk.Deps{Registry: registry, Transcriber: transcriber}

	if opts.Enhance {
		if !settings.CanEnhance() {
			notify(bulk.LevelWarning, "LLM enhancement requested but no API key is set ("+config.EnvAPIKey+"), writing raw transcripts")
		} else {
			enhancer, err := enhance.New(settings, http.NewClient())
			if err != nil {
				return nil, &ConfigError{Err: err}
			}
			deps.Enhancer = enhancer
			notify(bulk.LevelInfo, "LLM enhancement enabled with model "+settings.LLMModel)
		}
	}

	a := &App{Settings: settings}
	if !opts.DryRun {
		ledger, err := store.Open(store.DefaultPath(settings.OutputDir))
		if err != nil {
			logrus.WithError(err).Warn("Run ledger unavailable, continuing without history")
		} else {
			a.ledger = ledger
			deps.Ledger = ledger
		}
	}

	a.Manager = bulk.NewManager(settings, deps, opts.OnProgress, bulk.WithVerbose(opts.Verbose))
	return a, nil
}

// Close releases the ledger.
func (a *App) Close() error {
	if a.ledger == nil {
		return nil
	}
	return a.ledger.Close()
}
