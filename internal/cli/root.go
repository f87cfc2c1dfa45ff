package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/handiism/social-transcriber/internal/config"
	"github.com/handiism/social-transcriber/internal/logging"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInterrupted = 130
)

// exitError carries the process exit code of a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func fail(code int, format string, args ...any) error {
	return &exitError{code: code, err: errors.Errorf(format, args...)}
}

// state is shared by all commands of one invocation.
type state struct {
	configPath string
	verbose    bool
	settings   *config.Settings
	logCloser  io.Closer
}

// NewRootCmd creates the root command. Called without a subcommand it
// behaves like "run".
func NewRootCmd() *cobra.Command {
	st := &state{}
	rootOpts := &runOptions{}

	rootCmd := &cobra.Command{
		Use:   "social-transcriber [URL...]",
		Short: "Transcribe videos from social platforms",
		Long: `social-transcriber downloads videos from TikTok, YouTube, Facebook,
Instagram, Reddit, Twitch, Vimeo and X, transcribes their audio with
parakeet-mlx and optionally formats the transcripts with an LLM.

Playlists, channels and profiles are expanded into their videos. Each
aggregate gets its own folder below the output directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return st.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if st.logCloser != nil {
				st.logCloser.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranscription(cmd, args, st, rootOpts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&st.configPath, "config", config.DefaultPath(), "JSON settings file")
	rootCmd.PersistentFlags().BoolVar(&st.verbose, "verbose", false, "Show verbose output")
	addRunFlags(rootCmd, rootOpts)

	rootCmd.AddCommand(NewRunCmd(st))
	rootCmd.AddCommand(NewCombineCmd())
	rootCmd.AddCommand(NewHistoryCmd(st))
	rootCmd.AddCommand(NewThreadCmd())

	return rootCmd
}

func (st *state) load() error {
	settings, err := config.Load(st.configPath)
	if err != nil {
		return fail(ExitFailure, "loading config: %v", err)
	}

	closer, err := logging.Setup(logging.Options{
		Dir:     settings.LogDir,
		Verbose: st.verbose,
		Console: io.Discard,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}
	st.logCloser = closer

	// Env warnings need the log file.
	settings.ApplyEnv()
	st.settings = settings
	return nil
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupts
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		if _, ok := <-sigCh; ok {
			fmt.Fprintln(os.Stderr, "\nInterrupted, cancelling...")
			cancel()
		}
	}()

	err := NewRootCmd().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
	}
	return exitCode(err)
}

func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}
	return ExitFailure
}
