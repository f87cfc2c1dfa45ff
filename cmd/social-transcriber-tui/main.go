package main

import (
	"fmt"
	"io"
	"os"

	"github.com/handiism/social-transcriber/internal/config"
	"github.com/handiism/social-transcriber/internal/logging"
	"github.com/handiism/social-transcriber/internal/tui"
)

func main() {
	settings, err := config.Load(config.DefaultPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The screen belongs to the TUI; logs only go to the file.
	closer, err := logging.Setup(logging.Options{Dir: settings.LogDir, Console: io.Discard})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}
	defer closer.Close()

	settings.ApplyEnv()

	if err := tui.Run(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
