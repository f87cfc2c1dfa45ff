package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileName is the rotating log file created inside the log directory.
const LogFileName = "transcriber.log"

// Options controls Setup.
type Options struct {
	// Dir receives the rotating log file. Empty disables file logging.
	Dir string
	// Verbose lowers the level to debug.
	Verbose bool
	// Console is where human-facing log lines go. Defaults to stderr.
	Console io.Writer
}

// Setup configures the standard logrus logger to write to the console and,
// when a directory is given, to a rotating log file. The returned closer
// flushes and closes the file.
func Setup(opts Options) (io.Closer, error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	if opts.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	if opts.Dir == "" {
		logrus.SetOutput(console)
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(opts.Dir, os.ModePerm); err != nil {
		logrus.SetOutput(console)
		return nopCloser{}, errors.Wrapf(err, "creating log directory %s", opts.Dir)
	}

	logFile := &lumberjack.Logger{
		Filename:   filepath.Join(opts.Dir, LogFileName),
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}

	logrus.SetOutput(io.MultiWriter(console, logFile))
	return logFile, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
