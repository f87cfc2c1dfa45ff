package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/handiism/social-transcriber/internal/model"
)

// Provider adapts one video platform.
type Provider interface {
	// Name is the human readable platform name.
	Name() string

	// Validate reports whether url belongs to this platform.
	Validate(url string) bool

	// ContentType classifies url from its path shape.
	ContentType(url string) model.ContentType

	// ListChildren flatly enumerates an aggregate URL. maxItems > 0 caps the
	// number of children, otherwise the platform default cap applies.
	ListChildren(ctx context.Context, url string, maxItems int) (model.Metadata, error)

	// FetchMetadata looks up a single video. Failure is carried in the
	// result rather than returned, so callers choose how to degrade.
	FetchMetadata(ctx context.Context, url string) model.MetadataResult

	// FetchAudio downloads the audio track of url into dir as <stem>.wav
	// and returns the file path.
	FetchAudio(ctx context.Context, url, dir, stem string) (string, error)
}

// TranscriptSource is implemented by providers that can hand out a ready
// made transcript, letting the caller skip audio download and
// transcription.
type TranscriptSource interface {
	FetchTranscript(ctx context.Context, url, dir string) (string, error)
}

var (
	// ErrNoAudio is returned when the download tool finished but no audio
	// file was produced.
	ErrNoAudio = errors.New("audio file was not created after download")

	// ErrNoSubtitles is returned when a platform has no usable subtitles.
	ErrNoSubtitles = errors.New("no subtitles available")

	// ErrNotAggregate is returned by ListChildren for single video URLs.
	ErrNotAggregate = errors.New("url is not a playlist, channel or profile")
)

// ToolError describes a failed external tool invocation.
type ToolError struct {
	Op     string
	URL    string
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	msg := lastLine(e.Stderr)
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.URL, msg)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
