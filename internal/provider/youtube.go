package provider

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/handiism/social-transcriber/internal/model"
)

// youtube adds subtitle retrieval on top of the generic platform.
type youtube struct {
	*platform
}

func newYouTube(tool *ytdlp) Provider {
	return &youtube{newPlatform("YouTube", `(?:youtube\.com|youtu\.be)/`, tool,
		on(model.ContentVideo, `/watch\?v=|youtu\.be/|/shorts/`),
		on(model.ContentPlaylist, `/playlist\?list=`),
		on(model.ContentChannel, `/(?:@|channel/|c/)`),
	)}
}

// FetchTranscript downloads English subtitles (manual or automatic) into
// dir and returns them as plain text.
func (y *youtube) FetchTranscript(ctx context.Context, url, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, "creating %s", dir)
	}

	_, err := y.tool.run(ctx, "subtitles", url,
		"--skip-download",
		"--write-subs", "--write-auto-subs",
		"--sub-langs", "en.*,en",
		"--sub-format", "vtt",
		"--no-playlist", "--no-warnings",
		"-o", filepath.Join(dir, "subs.%(ext)s"),
	)
	if err != nil {
		return "", err
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "subs*.vtt"))
	if len(matches) == 0 {
		return "", ErrNoSubtitles
	}
	sort.Strings(matches)

	raw, err := os.ReadFile(matches[0])
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", matches[0])
	}
	text := CleanVTT(string(raw))
	if text == "" {
		return "", ErrNoSubtitles
	}
	return text, nil
}

var (
	vttHeader   = regexp.MustCompile(`^WEBVTT\b`)
	vttTiming   = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{3}\s*-->\s*\d{2}:\d{2}:\d{2}\.\d{3}`)
	vttTag      = regexp.MustCompile(`<[^>]+>`)
	vttCueID    = regexp.MustCompile(`^\d+$`)
	vttMetadata = regexp.MustCompile(`^(Kind|Language|NOTE)\b`)
)

// CleanVTT reduces a WebVTT caption file to plain text. Headers, timings,
// cue IDs and inline tags are dropped and the rolling duplicates typical of
// auto-generated captions are collapsed.
func CleanVTT(raw string) string {
	var cleaned []string
	prev := ""
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if vttHeader.MatchString(line) || vttMetadata.MatchString(line) || vttTiming.MatchString(line) {
			continue
		}
		if vttCueID.MatchString(strings.TrimSpace(line)) {
			continue
		}
		line = strings.TrimSpace(vttTag.ReplaceAllString(line, ""))
		if line == "" || line == prev {
			continue
		}
		cleaned = append(cleaned, line)
		prev = line
	}
	return strings.TrimSpace(strings.Join(cleaned, " "))
}
