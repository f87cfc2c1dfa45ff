package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MaxFolderNameLength caps sanitized folder names, in runes.
	MaxFolderNameLength = 100
	// MaxFileNameLength caps sanitized transcript base names, in runes.
	MaxFileNameLength = 150

	minFolderNameLength = 2
)

var (
	invalidNameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots     = regexp.MustCompile(`\.+$`)
	whitespaceRun    = regexp.MustCompile(`\s+`)

	videoIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`tiktok\.com/@[^/]+/video/(\d+)`),
		regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]+)`),
		regexp.MustCompile(`youtube\.com/embed/([a-zA-Z0-9_-]+)`),
		regexp.MustCompile(`youtube\.com/v/([a-zA-Z0-9_-]+)`),
		regexp.MustCompile(`youtube\.com/shorts/([a-zA-Z0-9_-]+)`),
	}
)

// now is swapped in tests.
var now = time.Now

// SanitizeFolderName turns an arbitrary playlist or channel title into a
// single filesystem-safe path segment.
//
// Unsafe characters become underscores, whitespace runs collapse to one
// space, leading and trailing spaces, dots and underscores are trimmed and
// the result is capped at MaxFolderNameLength runes. Names shorter than two
// runes fall back to "folder_<timestamp>".
//
// Sanitizing an already sanitized name returns it unchanged.
//
// Example:
//
//	SanitizeFolderName("  Talks: 2024 / Part 1  ") // "Talks_ 2024 _ Part 1"
func SanitizeFolderName(name string) string {
	name = invalidNameChars.ReplaceAllString(name, "_")
	name = whitespaceRun.ReplaceAllString(name, " ")
	name = strings.Trim(name, " ._")
	name = truncateRunes(name, MaxFolderNameLength)
	name = strings.Trim(name, " ._")

	if utf8.RuneCountInString(name) < minFolderNameLength {
		return "folder_" + now().Format("20060102_150405")
	}
	return name
}

// SanitizeFileName removes or replaces characters that are invalid in file
// names and caps the result at MaxFileNameLength runes.
//
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Trailing dots → removed
//   - Multiple whitespace → single space
//   - Trailing whitespace → removed
func SanitizeFileName(name string) string {
	name = invalidNameChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = whitespaceRun.ReplaceAllString(name, " ")
	name = strings.TrimRight(name, " ")

	if utf8.RuneCountInString(name) > MaxFileNameLength {
		name = truncateRunes(name, MaxFileNameLength)
		name = trailingDots.ReplaceAllString(strings.TrimRight(name, " "), "")
	}
	return name
}

// TranscriptFileName picks the transcript file name for a video.
//
// The sanitized title wins. Without a usable title the video ID template
// "transcript_<id>" is used, and without an ID a unix timestamp takes its
// place. ext includes the leading dot.
func TranscriptFileName(title, videoID, ext string, at time.Time) string {
	base := SanitizeFileName(strings.TrimSpace(title))
	if strings.Trim(base, " ._") != "" {
		return base + ext
	}
	if videoID != "" && videoID != "unknown" {
		return fmt.Sprintf("transcript_%s%s", SanitizeFileName(videoID), ext)
	}
	return fmt.Sprintf("transcript_%d%s", at.Unix(), ext)
}

// ExtractVideoID reads a video ID straight off a TikTok or YouTube URL.
// It returns "" when the URL shape is not recognised.
func ExtractVideoID(url string) string {
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	return ""
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
