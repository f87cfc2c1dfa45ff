package model

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-file", "normal-file"},
		{"file:with:colons", "file_with_colons"},
		{"file<with>brackets", "file_with_brackets"},
		{"file/with\\slashes", "file_with_slashes"},
		{"file|with|pipes", "file_with_pipes"},
		{"file?with*wildcards", "file_with_wildcards"},
		{"file\"with\"quotes", "file_with_quotes"},
		{"trailing dots...", "trailing dots"},
		{"multiple   spaces", "multiple spaces"},
		{"trailing spaces   ", "trailing spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SanitizeFileName(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeFileName_Truncates(t *testing.T) {
	got := SanitizeFileName(strings.Repeat("é", MaxFileNameLength+20))
	assert.Equal(t, MaxFileNameLength, len([]rune(got)))
}

func TestSanitizeFolderName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Creator Channel", "Creator Channel"},
		{"  Talks: 2024 / Part 1  ", "Talks_ 2024 _ Part 1"},
		{"<Best Of>", "Best Of"},
		{"tabs\tand\nnewlines", "tabs_and_newlines"},
		{"many    inner   spaces", "many inner spaces"},
		{"...dotted...", "dotted"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SanitizeFolderName(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeFolderName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeFolderName_Idempotent(t *testing.T) {
	inputs := []string{
		"Creator Channel",
		"  Talks: 2024 / Part 1  ",
		"a?b*c|d",
		strings.Repeat("long title ", 30),
		"emoji 🎬 clips ",
		"x",
	}

	for _, input := range inputs {
		once := SanitizeFolderName(input)
		twice := SanitizeFolderName(once)
		assert.Equal(t, once, twice, "input %q", input)
		assert.LessOrEqual(t, len([]rune(once)), MaxFolderNameLength)
	}
}

func TestSanitizeFolderName_DegenerateFallsBackToTimestamp(t *testing.T) {
	fixed := time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)
	now = func() time.Time { return fixed }
	defer func() { now = time.Now }()

	for _, input := range []string{"", "   ", "?", "...", "_"} {
		assert.Equal(t, "folder_20240309_140506", SanitizeFolderName(input), "input %q", input)
	}
}

func TestTranscriptFileName(t *testing.T) {
	at := time.Unix(1700000000, 0)
	tests := []struct {
		name    string
		title   string
		videoID string
		want    string
	}{
		{"title wins", "My Video: Intro", "abc", "My Video_ Intro.txt"},
		{"id fallback", "", "abc123", "transcript_abc123.txt"},
		{"blank title", "   ", "abc123", "transcript_abc123.txt"},
		{"unknown id", "", "unknown", "transcript_1700000000.txt"},
		{"nothing", "", "", "transcript_1700000000.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TranscriptFileName(tt.title, tt.videoID, ".txt", at))
		})
	}
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.tiktok.com/@creator/video/7234567890123456789", "7234567890123456789"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/shorts/abc_DEF-12", "abc_DEF-12"},
		{"https://vimeo.com/123456", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractVideoID(tt.url))
		})
	}
}

func TestFolderContext(t *testing.T) {
	root := FolderContext{}
	assert.True(t, root.IsEmpty())
	assert.Equal(t, "output/unsorted", root.Path("output"))

	channel := root.Append("Creator")
	a := channel.Append("Playlist A")
	b := channel.Append("Playlist B")

	assert.Equal(t, "output/Creator/Playlist A", a.Path("output"))
	assert.Equal(t, "output/Creator", channel.Path("output"))
	assert.Equal(t, "Creator/Playlist A", a.String(), "siblings must not share a backing array")
	assert.Equal(t, "Creator/Playlist B", b.String())
}

func TestMetadataResult_Resolve(t *testing.T) {
	url := "https://youtu.be/dQw4w9WgXcQ"

	ok := MetadataResult{Metadata: Metadata{Title: "  Song  "}}
	meta, degraded := ok.Resolve(url)
	assert.False(t, degraded)
	assert.Equal(t, "Song", meta.Title)
	assert.Equal(t, "dQw4w9WgXcQ", meta.ID)

	failed := MetadataResult{Err: errors.New("boom")}
	meta, degraded = failed.Resolve(url)
	assert.True(t, degraded)
	assert.Empty(t, meta.Title)
	assert.Equal(t, "dQw4w9WgXcQ", meta.ID)
}

func TestSourceResult_Complete(t *testing.T) {
	ok := JobResult{Path: "a.txt"}
	bad := JobResult{Err: errors.New("transcription failed")}

	tests := []struct {
		name   string
		result *SourceResult
		want   bool
	}{
		{"all succeeded", &SourceResult{Results: []JobResult{ok, ok}}, true},
		{"partial", &SourceResult{Results: []JobResult{ok, ok, bad}}, false},
		{"no jobs", &SourceResult{}, false},
		{"expansion issue", &SourceResult{Results: []JobResult{ok}, Issues: []error{errors.New("cycle")}}, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.Complete())
		})
	}
}
