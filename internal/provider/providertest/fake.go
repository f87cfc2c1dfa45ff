// Package providertest provides an in-memory provider for tests of code
// that consumes the provider package.
package providertest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/handiism/social-transcriber/internal/model"
	"github.com/handiism/social-transcriber/internal/provider"
)

// Fake is a scripted provider. URLs containing Domain are accepted; their
// content type, listings and metadata come from the maps. All methods are
// safe for concurrent use.
type Fake struct {
	Domain string

	Types    map[string]model.ContentType
	Listings map[string]model.Metadata
	ListErrs map[string]error
	Meta     map[string]model.Metadata

	// AudioFailures makes FetchAudio fail that many times per URL before
	// succeeding. A negative count fails forever.
	AudioFailures map[string]int

	// Transcripts holds platform transcripts by URL.
	Transcripts map[string]string

	mu         sync.Mutex
	listCalls  []string
	audioCalls map[string]int
}

var _ provider.Provider = (*Fake)(nil)
var _ provider.TranscriptSource = (*Fake)(nil)

// New returns an empty Fake accepting URLs that contain domain.
func New(domain string) *Fake {
	return &Fake{
		Domain:        domain,
		Types:         make(map[string]model.ContentType),
		Listings:      make(map[string]model.Metadata),
		ListErrs:      make(map[string]error),
		Meta:          make(map[string]model.Metadata),
		AudioFailures: make(map[string]int),
		Transcripts:   make(map[string]string),
	}
}

// Video registers a single video URL with a title.
func (f *Fake) Video(url, title string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Types[url] = model.ContentVideo
	f.Meta[url] = model.Metadata{ID: lastSegment(url), Title: title, Uploader: "uploader"}
	return f
}

// Aggregate registers an aggregate URL listing children.
func (f *Fake) Aggregate(url string, ct model.ContentType, title string, children ...string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Types[url] = ct
	meta := model.Metadata{Title: title}
	for _, child := range children {
		meta.Entries = append(meta.Entries, model.VideoReference{URL: child, ContentType: f.Types[child]})
	}
	f.Listings[url] = meta
	return f
}

func (f *Fake) Name() string { return "Fake" }

func (f *Fake) Validate(url string) bool {
	return strings.Contains(url, f.Domain)
}

func (f *Fake) ContentType(url string) model.ContentType {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ct, ok := f.Types[url]; ok {
		return ct
	}
	return model.ContentUnknown
}

func (f *Fake) ListChildren(_ context.Context, url string, maxItems int) (model.Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls = append(f.listCalls, url)
	if err := f.ListErrs[url]; err != nil {
		return model.Metadata{}, err
	}
	meta, ok := f.Listings[url]
	if !ok {
		return model.Metadata{}, provider.ErrNotAggregate
	}
	if maxItems > 0 && len(meta.Entries) > maxItems {
		meta.Entries = meta.Entries[:maxItems]
	}
	return meta, nil
}

func (f *Fake) FetchMetadata(_ context.Context, url string) model.MetadataResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	meta, ok := f.Meta[url]
	if !ok {
		return model.MetadataResult{Err: errors.Errorf("metadata %s: not found", url)}
	}
	return model.MetadataResult{Metadata: meta}
}

func (f *Fake) FetchAudio(_ context.Context, url, dir, stem string) (string, error) {
	f.mu.Lock()
	if f.audioCalls == nil {
		f.audioCalls = make(map[string]int)
	}
	f.audioCalls[url]++
	calls := f.audioCalls[url]
	failures := f.AudioFailures[url]
	f.mu.Unlock()

	if failures < 0 || calls <= failures {
		return "", &provider.ToolError{Op: "audio", URL: url, Stderr: "ERROR: download failed", Err: errors.New("exit status 1")}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	// The file carries the URL so fake transcribers can tell videos apart.
	path := filepath.Join(dir, stem+".wav")
	if err := os.WriteFile(path, []byte(url), 0644); err != nil {
		return "", err
	}
	return path, nil
}

func (f *Fake) FetchTranscript(_ context.Context, url, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if text, ok := f.Transcripts[url]; ok {
		return text, nil
	}
	return "", provider.ErrNoSubtitles
}

// ListCalls returns the URLs passed to ListChildren, in call order.
func (f *Fake) ListCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.listCalls...)
}

// AudioCalls returns how often FetchAudio was called for url.
func (f *Fake) AudioCalls(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.audioCalls[url]
}

func lastSegment(url string) string {
	url = strings.TrimRight(url, "/")
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}
