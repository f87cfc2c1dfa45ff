package provider

import (
	"os"
	"path/filepath"

	"golang.org/x/time/rate"

	"github.com/handiism/social-transcriber/internal/command"
)

// Options configures the providers built by NewRegistry.
type Options struct {
	// Runner executes yt-dlp. Defaults to command.ExecRunner.
	Runner command.Runner
	// Binary is the yt-dlp executable. Defaults to "yt-dlp".
	Binary string
	// Limiter throttles yt-dlp invocations across all providers. nil
	// disables throttling.
	Limiter *rate.Limiter
	// CookieBrowsers lists browser cookie stores to fall back to on bot
	// detection. nil means DefaultCookieBrowsers; an empty slice disables
	// cookie fallback.
	CookieBrowsers []string
	// ZenProfilesDir holds Zen browser profiles. Defaults to the macOS
	// location under the home directory.
	ZenProfilesDir string
}

// Registry is a fixed, ordered list of providers. The first provider whose
// Validate accepts a URL owns it.
type Registry struct {
	providers []Provider
}

// NewRegistry builds the registry of every supported platform.
func NewRegistry(opts Options) *Registry {
	if opts.Runner == nil {
		opts.Runner = &command.ExecRunner{}
	}
	if opts.Binary == "" {
		opts.Binary = "yt-dlp"
	}
	if opts.CookieBrowsers == nil {
		opts.CookieBrowsers = DefaultCookieBrowsers
	}
	if opts.ZenProfilesDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			opts.ZenProfilesDir = filepath.Join(home, "Library", "Application Support", "zen", "Profiles")
		}
	}

	tool := newYtDlp(opts)
	return NewRegistryOf(
		newTikTok(tool),
		newYouTube(tool),
		newFacebook(tool),
		newInstagram(tool),
		newReddit(tool),
		newTwitch(tool),
		newVimeo(tool),
		newX(tool),
	)
}

// NewRegistryOf builds a registry from explicit providers, in order.
func NewRegistryOf(providers ...Provider) *Registry {
	return &Registry{providers: append([]Provider(nil), providers...)}
}

// Resolve returns the provider that owns url.
func (r *Registry) Resolve(url string) (Provider, bool) {
	for _, p := range r.providers {
		if p.Validate(url) {
			return p, true
		}
	}
	return nil, false
}
