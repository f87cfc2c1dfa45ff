package provider

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/handiism/social-transcriber/internal/command"
	"github.com/handiism/social-transcriber/internal/model"
)

// BotDetectionMessage is the yt-dlp error text that triggers cookie
// fallback.
const BotDetectionMessage = "Sign in to confirm you're not a bot"

// DefaultCookieBrowsers is the order in which browser cookie stores are
// tried after bot detection. "zen" reads the Zen browser's Firefox profile.
var DefaultCookieBrowsers = []string{"zen", "firefox", "chrome", "safari", "edge"}

var cookieLoadFailure = regexp.MustCompile(`(?i)(could not|couldn't|failed to|unable to|unsupported).{0,60}cookie`)

// cookieSource is one authentication strategy. An empty arg means no
// cookies at all.
type cookieSource struct {
	label string
	arg   string
}

// ytdlp runs yt-dlp with throttling and cookie fallback. It is shared by
// every platform.
type ytdlp struct {
	runner  command.Runner
	binary  string
	limiter *rate.Limiter
	cookies []cookieSource
}

func newYtDlp(opts Options) *ytdlp {
	return &ytdlp{
		runner:  opts.Runner,
		binary:  opts.Binary,
		limiter: opts.Limiter,
		cookies: cookieSources(opts.CookieBrowsers, opts.ZenProfilesDir),
	}
}

// cookieSources expands browser names into yt-dlp --cookies-from-browser
// values, always ending with the unauthenticated strategy. zen is skipped
// when no Zen profile exists.
func cookieSources(browsers []string, zenDir string) []cookieSource {
	var sources []cookieSource
	for _, b := range browsers {
		if b == "zen" {
			profile := firstProfile(zenDir)
			if profile == "" {
				logrus.WithField("dir", zenDir).Debug("Zen browser profile not found, skipping")
				continue
			}
			sources = append(sources, cookieSource{label: "zen", arg: "firefox:" + profile})
			continue
		}
		sources = append(sources, cookieSource{label: b, arg: b})
	}
	return append(sources, cookieSource{label: "no cookies"})
}

func firstProfile(dir string) string {
	if dir == "" {
		return ""
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return filepath.Join(dir, names[0])
}

// run invokes yt-dlp for url, walking the cookie strategies when the
// platform asks for a sign-in or a browser cookie store cannot be read.
// Each call starts from the first strategy; no state is shared between
// concurrent calls.
func (y *ytdlp) run(ctx context.Context, op, url string, args ...string) (command.Result, error) {
	var (
		res     command.Result
		lastErr error
	)

	for i, cookie := range y.cookies {
		if y.limiter != nil {
			if err := y.limiter.Wait(ctx); err != nil {
				return res, errors.Wrap(err, op)
			}
		}

		full := make([]string, 0, len(args)+3)
		if cookie.arg != "" {
			full = append(full, "--cookies-from-browser", cookie.arg)
		}
		full = append(full, args...)
		full = append(full, url)

		var err error
		res, err = y.runner.Run(ctx, y.binary, full...)
		if err == nil {
			return res, nil
		}
		if ctx.Err() != nil {
			return res, ctx.Err()
		}

		lastErr = &ToolError{Op: op, URL: url, Stderr: res.Stderr, Err: err}
		if i == len(y.cookies)-1 || !shouldTryNextCookie(res.Stderr, cookie) {
			return res, lastErr
		}

		logrus.WithFields(logrus.Fields{
			"op":      op,
			"url":     url,
			"cookies": cookie.label,
			"next":    y.cookies[i+1].label,
		}).Warn("yt-dlp needs authentication, trying next cookie source")
	}

	return res, lastErr
}

func shouldTryNextCookie(stderr string, current cookieSource) bool {
	if strings.Contains(stderr, BotDetectionMessage) {
		return true
	}
	return current.arg != "" && cookieLoadFailure.MatchString(stderr)
}

// info is the subset of yt-dlp's JSON output that the providers use.
type info struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Uploader      string  `json:"uploader"`
	Channel       string  `json:"channel"`
	PlaylistTitle string  `json:"playlist_title"`
	Duration      float64 `json:"duration"`
	WebpageURL    string  `json:"webpage_url"`
	URL           string  `json:"url"`
	Entries       []*info `json:"entries"`
}

func (i *info) uploader() string {
	if i.Uploader != "" {
		return i.Uploader
	}
	return i.Channel
}

func (i *info) title() string {
	if i.Title != "" {
		return i.Title
	}
	return i.PlaylistTitle
}

func parseInfo(stdout string) (*info, error) {
	var out info
	if err := json.Unmarshal([]byte(strings.TrimSpace(stdout)), &out); err != nil {
		return nil, errors.Wrap(err, "decoding yt-dlp output")
	}
	return &out, nil
}

func (y *ytdlp) listChildren(ctx context.Context, url string, limit int) (model.Metadata, error) {
	args := []string{"--flat-playlist", "--dump-single-json", "--no-warnings"}
	if limit > 0 {
		args = append(args, "--playlist-end", strconv.Itoa(limit))
	}

	res, err := y.run(ctx, "list", url, args...)
	if err != nil {
		return model.Metadata{}, err
	}
	parsed, err := parseInfo(res.Stdout)
	if err != nil {
		return model.Metadata{}, &ToolError{Op: "list", URL: url, Err: err}
	}

	meta := model.Metadata{
		ID:       parsed.ID,
		Title:    parsed.title(),
		Uploader: parsed.uploader(),
	}
	for _, entry := range parsed.Entries {
		if entry == nil {
			continue
		}
		childURL := entry.WebpageURL
		if childURL == "" {
			childURL = entry.URL
		}
		if !isAbsoluteURL(childURL) {
			logrus.WithFields(logrus.Fields{"parent": url, "id": entry.ID}).Debug("Skipping entry without URL")
			continue
		}
		meta.Entries = append(meta.Entries, model.VideoReference{
			URL:      childURL,
			Title:    entry.Title,
			Uploader: entry.uploader(),
		})
		if limit > 0 && len(meta.Entries) == limit {
			break
		}
	}
	return meta, nil
}

func (y *ytdlp) fetchMetadata(ctx context.Context, url string) model.MetadataResult {
	res, err := y.run(ctx, "metadata", url, "--dump-json", "--no-playlist", "--skip-download", "--no-warnings")
	if err != nil {
		return model.MetadataResult{Err: err}
	}
	parsed, err := parseInfo(res.Stdout)
	if err != nil {
		return model.MetadataResult{Err: &ToolError{Op: "metadata", URL: url, Err: err}}
	}
	return model.MetadataResult{Metadata: model.Metadata{
		ID:       parsed.ID,
		Title:    parsed.Title,
		Uploader: parsed.uploader(),
		Duration: parsed.Duration,
	}}
}

func (y *ytdlp) fetchAudio(ctx context.Context, url, dir, stem string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, "creating %s", dir)
	}

	template := filepath.Join(dir, stem+".%(ext)s")
	_, err := y.run(ctx, "download", url,
		"-f", "bestaudio/best",
		"-x", "--audio-format", "wav",
		"--no-playlist", "--no-warnings", "--no-progress",
		"-o", template,
	)
	if err != nil {
		return "", err
	}

	expected := filepath.Join(dir, stem+".wav")
	if _, err := os.Stat(expected); err == nil {
		return expected, nil
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "*.wav"))
	if len(matches) > 0 {
		sort.Strings(matches)
		return matches[0], nil
	}
	return "", &ToolError{Op: "download", URL: url, Err: ErrNoAudio}
}

func isAbsoluteURL(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}
