package provider

import (
	"context"
	"regexp"

	"github.com/handiism/social-transcriber/internal/model"
)

// Default children caps for unbounded feeds. Playlists are finite and are
// listed in full.
const (
	DefaultChannelCap = 10
	DefaultProfileCap = 20
)

// rule maps a URL shape to a content type. Rules are checked in order and
// the first match wins.
type rule struct {
	contentType model.ContentType
	pattern     *regexp.Regexp
}

func on(ct model.ContentType, pattern string) rule {
	return rule{contentType: ct, pattern: regexp.MustCompile(pattern)}
}

// platform is a regex driven Provider backed by yt-dlp.
type platform struct {
	name   string
	domain *regexp.Regexp
	rules  []rule
	caps   map[model.ContentType]int
	tool   *ytdlp
}

func newPlatform(name, domain string, tool *ytdlp, rules ...rule) *platform {
	return &platform{
		name: name,
		// Anchored so that e.g. "netflix.com/" never passes for x.com.
		domain: regexp.MustCompile(`^(?:https?://)?(?:[a-zA-Z0-9-]+\.)*` + domain),
		rules:  rules,
		caps: map[model.ContentType]int{
			model.ContentChannel: DefaultChannelCap,
			model.ContentProfile: DefaultProfileCap,
		},
		tool: tool,
	}
}

func (p *platform) Name() string {
	return p.name
}

func (p *platform) Validate(url string) bool {
	return p.domain.MatchString(url)
}

func (p *platform) ContentType(url string) model.ContentType {
	for _, r := range p.rules {
		if r.pattern.MatchString(url) {
			return r.contentType
		}
	}
	return model.ContentUnknown
}

func (p *platform) ListChildren(ctx context.Context, url string, maxItems int) (model.Metadata, error) {
	ct := p.ContentType(url)
	if !ct.IsAggregate() {
		return model.Metadata{}, &ToolError{Op: "list", URL: url, Err: ErrNotAggregate}
	}

	limit := p.caps[ct]
	if maxItems > 0 {
		limit = maxItems
	}

	meta, err := p.tool.listChildren(ctx, url, limit)
	if err != nil {
		return meta, err
	}
	for i := range meta.Entries {
		meta.Entries[i].ContentType = p.ContentType(meta.Entries[i].URL)
	}
	return meta, nil
}

func (p *platform) FetchMetadata(ctx context.Context, url string) model.MetadataResult {
	return p.tool.fetchMetadata(ctx, url)
}

func (p *platform) FetchAudio(ctx context.Context, url, dir, stem string) (string, error) {
	return p.tool.fetchAudio(ctx, url, dir, stem)
}

func newTikTok(tool *ytdlp) Provider {
	return newPlatform("TikTok", `tiktok\.com/`, tool,
		on(model.ContentVideo, `/video/`),
		on(model.ContentProfile, `/@`),
	)
}

func newFacebook(tool *ytdlp) Provider {
	return newPlatform("Facebook", `(?:facebook\.com|fb\.watch)/`, tool,
		on(model.ContentVideo, `/(?:videos|watch|reel)/|fb\.watch/`),
		on(model.ContentProfile, `facebook\.com/[a-zA-Z0-9._-]+/?$`),
	)
}

func newInstagram(tool *ytdlp) Provider {
	return newPlatform("Instagram", `instagram\.com/`, tool,
		on(model.ContentVideo, `/(?:p|reel|tv|stories)/`),
		on(model.ContentProfile, `instagram\.com/[a-zA-Z0-9._]+/?$`),
	)
}

func newReddit(tool *ytdlp) Provider {
	return newPlatform("Reddit", `reddit\.com/`, tool,
		on(model.ContentVideo, `/comments/`),
		on(model.ContentPlaylist, `/r/[a-zA-Z0-9_]+/?$`),
		on(model.ContentProfile, `/user/[a-zA-Z0-9_-]+/?$`),
	)
}

func newTwitch(tool *ytdlp) Provider {
	return newPlatform("Twitch", `twitch\.tv/`, tool,
		on(model.ContentVideo, `/(?:videos|clip)/|clips\.twitch\.tv/`),
		on(model.ContentChannel, `twitch\.tv/[a-zA-Z0-9_]+/?$`),
	)
}

func newVimeo(tool *ytdlp) Provider {
	return newPlatform("Vimeo", `vimeo\.com/`, tool,
		on(model.ContentVideo, `vimeo\.com/\d+/?$`),
		on(model.ContentPlaylist, `/(?:channels|showcase)/`),
		on(model.ContentProfile, `vimeo\.com/[a-zA-Z][a-zA-Z0-9_-]+/?$`),
	)
}

func newX(tool *ytdlp) Provider {
	return newPlatform("X (Twitter)", `(?:twitter|x)\.com/`, tool,
		on(model.ContentVideo, `/status/`),
		on(model.ContentProfile, `\.com/[a-zA-Z0-9_]+/?$`),
	)
}
