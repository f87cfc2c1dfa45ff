package expand

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	ioutils "github.com/handiism/social-transcriber/internal/io"
	"github.com/handiism/social-transcriber/internal/model"
	"github.com/handiism/social-transcriber/internal/provider"
)

// DefaultMaxDepth bounds how many aggregate levels are followed below a
// source (channel -> playlist -> ... ).
const DefaultMaxDepth = 4

var (
	// ErrCycle is recorded when an aggregate is reached a second time
	// while expanding the same source.
	ErrCycle = errors.New("aggregate contains itself")

	// ErrDepthExceeded is recorded when aggregates nest deeper than the
	// configured maximum.
	ErrDepthExceeded = errors.New("aggregate nesting too deep")
)

// Resolver finds the provider for a URL.
type Resolver interface {
	Resolve(url string) (provider.Provider, bool)
}

// NoticeLevel grades a Notice.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeVerbose
	NoticeWarning
)

// Notice is a human readable expansion event.
type Notice struct {
	Level   NoticeLevel
	Message string
}

// Options configures an Engine.
type Options struct {
	// MaxItems caps children per aggregate; 0 keeps provider defaults.
	MaxItems int
	// MaxDepth bounds aggregate nesting; 0 means DefaultMaxDepth.
	MaxDepth int
	// OnNotice receives expansion events. May be nil.
	OnNotice func(Notice)
}

// Engine turns source URLs into a flat list of video jobs.
type Engine struct {
	resolver Resolver
	opts     Options
}

// NewEngine creates an Engine.
func NewEngine(resolver Resolver, opts Options) *Engine {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Engine{resolver: resolver, opts: opts}
}

// Plan is the fully materialised result of expansion.
type Plan struct {
	// Jobs holds one job per distinct video, in discovery order.
	Jobs []model.Job
	// Sources lists the distinct source URLs in input order.
	Sources []string
	// Links maps each source to the indexes of every job it expanded to,
	// including videos first claimed by an earlier source.
	Links map[string][]int
	// Issues holds expansion problems per source.
	Issues map[string][]error
}

// JobsFor returns the jobs linked to source.
func (p *Plan) JobsFor(source string) []model.Job {
	idx := p.Links[source]
	jobs := make([]model.Job, 0, len(idx))
	for _, i := range idx {
		jobs = append(jobs, p.Jobs[i])
	}
	return jobs
}

type workItem struct {
	ref    model.VideoReference
	folder model.FolderContext
	depth  int
}

// Expand walks every source depth-first with an explicit stack. Children
// are visited in listing order. Problems never abort the walk: they are
// reported through OnNotice and, when they may hide videos, recorded as
// issues of the source.
func (e *Engine) Expand(ctx context.Context, urls []string) *Plan {
	plan := &Plan{
		Links:  make(map[string][]int),
		Issues: make(map[string][]error),
	}
	claimed := make(map[string]int)  // video URL -> job index
	folders := make(map[string]bool) // parent + "\x00" + name
	seenSources := make(map[string]bool)

	for _, source := range urls {
		if seenSources[source] {
			e.notify(NoticeVerbose, "Skipping duplicate source: %s", source)
			continue
		}
		seenSources[source] = true
		plan.Sources = append(plan.Sources, source)
		e.expandSource(ctx, plan, source, claimed, folders)
	}

	return plan
}

func (e *Engine) expandSource(ctx context.Context, plan *Plan, source string, claimed map[string]int, folders map[string]bool) {
	linked := make(map[int]bool)
	visited := make(map[string]bool)
	stack := []workItem{{ref: model.VideoReference{URL: source}}}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			plan.Issues[source] = append(plan.Issues[source], err)
			return
		}

		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		url := item.ref.URL

		p, ok := e.resolver.Resolve(url)
		if !ok {
			e.notify(NoticeWarning, "No provider found for URL, skipping: %s", url)
			continue
		}

		ct := p.ContentType(url)
		switch {
		case ct == model.ContentVideo:
			idx, dup := claimed[url]
			if !dup {
				idx = len(plan.Jobs)
				claimed[url] = idx
				ref := item.ref
				ref.ContentType = ct
				plan.Jobs = append(plan.Jobs, model.Job{
					Source:  source,
					Video:   ref,
					Context: item.folder,
					Index:   idx,
				})
			}
			if !linked[idx] {
				linked[idx] = true
				plan.Links[source] = append(plan.Links[source], idx)
			}

		case ct.IsAggregate():
			if visited[url] {
				e.issue(plan, source, errors.Wrapf(ErrCycle, "%s %s", ct, url))
				continue
			}
			if item.depth >= e.opts.MaxDepth {
				e.issue(plan, source, errors.Wrapf(ErrDepthExceeded, "%s %s at depth %d", ct, url, item.depth))
				continue
			}
			visited[url] = true

			e.notify(NoticeInfo, "Expanding %s: %s", ct, url)
			meta, err := p.ListChildren(ctx, url, e.opts.MaxItems)
			if err != nil {
				e.issue(plan, source, errors.Wrapf(err, "expanding %s", ct))
				continue
			}

			title := meta.Title
			if title == "" {
				title = fmt.Sprintf("Unknown %s", ct)
			}
			name := e.folderName(folders, item.folder, title)
			folder := item.folder.Append(name)

			if len(meta.Entries) == 0 {
				e.notify(NoticeWarning, "'%s' at %s contains no videos", name, url)
				continue
			}
			e.notify(NoticeVerbose, "Found %d entries in '%s'", len(meta.Entries), name)

			for i := len(meta.Entries) - 1; i >= 0; i-- {
				stack = append(stack, workItem{
					ref:    meta.Entries[i],
					folder: folder,
					depth:  item.depth + 1,
				})
			}

		default:
			e.notify(NoticeWarning, "Skipping URL with unknown content type: %s", url)
		}
	}
}

// folderName sanitizes title and makes it unique among the folders already
// planned under the same parent.
func (e *Engine) folderName(used map[string]bool, parent model.FolderContext, title string) string {
	key := func(name string) string { return parent.String() + "\x00" + name }
	name := ioutils.UniqueName(model.SanitizeFolderName(title), func(candidate string) bool {
		return used[key(candidate)]
	})
	used[key(name)] = true
	return name
}

func (e *Engine) issue(plan *Plan, source string, err error) {
	plan.Issues[source] = append(plan.Issues[source], err)
	e.notify(NoticeWarning, "%v", err)
	logrus.WithError(err).WithField("source", source).Warn("Expansion issue")
}

func (e *Engine) notify(level NoticeLevel, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if e.opts.OnNotice != nil {
		e.opts.OnNotice(Notice{Level: level, Message: msg})
	}
	logrus.WithField("component", "expand").Debug(msg)
}
