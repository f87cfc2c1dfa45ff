package model

import (
	"path/filepath"
	"strings"
	"time"
)

// UnsortedDir is the folder used for videos that were not discovered
// through any playlist, channel or profile.
const UnsortedDir = "unsorted"

// FolderContext is the breadcrumb of sanitized folder names under which a
// video was discovered. The zero value is the empty, top-level context.
//
// FolderContext values are never mutated in place; Append returns a copy so
// sibling branches of an expansion cannot see each other's segments.
type FolderContext struct {
	segments []string
}

// NewFolderContext builds a context from already sanitized segments.
func NewFolderContext(segments ...string) FolderContext {
	if len(segments) == 0 {
		return FolderContext{}
	}
	return FolderContext{segments: append([]string(nil), segments...)}
}

// Append returns a new context with name added as the innermost segment.
// The caller is expected to pass a sanitized name.
func (c FolderContext) Append(name string) FolderContext {
	segments := make([]string, len(c.segments), len(c.segments)+1)
	copy(segments, c.segments)
	return FolderContext{segments: append(segments, name)}
}

// IsEmpty reports whether the context has no segments.
func (c FolderContext) IsEmpty() bool {
	return len(c.segments) == 0
}

// Path resolves the output directory for this context below root.
// An empty context maps to root/unsorted.
func (c FolderContext) Path(root string) string {
	if c.IsEmpty() {
		return filepath.Join(root, UnsortedDir)
	}
	return filepath.Join(append([]string{root}, c.segments...)...)
}

// String joins the segments with "/".
func (c FolderContext) String() string {
	return strings.Join(c.segments, "/")
}

// Job is one unit of work: a single video and the folder it belongs in.
// Source is the top-level URL the video was expanded from.
type Job struct {
	Source  string
	Video   VideoReference
	Context FolderContext
	Index   int
}

// JobResult is the outcome of processing one Job.
type JobResult struct {
	Job      Job
	Path     string
	Err      error
	Duration time.Duration
}

// Succeeded reports whether the job produced a transcript.
func (r JobResult) Succeeded() bool {
	return r.Err == nil && r.Path != ""
}

// SourceResult aggregates every job expanded from one source URL, plus any
// problems met while expanding it.
type SourceResult struct {
	Source  string
	Results []JobResult
	Issues  []error
}

// Succeeded counts successful jobs.
func (s *SourceResult) Succeeded() int {
	n := 0
	for _, r := range s.Results {
		if r.Succeeded() {
			n++
		}
	}
	return n
}

// Failed counts failed jobs.
func (s *SourceResult) Failed() int {
	return len(s.Results) - s.Succeeded()
}

// Complete reports whether the source is fully processed: it expanded to at
// least one job, every job succeeded and expansion raised no issue.
func (s *SourceResult) Complete() bool {
	if s == nil || len(s.Results) == 0 || len(s.Issues) > 0 {
		return false
	}
	return s.Failed() == 0
}
