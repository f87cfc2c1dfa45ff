package model

import (
	"strings"
)

// ContentType classifies what a URL points to on its platform.
type ContentType string

const (
	ContentVideo    ContentType = "video"
	ContentPlaylist ContentType = "playlist"
	ContentChannel  ContentType = "channel"
	ContentProfile  ContentType = "profile"
	ContentUnknown  ContentType = "unknown"
)

// IsAggregate reports whether the content type stands for a collection of
// videos rather than a single one.
func (c ContentType) IsAggregate() bool {
	switch c {
	case ContentPlaylist, ContentChannel, ContentProfile:
		return true
	}
	return false
}

// String returns the content type name.
func (c ContentType) String() string {
	return string(c)
}

// VideoReference is a URL together with its resolved content type.
//
// Title and Uploader are filled when a flat listing already carries them,
// which saves a metadata lookup later on.
type VideoReference struct {
	URL         string
	ContentType ContentType
	Title       string
	Uploader    string
}

// Metadata describes a single video or an aggregate as reported by the
// platform. Entries is only populated for aggregates.
type Metadata struct {
	ID       string
	Title    string
	Uploader string
	Duration float64
	Entries  []VideoReference
}

// MetadataResult is the outcome of a metadata lookup. Exactly one of
// Metadata or Err is meaningful.
type MetadataResult struct {
	Metadata Metadata
	Err      error
}

// OK reports whether the lookup succeeded.
func (r MetadataResult) OK() bool {
	return r.Err == nil
}

// Resolve returns the fetched metadata, or placeholder metadata for url when
// the lookup failed. degraded is true in the placeholder case.
//
// The placeholder has an empty title and carries whatever video ID can be
// read off the URL, so file naming can still fall back to the ID template.
func (r MetadataResult) Resolve(url string) (meta Metadata, degraded bool) {
	if r.Err == nil {
		meta = r.Metadata
		if meta.ID == "" {
			meta.ID = ExtractVideoID(url)
		}
		meta.Title = strings.TrimSpace(meta.Title)
		return meta, false
	}
	return Metadata{ID: ExtractVideoID(url)}, true
}
