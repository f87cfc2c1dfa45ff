// Package model defines the core data structures shared by the expansion
// engine, the providers and the bulk orchestrator.
//
// # Videos and aggregates
//
// A VideoReference pairs a URL with its ContentType. Playlists, channels and
// profiles are aggregates and are expanded into individual videos:
//
//	ref := model.VideoReference{URL: u, ContentType: model.ContentChannel}
//	ref.ContentType.IsAggregate() // true
//
// # Metadata fallback
//
// Metadata lookups return a MetadataResult. Resolve turns a failed lookup
// into placeholder metadata explicitly instead of hiding it behind an error:
//
//	meta, degraded := result.Resolve(url)
//	if degraded {
//	    log.Warn("using placeholder metadata")
//	}
//
// # Jobs
//
// A Job is one video plus the FolderContext it was discovered under.
// FolderContext.Path maps the breadcrumb onto the output tree:
//
//	ctx := model.FolderContext{}.Append("Creator").Append("Talks")
//	ctx.Path("output") // "output/Creator/Talks"
//	model.FolderContext{}.Path("output") // "output/unsorted"
//
// # Naming
//
// SanitizeFolderName, SanitizeFileName and TranscriptFileName implement the
// naming rules for folders and transcript files.
package model
