// Package expand turns the URLs a user hands in (videos, playlists,
// channels, profiles) into a flat list of video jobs.
//
// # Walk
//
// Each source is walked depth-first with an explicit stack, so nesting
// never grows the Go call stack. Every aggregate adds one sanitized folder
// name to the FolderContext of its children:
//
//	https://www.youtube.com/@creator        -> "Creator"
//	  https://www.youtube.com/playlist?...  -> "Creator/Talks"
//	    https://www.youtube.com/watch?v=... -> job in Creator/Talks
//
// Videos given directly carry an empty context and end up in "unsorted".
//
// # Guards
//
// An aggregate reached twice within one source is reported as ErrCycle
// and one nested deeper than Options.MaxDepth as ErrDepthExceeded. Listing
// failures are reported too. All of these are recorded in Plan.Issues so the
// source is kept for a later run; unknown URLs are only warned about.
//
// # Duplicates
//
// A video reached more than once gets a single job, owned by the first
// source that found it and linked to every source that lists it. Sibling
// folders with the same sanitized name are told apart by a " (n)" suffix.
package expand
