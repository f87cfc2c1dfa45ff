// Package ioutils provides file system utilities for social-transcriber.
//
// This package contains functions for:
//   - Reading and atomically rewriting the pending-work URL file
//   - Creating output directories and picking collision-free names
//   - Writing transcripts and cleaning up empty folders
//   - Combining per-channel transcripts into one file
//
// # Pending-work file
//
// The pending file is a plain list of URLs. Blank lines and lines starting
// with "#" are ignored when reading and preserved when rewriting:
//
//	pf, err := ioutils.OpenPendingFile("bulk.txt")
//	urls := pf.URLs()
//	// ... process ...
//	pf.Remove(map[string]bool{"https://youtu.be/abc": true})
//	err = pf.Save() // temp file + rename
//
// # Combining transcripts
//
//	combined, err := ioutils.Combine("output", "")
//	// combined["Creator"] == "output/Creator_combined.txt"
package ioutils
