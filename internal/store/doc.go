// Package store keeps a SQLite ledger of job outcomes in
// <output>/.transcriber.db, one row per processed video, grouped by run ID.
//
// The ledger is informational and backs the history command. It never
// causes a video to be skipped: every run processes everything it is given.
package store
