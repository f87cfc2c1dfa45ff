// Package cli implements the social-transcriber command line.
//
// The root command behaves like "run", so both of these work:
//
//	social-transcriber https://youtu.be/abc
//	social-transcriber run -f bulk.txt --enhance
//
// Execute maps outcomes to exit codes: 1 for configuration errors and a
// failed single-video run, 130 when interrupted, 0 otherwise.
package cli
