// Package tui is the interactive front end. It collects URLs and options,
// then drives the same pipeline as the CLI while streaming its progress
// events into the view through a channel-fed command.
package tui
