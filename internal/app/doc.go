// Package app assembles the transcription pipeline from settings: tool
// checks, the provider registry with its yt-dlp rate limiter, the
// transcriber, the optional LLM enhancer and the run ledger. Both front ends
// build their bulk.Manager through New.
package app
