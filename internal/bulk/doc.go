// Package bulk runs batches of source URLs through the transcription
// pipeline.
//
// # Flow
//
//	m := bulk.NewManager(settings, bulk.Deps{
//	    Registry:    provider.NewRegistry(opts),
//	    Transcriber: transcribe.New(settings, runner),
//	}, onProgress)
//	report := m.Process(ctx, urls)
//	bulk.UpdatePendingFile(pending, report)
//
// Process expands the sources (see package expand) and hands every job to a
// bounded worker pool. Each worker resolves the provider, looks up
// metadata, obtains text (platform subtitles or downloaded audio fed to the
// transcriber), optionally enhances it and writes the transcript into the
// job's folder. Scratch files live in a per-job directory that is always
// removed.
//
// # Progress
//
// Workers never call the progress callback themselves. They send events on
// a channel drained by one consumer goroutine, which also owns the
// completion counter and the ledger. One event with Done set is emitted per
// finished job.
//
// # Pending sources
//
// A source is complete when every job it expanded to succeeded and its
// expansion met no issue. UpdatePendingFile removes exactly the complete
// sources, once, after the run.
package bulk
