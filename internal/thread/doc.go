// Package thread turns a transcript into a short-post thread file.
//
// The text is whitespace-normalised, split into sentences and packed into
// posts of at most MaxPostLength runes. The file starts with a topic line:
//
//	Topic: How we scaled the ingest pipeline
//
//	Thread 1:
//	First sentence. Second sentence.
//
//	Thread 2:
//	...
//
// Thread files carry the ".thread.txt" suffix so transcript tooling such as
// combine can tell them apart from transcripts.
package thread
