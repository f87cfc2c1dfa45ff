// Package enhance turns raw transcripts into structured MDX documents with
// an LLM.
//
// Any OpenAI-compatible chat completion endpoint works; OpenRouter is the
// default. The model gets a system prompt describing the target document
// and a user message of the form:
//
//	<TITLE>Video title</TITLE>
//	<TRANSCRIPT>
//	raw text
//	</TRANSCRIPT>
//
// Replies are passed through CleanMDX, which drops anything before the
// frontmatter and removes stray code fences.
package enhance
