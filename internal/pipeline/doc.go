// Package pipeline wires the stages of a neighborhood analysis together.
//
// A run is strictly sequential: fetch the thread, annotate comments with
// neighborhood mentions, aggregate statistics, summarize pros and cons, and
// merge. Each stage's output is passed to the next in memory and also saved
// through the checkpoint store. The only blocking work is the thread fetch
// and the LLM calls, and both stop when the context is cancelled.
package pipeline
