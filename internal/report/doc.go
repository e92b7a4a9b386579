// Package report merges neighborhood statistics with LLM summaries into the
// final analysis and wraps it in a run envelope.
//
// [Merge] is a pure join. It never reorders, so the result follows the
// statistics ranking, and a neighborhood without a summary always carries
// empty (never null) pros and cons.
package report
