// Package retry repeats failing operations on a configurable delay.
//
// The default used by the pipeline is a fixed delay with no attempt limit:
// the thread fetch and every summarization keep trying until they succeed or
// the context is cancelled. A [Policy] can instead bound attempts and grow
// the delay geometrically. Errors wrapped with [Permanent] stop the loop
// immediately; credential failures are marked this way by their callers.
package retry
