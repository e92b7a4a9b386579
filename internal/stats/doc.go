// Package stats annotates comments with neighborhood mentions and aggregates
// per-neighborhood mention counts and upvote sums.
package stats
