package summarize

import (
	"errors"
	"fmt"
	"strings"
)

// Severity is how strongly the comments corroborate a point.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Severities lists the valid severities from weakest to strongest.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh}

// SeverityRank returns a numeric rank for sorting (higher = stronger).
func SeverityRank(s Severity) int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether s is one of the declared severities.
func (s Severity) Valid() bool {
	return SeverityRank(s) > 0
}

// ProConItem is one pro or con.
type ProConItem struct {
	Name     string   `json:"name"`
	Severity Severity `json:"severity"`
}

// NeighborhoodSummary holds the pros and cons found for one neighborhood.
type NeighborhoodSummary struct {
	Pros []ProConItem `json:"pros"`
	Cons []ProConItem `json:"cons"`
}

// normalized replaces nil lists with empty ones so they encode as [].
func (s NeighborhoodSummary) normalized() NeighborhoodSummary {
	if s.Pros == nil {
		s.Pros = []ProConItem{}
	}
	if s.Cons == nil {
		s.Cons = []ProConItem{}
	}
	return s
}

// ErrNoComments is returned when a summary is requested for a neighborhood
// nobody mentioned.
var ErrNoComments = errors.New("no comments to summarize")

// ValidationError reports a provider response that does not match the
// summary schema.
type ValidationError struct {
	Problems []string
	Content  string
}

func (e *ValidationError) Error() string {
	return "response validation failed: " + strings.Join(e.Problems, "; ")
}

// SummarizationError wraps a failed attempt to summarize a neighborhood.
type SummarizationError struct {
	Neighborhood string
	Attempt      int
	Err          error
}

func (e *SummarizationError) Error() string {
	return fmt.Sprintf("summarizing %s (attempt %d): %v", e.Neighborhood, e.Attempt, e.Err)
}

func (e *SummarizationError) Unwrap() error { return e.Err }
