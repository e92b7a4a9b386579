package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/hoodscan/internal/reddit"
	"github.com/dshills/hoodscan/internal/stats"
	"github.com/dshills/hoodscan/internal/summarize"
)

// Tool and Version identify the producer in every report.
const (
	Tool    = "hoodscan"
	Version = "1.0"
)

// FinalRecord joins one neighborhood's statistics with its pros and cons.
type FinalRecord struct {
	Neighborhood string                 `json:"neighborhood"`
	MentionCount int                    `json:"mention_count"`
	UpvoteSum    int                    `json:"upvote_sum"`
	Pros         []summarize.ProConItem `json:"pros"`
	Cons         []summarize.ProConItem `json:"cons"`
}

// Merge attaches summaries to stats, keeping the order of stats exactly.
// Neighborhoods without a summary get empty pros and cons.
func Merge(st []stats.NeighborhoodStats, summaries map[string]summarize.NeighborhoodSummary) []FinalRecord {
	out := make([]FinalRecord, 0, len(st))
	for _, s := range st {
		rec := FinalRecord{
			Neighborhood: s.Neighborhood,
			MentionCount: s.MentionCount,
			UpvoteSum:    s.UpvoteSum,
			Pros:         []summarize.ProConItem{},
			Cons:         []summarize.ProConItem{},
		}
		if sum, ok := summaries[s.Neighborhood]; ok {
			if sum.Pros != nil {
				rec.Pros = sum.Pros
			}
			if sum.Cons != nil {
				rec.Cons = sum.Cons
			}
		}
		out = append(out, rec)
	}
	return out
}

// InputInfo describes what was analyzed and with which model.
type InputInfo struct {
	Provider      string `json:"provider"`
	Model         string `json:"model"`
	Comments      int    `json:"comments"`
	Neighborhoods int    `json:"neighborhoods"`
}

// SeverityCounts holds counts by severity level.
type SeverityCounts struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

func (c *SeverityCounts) add(s summarize.Severity) {
	switch s {
	case summarize.SeverityLow:
		c.Low++
	case summarize.SeverityMedium:
		c.Medium++
	case summarize.SeverityHigh:
		c.High++
	}
}

// Summary provides an overview of the results.
type Summary struct {
	Mentioned int            `json:"mentioned"`
	Top       string         `json:"top,omitempty"`
	Pros      SeverityCounts `json:"pros"`
	Cons      SeverityCounts `json:"cons"`
}

// Timing contains performance metrics.
type Timing struct {
	FetchMs int64 `json:"fetchMs"`
	LLMMs   int64 `json:"llmMs"`
	TotalMs int64 `json:"totalMs"`
}

// Report is the top-level output structure.
type Report struct {
	Tool      string        `json:"tool"`
	Version   string        `json:"version"`
	RunID     string        `json:"runId"`
	CreatedAt time.Time     `json:"createdAt"`
	Thread    reddit.Thread `json:"thread"`
	Inputs    InputInfo     `json:"inputs"`
	Summary   Summary       `json:"summary"`
	Results   []FinalRecord `json:"results"`
	Timing    Timing        `json:"timing"`
}

// New builds a report envelope around records.
func New(thread reddit.Thread, inputs InputInfo, records []FinalRecord, timing Timing) *Report {
	if records == nil {
		records = []FinalRecord{}
	}
	return &Report{
		Tool:      Tool,
		Version:   Version,
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Thread:    thread,
		Inputs:    inputs,
		Summary:   ComputeSummary(records),
		Results:   records,
		Timing:    timing,
	}
}

// ComputeSummary calculates the summary from records. Top is the first
// mentioned neighborhood, which is the most mentioned one when records come
// from Merge.
func ComputeSummary(records []FinalRecord) Summary {
	var s Summary
	for _, r := range records {
		if r.MentionCount > 0 {
			s.Mentioned++
			if s.Top == "" {
				s.Top = r.Neighborhood
			}
		}
		for _, p := range r.Pros {
			s.Pros.add(p.Severity)
		}
		for _, c := range r.Cons {
			s.Cons.add(c.Severity)
		}
	}
	return s
}
