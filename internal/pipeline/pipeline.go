package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/hoodscan/internal/checkpoint"
	"github.com/dshills/hoodscan/internal/neighborhood"
	"github.com/dshills/hoodscan/internal/reddit"
	"github.com/dshills/hoodscan/internal/report"
	"github.com/dshills/hoodscan/internal/retry"
	"github.com/dshills/hoodscan/internal/stats"
	"github.com/dshills/hoodscan/internal/summarize"
)

// Fetcher downloads and flattens a thread.
type Fetcher interface {
	FetchWithRetry(ctx context.Context, threadURL string, p retry.Policy) (reddit.Thread, []reddit.Comment, error)
}

// Summarizer produces pros and cons for every mentioned neighborhood.
type Summarizer interface {
	SummarizeAll(ctx context.Context, table *neighborhood.Table, records []stats.MentionRecord) (map[string]summarize.NeighborhoodSummary, error)
}

// Recorder keeps finished reports.
type Recorder interface {
	Record(ctx context.Context, r *report.Report) error
}

// Deps are the collaborators a Pipeline runs with. Fetcher, Summarizer,
// Table and Checkpoints are required.
type Deps struct {
	Fetcher     Fetcher
	FetchPolicy retry.Policy
	Summarizer  Summarizer
	Table       *neighborhood.Table
	Checkpoints *checkpoint.Store
	History     Recorder
	Logger      *zap.Logger

	// Provider and Model are copied into the report.
	Provider string
	Model    string
}

// Pipeline runs fetch, extract, aggregate, summarize and merge in order.
type Pipeline struct {
	deps Deps
	log  *zap.Logger
}

// New validates deps and returns a Pipeline.
func New(deps Deps) (*Pipeline, error) {
	var missing []error
	if deps.Fetcher == nil {
		missing = append(missing, errors.New("fetcher"))
	}
	if deps.Summarizer == nil {
		missing = append(missing, errors.New("summarizer"))
	}
	if deps.Table == nil {
		missing = append(missing, errors.New("neighborhood table"))
	}
	if deps.Checkpoints == nil {
		missing = append(missing, errors.New("checkpoint store"))
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("pipeline: missing %w", errors.Join(missing...))
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{deps: deps, log: log}, nil
}

// Run processes threadURL end to end. Each stage writes its checkpoint
// exactly once before the next stage starts.
func (p *Pipeline) Run(ctx context.Context, threadURL string) (*report.Report, error) {
	start := time.Now()
	store := p.deps.Checkpoints

	p.log.Info("Fetching Reddit comments...", zap.String("url", threadURL))
	thread, comments, err := p.deps.Fetcher.FetchWithRetry(ctx, threadURL, p.deps.FetchPolicy)
	if err != nil {
		return nil, fmt.Errorf("fetching thread: %w", err)
	}
	fetchMs := time.Since(start).Milliseconds()
	if thread.URL == "" {
		thread.URL = threadURL
	}
	p.log.Info("Fetched thread", zap.String("title", thread.Title), zap.Int("comments", len(comments)))
	if err := store.Save(checkpoint.Comments, comments); err != nil {
		return nil, err
	}

	p.log.Info("Computing neighborhood mentions...")
	records := stats.Annotate(comments, p.deps.Table)
	if err := store.Save(checkpoint.Mentions, records); err != nil {
		return nil, err
	}

	p.log.Info("Computing stats...")
	ranked := stats.Aggregate(records, p.deps.Table)
	if err := store.Save(checkpoint.Stats, ranked); err != nil {
		return nil, err
	}

	p.log.Info("Summarizing pros and cons for each neighborhood...")
	llmStart := time.Now()
	summaries, err := p.deps.Summarizer.SummarizeAll(ctx, p.deps.Table, records)
	if err != nil {
		return nil, fmt.Errorf("summarizing: %w", err)
	}
	llmMs := time.Since(llmStart).Milliseconds()
	byTable := checkpoint.Ordered[summarize.NeighborhoodSummary]{Keys: p.deps.Table.Names(), Values: summaries}
	if err := store.Save(checkpoint.ProsCons, byTable); err != nil {
		return nil, err
	}

	final := report.Merge(ranked, summaries)
	if err := store.Save(checkpoint.Final, final); err != nil {
		return nil, err
	}

	r := report.New(thread, report.InputInfo{
		Provider:      p.deps.Provider,
		Model:         p.deps.Model,
		Comments:      len(comments),
		Neighborhoods: p.deps.Table.Len(),
	}, final, report.Timing{
		FetchMs: fetchMs,
		LLMMs:   llmMs,
		TotalMs: time.Since(start).Milliseconds(),
	})

	if p.deps.History != nil {
		if err := p.deps.History.Record(ctx, r); err != nil {
			p.log.Warn("Recording run history failed", zap.Error(err))
		}
	}

	p.log.Info("Pipeline complete.", zap.String("run", r.RunID), zap.Int64("ms", r.Timing.TotalMs))
	return r, nil
}
