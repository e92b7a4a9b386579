package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/hoodscan/internal/cache"
	"github.com/dshills/hoodscan/internal/neighborhood"
	"github.com/dshills/hoodscan/internal/providers"
	"github.com/dshills/hoodscan/internal/redact"
	"github.com/dshills/hoodscan/internal/reddit"
	"github.com/dshills/hoodscan/internal/retry"
	"github.com/dshills/hoodscan/internal/stats"
)

// DefaultRetryDelay is the wait between failed summarization attempts.
const DefaultRetryDelay = time.Second

// Cache stores raw provider responses by key.
type Cache interface {
	Get(key string) (string, bool)
	Put(key, response string) error
}

// Summarizer asks a Generator for the pros and cons of one neighborhood at a
// time.
type Summarizer struct {
	gen         providers.Generator
	cache       Cache
	policy      retry.Policy
	audience    string
	redactPII   bool
	maxTokens   int
	temperature float64
	log         *zap.Logger
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithCache reuses responses for identical prompts across runs.
func WithCache(c Cache) Option {
	return func(s *Summarizer) { s.cache = c }
}

// WithRetryPolicy replaces the default fixed one-second, unbounded policy.
func WithRetryPolicy(p retry.Policy) Option {
	return func(s *Summarizer) { s.policy = p }
}

// WithAudience sets who the pros and cons are written for.
func WithAudience(a string) Option {
	return func(s *Summarizer) { s.audience = a }
}

// WithRedaction scrubs PII and secrets from comments before prompting.
func WithRedaction(enabled bool) Option {
	return func(s *Summarizer) { s.redactPII = enabled }
}

// WithMaxTokens bounds the provider response length.
func WithMaxTokens(n int) Option {
	return func(s *Summarizer) { s.maxTokens = n }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(s *Summarizer) { s.temperature = t }
}

// WithLogger sets the logger used for progress and retry messages.
func WithLogger(l *zap.Logger) Option {
	return func(s *Summarizer) {
		if l != nil {
			s.log = l
		}
	}
}

// New returns a Summarizer backed by gen.
func New(gen providers.Generator, opts ...Option) *Summarizer {
	s := &Summarizer{
		gen:      gen,
		policy:   retry.Fixed(DefaultRetryDelay),
		audience: DefaultAudience,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize returns the pros and cons for neighborhood drawn from comments.
// Provider failures and invalid responses are retried under the configured
// policy. Missing credentials and rejected keys end the loop at once.
func (s *Summarizer) Summarize(ctx context.Context, neighborhood string, comments []reddit.Comment) (NeighborhoodSummary, error) {
	if len(comments) == 0 {
		return NeighborhoodSummary{}, ErrNoComments
	}

	parts := BuildParts(neighborhood, s.audience, s.prepare(comments))
	key := cache.BuildKey(s.gen.Name(), s.gen.Model(), neighborhood, strings.Join(parts, "\n"))

	if s.cache != nil {
		if content, ok := s.cache.Get(key); ok {
			if summary, err := ParseSummary(content); err == nil {
				s.log.Debug("Using cached summary", zap.String("neighborhood", neighborhood))
				return summary.normalized(), nil
			}
		}
	}

	req := providers.Request{
		Parts:       parts,
		Schema:      ResponseSchema(),
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	}

	policy := s.policy
	userHook := policy.OnRetry
	policy.OnRetry = func(attempt int, err error, wait time.Duration) {
		s.log.Warn("Summarization failed, retrying",
			zap.String("neighborhood", neighborhood),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
		if userHook != nil {
			userHook(attempt, err, wait)
		}
	}

	var (
		summary NeighborhoodSummary
		content string
		attempt int
	)
	err := retry.Do(ctx, policy, func(ctx context.Context) error {
		attempt++
		resp, err := s.gen.Generate(ctx, req)
		if err != nil {
			serr := &SummarizationError{Neighborhood: neighborhood, Attempt: attempt, Err: err}
			if providers.IsFatal(err) {
				return retry.Permanent(serr)
			}
			return serr
		}
		parsed, err := ParseSummary(resp.Content)
		if err != nil {
			return &SummarizationError{Neighborhood: neighborhood, Attempt: attempt, Err: err}
		}
		summary, content = parsed, resp.Content
		return nil
	})
	if err != nil {
		return NeighborhoodSummary{}, err
	}

	if s.cache != nil {
		if err := s.cache.Put(key, content); err != nil {
			s.log.Warn("Caching summary failed", zap.String("neighborhood", neighborhood), zap.Error(err))
		}
	}
	return summary.normalized(), nil
}

// SummarizeAll summarizes every neighborhood in table order. Neighborhoods
// without mentions are skipped and absent from the result.
func (s *Summarizer) SummarizeAll(ctx context.Context, table *neighborhood.Table, records []stats.MentionRecord) (map[string]NeighborhoodSummary, error) {
	names := table.Names()
	out := make(map[string]NeighborhoodSummary, len(names))
	for i, name := range names {
		progress := fmt.Sprintf("[%d/%d]", i+1, len(names))
		comments := stats.CommentsMentioning(records, name)
		if len(comments) == 0 {
			s.log.Info(progress+" Skipping (no mentions)", zap.String("neighborhood", name))
			continue
		}

		s.log.Info(progress+" Analyzing", zap.String("neighborhood", name), zap.Int("comments", len(comments)))
		summary, err := s.Summarize(ctx, name, comments)
		if err != nil {
			if errors.Is(err, ErrNoComments) {
				continue
			}
			return nil, err
		}
		out[name] = summary
		s.log.Info(progress+" Done",
			zap.String("neighborhood", name),
			zap.Int("pros", len(summary.Pros)),
			zap.Int("cons", len(summary.Cons)),
		)
	}
	return out, nil
}

func (s *Summarizer) prepare(comments []reddit.Comment) []reddit.Comment {
	if !s.redactPII {
		return comments
	}
	out := make([]reddit.Comment, len(comments))
	for i, c := range comments {
		out[i] = reddit.Comment{Text: redact.Comment(c.Text), Upvotes: c.Upvotes}
	}
	return out
}
