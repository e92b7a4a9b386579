package summarize

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/dshills/hoodscan/internal/neighborhood"
	"github.com/dshills/hoodscan/internal/providers"
	"github.com/dshills/hoodscan/internal/reddit"
	"github.com/dshills/hoodscan/internal/retry"
	"github.com/dshills/hoodscan/internal/stats"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

// scriptedGenerator replays responses in order and records requests.
type scriptedGenerator struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	requests  []providers.Request
}

func (g *scriptedGenerator) Name() string  { return "fake" }
func (g *scriptedGenerator) Model() string { return "fake-1" }

func (g *scriptedGenerator) Generate(_ context.Context, req providers.Request) (providers.Response, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := len(g.requests)
	g.requests = append(g.requests, req)
	if i < len(g.errs) && g.errs[i] != nil {
		return providers.Response{}, g.errs[i]
	}
	if i >= len(g.responses) {
		return providers.Response{Content: g.responses[len(g.responses)-1]}, nil
	}
	return providers.Response{Content: g.responses[i]}, nil
}

func (g *scriptedGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.requests)
}

type memCache struct {
	m map[string]string
}

func (c *memCache) Get(key string) (string, bool) {
	v, ok := c.m[key]
	return v, ok
}

func (c *memCache) Put(key, response string) error {
	c.m[key] = response
	return nil
}

var fastRetry = retry.Fixed(time.Millisecond)

const validResponse = `{"pros":[{"name":"Walkable","severity":"high"}],"cons":[{"name":"Expensive","severity":"medium"}]}`

func TestSeverityRank(t *testing.T) {
	tests := []struct {
		sev  Severity
		want int
	}{
		{SeverityHigh, 3},
		{SeverityMedium, 2},
		{SeverityLow, 1},
		{"HIGH", 0},
		{"critical", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := SeverityRank(tt.sev); got != tt.want {
			t.Errorf("SeverityRank(%q) = %d, want %d", tt.sev, got, tt.want)
		}
	}
}

func TestParseSummary_Valid(t *testing.T) {
	got, err := ParseSummary(validResponse)
	require.NoError(t, err)
	assert.Equal(t, []ProConItem{{Name: "Walkable", Severity: SeverityHigh}}, got.Pros)
	assert.Equal(t, []ProConItem{{Name: "Expensive", Severity: SeverityMedium}}, got.Cons)
}

func TestParseSummary_EmptyLists(t *testing.T) {
	got, err := ParseSummary(`{"pros":[],"cons":[]}`)
	require.NoError(t, err)
	assert.NotNil(t, got.Pros)
	assert.NotNil(t, got.Cons)
	assert.Empty(t, got.Pros)
	assert.Empty(t, got.Cons)
}

func TestParseSummary_OmittedListsAreEmpty(t *testing.T) {
	got, err := ParseSummary(`{"pros":[{"name":"near the beach","severity":"high"}]}`)
	require.NoError(t, err)
	assert.Equal(t, []ProConItem{{Name: "near the beach", Severity: SeverityHigh}}, got.Pros)
	assert.NotNil(t, got.Cons)
	assert.Empty(t, got.Cons)

	got, err = ParseSummary(`{}`)
	require.NoError(t, err)
	assert.NotNil(t, got.Pros)
	assert.NotNil(t, got.Cons)
}

func TestParseSummary_MarkdownFences(t *testing.T) {
	got, err := ParseSummary("```json\n" + validResponse + "\n```")
	require.NoError(t, err)
	assert.Len(t, got.Pros, 1)
}

func TestParseSummary_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "Venice is nice"},
		{"array", `[{"name":"x","severity":"low"}]`},
		{"null cons", `{"pros":[],"cons":null}`},
		{"bad severity", `{"pros":[{"name":"x","severity":"critical"}],"cons":[]}`},
		{"uppercase severity", `{"pros":[{"name":"x","severity":"High"}],"cons":[]}`},
		{"missing severity", `{"pros":[{"name":"x"}],"cons":[]}`},
		{"blank name", `{"pros":[{"name":"  ","severity":"low"}],"cons":[]}`},
		{"unknown field", `{"pros":[],"cons":[],"verdict":"great"}`},
		{"unknown item field", `{"pros":[{"name":"x","severity":"low","score":3}],"cons":[]}`},
		{"trailing data", `{"pros":[],"cons":[]} {"pros":[],"cons":[]}`},
		{"pros not array", `{"pros":"many","cons":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSummary(tt.content)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.content, verr.Content)
		})
	}
}

func TestBuildParts(t *testing.T) {
	comments := []reddit.Comment{
		{Text: "Venice is fun\nbut loud", Upvotes: 12},
		{Text: "", Upvotes: 0},
	}
	parts := BuildParts("Venice", "", comments)
	require.Len(t, parts, 3)

	assert.Contains(t, parts[0], "'Venice'")
	assert.Contains(t, parts[1], DefaultAudience)
	assert.Contains(t, parts[1], "low, medium, high")
	assert.Equal(t, "Comments (each with upvotes):\n- Venice is fun but loud (upvotes: 12)\n-  (upvotes: 0)", parts[2])

	custom := BuildParts("Venice", "a family of four", nil)
	assert.Contains(t, custom[1], "a family of four")
	assert.NotContains(t, custom[1], DefaultAudience)
}

func TestResponseSchema(t *testing.T) {
	s := ResponseSchema()
	assert.Equal(t, []string{"pros", "cons"}, s.Required)
	item := s.Properties["pros"].Items
	require.NotNil(t, item)
	assert.Equal(t, []string{"low", "medium", "high"}, item.Properties["severity"].Enum)
	assert.Same(t, item, s.Properties["cons"].Items)
}

func TestSummarize_NoComments(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{validResponse}}
	_, err := New(gen).Summarize(context.Background(), "Venice", nil)
	assert.ErrorIs(t, err, ErrNoComments)
	assert.Zero(t, gen.calls())
}

func TestSummarize_RetriesInvalidResponses(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		"not json",
		`{"pros":[{"name":"x","severity":"severe"}],"cons":[]}`,
		validResponse,
	}}
	var retries []int
	policy := fastRetry
	policy.OnRetry = func(attempt int, err error, _ time.Duration) {
		var serr *SummarizationError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, attempt, serr.Attempt)
		retries = append(retries, attempt)
	}

	s := New(gen, WithRetryPolicy(policy), WithLogger(zaptest.NewLogger(t)))
	got, err := s.Summarize(context.Background(), "Venice", []reddit.Comment{{Text: "Venice", Upvotes: 1}})
	require.NoError(t, err)
	assert.Equal(t, 3, gen.calls())
	assert.Equal(t, []int{1, 2}, retries)
	assert.Len(t, got.Pros, 1)
}

func TestSummarize_OmittedConsAcceptedFirstTime(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{`{"pros":[{"name":"near the beach","severity":"high"}]}`}}
	policy := fastRetry
	policy.MaxAttempts = 50

	s := New(gen, WithRetryPolicy(policy))
	got, err := s.Summarize(context.Background(), "Venice", []reddit.Comment{{Text: "Venice", Upvotes: 3}})
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls())
	assert.Len(t, got.Pros, 1)
	assert.Equal(t, []ProConItem{}, got.Cons)
}

func TestSummarize_RetriesProviderErrors(t *testing.T) {
	gen := &scriptedGenerator{
		errs:      []error{errors.New("connection reset"), errors.New("503")},
		responses: []string{"", "", validResponse},
	}
	s := New(gen, WithRetryPolicy(fastRetry))
	_, err := s.Summarize(context.Background(), "Venice", []reddit.Comment{{Text: "Venice"}})
	require.NoError(t, err)
	assert.Equal(t, 3, gen.calls())
}

func TestSummarize_FatalErrorStops(t *testing.T) {
	gen := &scriptedGenerator{errs: []error{&providers.ConfigError{Provider: "gemini", Setting: "GEMINI_API_KEY"}}}
	s := New(gen, WithRetryPolicy(fastRetry))
	_, err := s.Summarize(context.Background(), "Venice", []reddit.Comment{{Text: "Venice"}})
	require.Error(t, err)
	assert.True(t, providers.IsConfigError(err))
	var serr *SummarizationError
	assert.ErrorAs(t, err, &serr)
	assert.Equal(t, 1, gen.calls())
}

func TestSummarize_ContextCancelled(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"never valid"}}
	ctx, cancel := context.WithCancel(context.Background())
	policy := retry.Fixed(10 * time.Millisecond)
	policy.OnRetry = func(attempt int, _ error, _ time.Duration) {
		if attempt == 2 {
			cancel()
		}
	}
	_, err := New(gen, WithRetryPolicy(policy)).Summarize(ctx, "Venice", []reddit.Comment{{Text: "Venice"}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, gen.calls())
}

func TestSummarize_UsesCache(t *testing.T) {
	c := &memCache{m: map[string]string{}}
	comments := []reddit.Comment{{Text: "Venice rocks", Upvotes: 3}}

	gen := &scriptedGenerator{responses: []string{validResponse}}
	first, err := New(gen, WithCache(c), WithRetryPolicy(fastRetry)).Summarize(context.Background(), "Venice", comments)
	require.NoError(t, err)
	assert.Len(t, c.m, 1)

	gen2 := &scriptedGenerator{responses: []string{"unused"}}
	second, err := New(gen2, WithCache(c)).Summarize(context.Background(), "Venice", comments)
	require.NoError(t, err)
	assert.Zero(t, gen2.calls())
	assert.Equal(t, first, second)
}

func TestSummarize_Redaction(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{validResponse}}
	s := New(gen, WithRedaction(true))
	_, err := s.Summarize(context.Background(), "Venice", []reddit.Comment{{Text: "Venice, mail me at me@example.com", Upvotes: 2}})
	require.NoError(t, err)
	require.Equal(t, 1, gen.calls())
	joined := strings.Join(gen.requests[0].Parts, "\n")
	assert.NotContains(t, joined, "me@example.com")
	assert.Contains(t, joined, "[REDACTED]")
	assert.NotNil(t, gen.requests[0].Schema)
}

func TestSummarizeAll_SkipsUnmentioned(t *testing.T) {
	table, err := neighborhood.NewTable([]neighborhood.Neighborhood{
		{Name: "Venice", Aliases: []string{"venice"}},
		{Name: "Echo Park", Aliases: []string{"echo park"}},
		{Name: "Los Feliz", Aliases: []string{"los feliz"}},
	})
	require.NoError(t, err)

	records := stats.Annotate([]reddit.Comment{
		{Text: "Venice is great", Upvotes: 5},
		{Text: "los feliz too", Upvotes: 2},
	}, table)

	gen := &scriptedGenerator{responses: []string{validResponse}}
	got, err := New(gen, WithLogger(zaptest.NewLogger(t))).SummarizeAll(context.Background(), table, records)
	require.NoError(t, err)

	assert.Equal(t, 2, gen.calls())
	assert.Contains(t, got, "Venice")
	assert.Contains(t, got, "Los Feliz")
	assert.NotContains(t, got, "Echo Park")
	assert.Contains(t, gen.requests[0].Parts[0], "'Venice'")
	assert.Contains(t, gen.requests[1].Parts[0], "'Los Feliz'")
}
