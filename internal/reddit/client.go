package reddit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/hoodscan/internal/retry"
)

const defaultUserAgent = "hoodscan/0.1 (neighborhood thread summarizer)"

// Client downloads Reddit threads through the public .json endpoints.
type Client struct {
	httpClient *http.Client
	userAgent  string
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client (tests point it at httptest).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the HTTP client timeout. Zero leaves the client default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithUserAgent sets the User-Agent header. Reddit throttles the Go default.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the logger used for retry messages.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a Reddit client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		userAgent:  defaultUserAgent,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NormalizeThreadURL appends the .json suffix Reddit needs to serve a thread
// as data. Query strings and fragments are preserved after the suffix.
func NormalizeThreadURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("parsing thread URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid thread URL: %q", raw)
	}
	if !strings.HasSuffix(u.Path, ".json") {
		u.Path += ".json"
	}
	return u.String(), nil
}

// FetchThread performs a single download of a thread and flattens its
// comment forest. Every failure is a *FetchError.
func (c *Client) FetchThread(ctx context.Context, threadURL string) (Thread, []Comment, error) {
	target, err := NormalizeThreadURL(threadURL)
	if err != nil {
		return Thread{}, nil, &FetchError{URL: threadURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Thread{}, nil, &FetchError{URL: target, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Thread{}, nil, &FetchError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return Thread{}, nil, &FetchError{URL: target, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Thread{}, nil, &FetchError{URL: target, Err: fmt.Errorf("reading response: %w", err)}
	}

	thread, comments, err := Parse(body)
	if err != nil {
		return Thread{}, nil, &FetchError{URL: target, Err: err}
	}
	thread.URL = strings.TrimSpace(threadURL)
	return thread, comments, nil
}

// FetchWithRetry calls FetchThread until it succeeds under policy p. Only an
// unparseable URL, context cancellation or an exhausted attempt budget end
// the loop early.
func (c *Client) FetchWithRetry(ctx context.Context, threadURL string, p retry.Policy) (Thread, []Comment, error) {
	// A URL that cannot be parsed will never succeed.
	if _, err := NormalizeThreadURL(threadURL); err != nil {
		return Thread{}, nil, &FetchError{URL: threadURL, Err: err}
	}

	var (
		thread   Thread
		comments []Comment
	)
	onRetry := p.OnRetry
	p.OnRetry = func(attempt int, err error, wait time.Duration) {
		c.logger.Warn("thread fetch failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err))
		if onRetry != nil {
			onRetry(attempt, err, wait)
		}
	}
	err := retry.Do(ctx, p, func(ctx context.Context) error {
		var err error
		thread, comments, err = c.FetchThread(ctx, threadURL)
		var fe *FetchError
		if err != nil && !errors.As(err, &fe) {
			return retry.Permanent(err)
		}
		return err
	})
	if err != nil {
		return Thread{}, nil, err
	}
	return thread, comments, nil
}

// Parse decodes a thread document: a JSON array whose first element is the
// post listing and whose second holds the comment forest. The comment
// forest must be a Listing with a children array.
func Parse(data []byte) (Thread, []Comment, error) {
	var doc []*listing
	if err := json.Unmarshal(data, &doc); err != nil {
		return Thread{}, nil, fmt.Errorf("decoding thread: %w", err)
	}
	if len(doc) < 2 {
		return Thread{}, nil, fmt.Errorf("decoding thread: expected 2 listings, got %d", len(doc))
	}
	forest := doc[1]
	if forest == nil || forest.Kind != kindListing {
		return Thread{}, nil, errors.New("decoding thread: comment forest is not a Listing")
	}
	if forest.Data.Children == nil {
		return Thread{}, nil, errors.New("decoding thread: comment forest has no children array")
	}

	var thread Thread
	if post := doc[0]; post != nil {
		for _, child := range post.Data.Children {
			if child.Kind == kindPost {
				thread.Title = child.Data.Title
				thread.Subreddit = child.Data.Subreddit
				thread.Permalink = child.Data.Permalink
				break
			}
		}
	}

	comments := flatten(forest)
	if comments == nil {
		comments = []Comment{}
	}
	return thread, comments, nil
}
