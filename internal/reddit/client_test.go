package reddit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/hoodscan/internal/retry"
)

// threadFixture has one top-level comment with two replies (the first of
// which has its own reply), a second top-level comment, and a "more" stub.
const threadFixture = `[
  {"kind": "Listing", "data": {"children": [
    {"kind": "t3", "data": {"title": "Moving to LA", "subreddit": "MovingToLosAngeles", "permalink": "/r/MovingToLosAngeles/comments/abc/moving_to_la/"}}
  ]}},
  {"kind": "Listing", "data": {"children": [
    {"kind": "t1", "data": {"body": "Try Culver City", "score": 12, "replies": {
      "kind": "Listing", "data": {"children": [
        {"kind": "t1", "data": {"body": "Agree, Culver is great", "score": 4, "replies": {
          "kind": "Listing", "data": {"children": [
            {"kind": "t1", "data": {"body": "Traffic though", "score": 2, "replies": ""}}
          ]}}}},
        {"kind": "t1", "data": {"score": 1, "replies": ""}}
      ]}}}},
    {"kind": "t1", "data": {"body": "Mar Vista!", "replies": ""}},
    {"kind": "more", "data": {"count": 7}}
  ]}}
]`

func TestParse_PreOrder(t *testing.T) {
	thread, comments, err := Parse([]byte(threadFixture))
	require.NoError(t, err)

	want := []Comment{
		{Text: "Try Culver City", Upvotes: 12},
		{Text: "Agree, Culver is great", Upvotes: 4},
		{Text: "Traffic though", Upvotes: 2},
		{Text: "", Upvotes: 1},
		{Text: "Mar Vista!", Upvotes: 0},
	}
	if diff := cmp.Diff(want, comments); diff != "" {
		t.Errorf("comments mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Moving to LA", thread.Title)
	assert.Equal(t, "MovingToLosAngeles", thread.Subreddit)
}

func TestParse_OneCommentTwoReplies(t *testing.T) {
	doc := `[{"kind":"Listing","data":{"children":[]}},
	{"kind":"Listing","data":{"children":[
	  {"kind":"t1","data":{"body":"parent","score":3,"replies":{"kind":"Listing","data":{"children":[
	    {"kind":"t1","data":{"body":"first reply","score":2,"replies":""}},
	    {"kind":"t1","data":{"body":"second reply","score":1,"replies":""}}
	  ]}}}}
	]}}]`

	_, comments, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "parent", comments[0].Text)
	assert.Equal(t, "first reply", comments[1].Text)
	assert.Equal(t, "second reply", comments[2].Text)
}

func TestParse_EmptyForest(t *testing.T) {
	_, comments, err := Parse([]byte(`[{"kind":"Listing","data":{"children":[]}},{"kind":"Listing","data":{"children":[]}}]`))
	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)
}

func TestParse_BadShape(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", "<html>"},
		{"object instead of array", `{"kind":"Listing"}`},
		{"single listing", `[{"data":{"children":[]}}]`},
		{"null comment forest", `[{"kind":"Listing","data":{"children":[]}}, null]`},
		{"both null", `[null, null]`},
		{"empty objects", `[{}, {}]`},
		{"forest is a comment", `[{}, {"kind":"t1","data":{"body":"hi","score":1}}]`},
		{"forest without children", `[{}, {"kind":"Listing","data":{}}]`},
		{"children not an array", `[{}, {"kind":"Listing","data":{"children":"nope"}}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestFlatten_DeepNesting(t *testing.T) {
	// Build a 10k-deep reply chain; the explicit stack must handle it.
	const depth = 10000
	root := &listing{}
	cur := root
	for i := 0; i < depth; i++ {
		body := "c"
		child := thing{Kind: kindComment, Data: thingData{Body: &body}}
		next := &listing{}
		if i < depth-1 {
			child.Data.Replies.listing = next
		}
		cur.Data.Children = []thing{child}
		cur = next
	}
	assert.Len(t, flatten(root), depth)
}

func TestNormalizeThreadURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://www.reddit.com/r/LA/comments/abc/title/", "https://www.reddit.com/r/LA/comments/abc/title/.json"},
		{"https://www.reddit.com/r/LA/comments/abc/title", "https://www.reddit.com/r/LA/comments/abc/title.json"},
		{"https://www.reddit.com/r/LA/comments/abc/title.json", "https://www.reddit.com/r/LA/comments/abc/title.json"},
		{"https://www.reddit.com/r/LA/comments/abc/title/?sort=top", "https://www.reddit.com/r/LA/comments/abc/title/.json?sort=top"},
	}
	for _, tt := range tests {
		got, err := NormalizeThreadURL(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := NormalizeThreadURL("not a url")
	assert.Error(t, err)
}

func TestFetchThread(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, ".json"), "path %q should end in .json", r.URL.Path)
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Write([]byte(threadFixture))
	}))
	defer server.Close()

	c := NewClient(WithHTTPClient(server.Client()), WithUserAgent("test-agent"))
	thread, comments, err := c.FetchThread(context.Background(), server.URL+"/r/LA/comments/abc/title")
	require.NoError(t, err)
	assert.Len(t, comments, 5)
	assert.Equal(t, server.URL+"/r/LA/comments/abc/title", thread.URL)
}

func TestFetchThread_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewClient(WithHTTPClient(server.Client()))
	_, _, err := c.FetchThread(context.Background(), server.URL+"/thread")
	var fe *FetchError
	require.True(t, errors.As(err, &fe), "want *FetchError, got %T", err)
	assert.Equal(t, http.StatusTooManyRequests, fe.StatusCode)
}

func TestFetchWithRetry_TwoFailuresThenSuccess(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		switch n {
		case 1:
			w.WriteHeader(http.StatusServiceUnavailable)
		case 2:
			w.Write([]byte(`{"not":"a thread"}`))
		default:
			w.Write([]byte(threadFixture))
		}
	}))
	defer server.Close()

	c := NewClient(WithHTTPClient(server.Client()))
	_, comments, err := c.FetchWithRetry(context.Background(), server.URL+"/thread", retry.Fixed(time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Len(t, comments, 5)
}

func TestFetchWithRetry_Cancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	p := retry.Fixed(time.Hour)
	p.OnRetry = func(int, error, time.Duration) { cancel() }

	c := NewClient(WithHTTPClient(server.Client()))
	_, _, err := c.FetchWithRetry(ctx, server.URL+"/thread", p)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchWithRetry_InvalidURLNotRetried(t *testing.T) {
	p := retry.Fixed(time.Millisecond)
	p.OnRetry = func(int, error, time.Duration) { t.Fatal("invalid URL must not be retried") }

	_, _, err := NewClient().FetchWithRetry(context.Background(), "not a url", p)
	var fe *FetchError
	assert.True(t, errors.As(err, &fe))
}

func TestFetchWithRetry_RetriesNullForest(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Write([]byte(`[{"kind":"Listing","data":{"children":[]}}, null]`))
			return
		}
		w.Write([]byte(threadFixture))
	}))
	defer server.Close()

	var retried []error
	p := retry.Fixed(time.Millisecond)
	p.OnRetry = func(_ int, err error, _ time.Duration) { retried = append(retried, err) }

	c := NewClient(WithHTTPClient(server.Client()))
	_, comments, err := c.FetchWithRetry(context.Background(), server.URL+"/thread", p)
	require.NoError(t, err)
	assert.Len(t, comments, 5)
	require.Len(t, retried, 1)
	var fe *FetchError
	assert.True(t, errors.As(retried[0], &fe), "want *FetchError, got %T", retried[0])
}
