package reddit

import (
	"bytes"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Comment is a single flattened comment.
type Comment struct {
	Text    string `json:"text"`
	Upvotes int    `json:"upvotes"`
}

// Thread describes the post a comment forest belongs to.
type Thread struct {
	Title     string `json:"title"`
	Subreddit string `json:"subreddit"`
	Permalink string `json:"permalink"`
	URL       string `json:"url"`
}

// FetchError is returned when the thread cannot be downloaded or its JSON
// does not have the expected shape.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("fetching %s: unexpected status %d", e.URL, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("fetching %s: failed", e.URL)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// listing is a Reddit "Listing" object.
type listing struct {
	Kind string `json:"kind"`
	Data struct {
		Children []thing `json:"children"`
	} `json:"data"`
}

// thing is a child of a listing. Only t1 (comment) and t3 (post) are read.
type thing struct {
	Kind string    `json:"kind"`
	Data thingData `json:"data"`
}

type thingData struct {
	Body      *string `json:"body"`
	Score     *int    `json:"score"`
	Replies   replies `json:"replies"`
	Title     string  `json:"title"`
	Subreddit string  `json:"subreddit"`
	Permalink string  `json:"permalink"`
}

// replies holds a nested listing. Reddit sends "" when a comment has none.
type replies struct {
	listing *listing
}

func (r *replies) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		r.listing = nil
		return nil
	}
	var l listing
	if err := json.Unmarshal(data, &l); err != nil {
		return fmt.Errorf("decoding replies: %w", err)
	}
	r.listing = &l
	return nil
}
