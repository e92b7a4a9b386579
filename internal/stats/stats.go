package stats

import (
	"sort"

	"github.com/dshills/hoodscan/internal/neighborhood"
	"github.com/dshills/hoodscan/internal/reddit"
)

// MentionRecord is a comment together with the neighborhoods it mentions.
type MentionRecord struct {
	reddit.Comment
	Mentions []string `json:"mentions"`
}

// Mentioned reports whether the record mentions name.
func (r MentionRecord) Mentioned(name string) bool {
	for _, m := range r.Mentions {
		if m == name {
			return true
		}
	}
	return false
}

// NeighborhoodStats aggregates the records mentioning one neighborhood.
type NeighborhoodStats struct {
	Neighborhood string `json:"neighborhood"`
	MentionCount int    `json:"mention_count"`
	UpvoteSum    int    `json:"upvote_sum"`
}

// Annotate runs the extractor over every comment. The result has one record
// per comment, in input order; Mentions is never nil.
func Annotate(comments []reddit.Comment, table *neighborhood.Table) []MentionRecord {
	records := make([]MentionRecord, len(comments))
	for i, c := range comments {
		m := table.Extract(c.Text)
		if m == nil {
			m = []string{}
		}
		records[i] = MentionRecord{Comment: c, Mentions: m}
	}
	return records
}

// Aggregate computes one NeighborhoodStats per table entry, sorted by
// mention count descending. Ties keep the table's declaration order and
// neighborhoods with no mentions are kept.
func Aggregate(records []MentionRecord, table *neighborhood.Table) []NeighborhoodStats {
	names := table.Names()
	out := make([]NeighborhoodStats, len(names))
	pos := make(map[string]int, len(names))
	for i, n := range names {
		out[i].Neighborhood = n
		pos[n] = i
	}

	for _, r := range records {
		seen := make(map[int]bool, len(r.Mentions))
		for _, m := range r.Mentions {
			i, ok := pos[m]
			if !ok || seen[i] {
				continue
			}
			seen[i] = true
			out[i].MentionCount++
			out[i].UpvoteSum += r.Upvotes
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MentionCount > out[j].MentionCount
	})
	return out
}

// CommentsMentioning returns the comments of records that mention name, in
// record order.
func CommentsMentioning(records []MentionRecord, name string) []reddit.Comment {
	var out []reddit.Comment
	for _, r := range records {
		if r.Mentioned(name) {
			out = append(out, r.Comment)
		}
	}
	return out
}
