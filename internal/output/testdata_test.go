package output

import (
	"github.com/dshills/hoodscan/internal/reddit"
	"github.com/dshills/hoodscan/internal/report"
	"github.com/dshills/hoodscan/internal/stats"
	"github.com/dshills/hoodscan/internal/summarize"
)

func sampleReport() *report.Report {
	records := report.Merge(
		[]stats.NeighborhoodStats{
			{Neighborhood: "Venice", MentionCount: 3, UpvoteSum: 1250},
			{Neighborhood: "Culver City", MentionCount: 1, UpvoteSum: 1},
			{Neighborhood: "Echo Park", MentionCount: 0, UpvoteSum: 0},
		},
		map[string]summarize.NeighborhoodSummary{
			"Venice": {
				Pros: []summarize.ProConItem{{Name: "Close to the beach", Severity: summarize.SeverityHigh}},
				Cons: []summarize.ProConItem{{Name: "Parking | traffic", Severity: summarize.SeverityMedium}},
			},
			"Culver City": {
				Pros: []summarize.ProConItem{{Name: "Central location", Severity: summarize.SeverityLow}},
			},
		},
	)
	return report.New(
		reddit.Thread{Title: "Moving to LA with two salaries", Subreddit: "MovingToLosAngeles", URL: "https://www.reddit.com/r/MovingToLosAngeles/comments/1kzwad1/x/"},
		report.InputInfo{Provider: "gemini", Model: "gemini-2.0-flash-lite", Comments: 1534, Neighborhoods: 3},
		records,
		report.Timing{FetchMs: 300, LLMMs: 2000, TotalMs: 2400},
	)
}

func emptyReport() *report.Report {
	records := report.Merge([]stats.NeighborhoodStats{{Neighborhood: "Venice"}}, nil)
	return report.New(reddit.Thread{}, report.InputInfo{Provider: "gemini"}, records, report.Timing{})
}
