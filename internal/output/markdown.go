package output

import (
	"io"
	"strings"

	"github.com/dshills/hoodscan/internal/report"
	"github.com/dshills/hoodscan/internal/summarize"
)

// MarkdownWriter outputs a markdown report with one section per neighborhood.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, r *report.Report) error {
	ew := &errWriter{w: w}

	title := r.Thread.Title
	if title == "" {
		title = "Neighborhood Analysis"
	}
	ew.printf("## %s\n\n", mdEscape(title))
	if r.Thread.URL != "" {
		ew.printf("Source: <%s>\n\n", r.Thread.URL)
	}

	ew.printf("| Neighborhood | Mentions | Upvotes | Pros | Cons |\n")
	ew.printf("|--------------|----------|---------|------|------|\n")
	for _, rec := range r.Results {
		ew.printf("| %s | %d | %d | %d | %d |\n",
			mdEscape(rec.Neighborhood), rec.MentionCount, rec.UpvoteSum, len(rec.Pros), len(rec.Cons))
	}
	ew.printf("\n")

	if r.Summary.Mentioned == 0 {
		ew.println("No neighborhoods were mentioned in this thread.")
		return ew.err
	}

	for _, rec := range r.Results {
		if rec.MentionCount == 0 {
			continue
		}
		ew.printf("<details>\n<summary>%s (%d mentions)</summary>\n\n", mdEscape(rec.Neighborhood), rec.MentionCount)
		mdItems(ew, "Pros", rec.Pros)
		mdItems(ew, "Cons", rec.Cons)
		ew.printf("</details>\n\n")
	}

	ew.printf("*Analyzed with %s/%s in %dms*\n", r.Inputs.Provider, r.Inputs.Model, r.Timing.TotalMs)
	return ew.err
}

func mdItems(ew *errWriter, label string, items []summarize.ProConItem) {
	ew.printf("**%s**\n\n", label)
	if len(items) == 0 {
		ew.printf("- none\n\n")
		return
	}
	for _, it := range items {
		ew.printf("- %s %s\n", mdSeverityIcon(it.Severity), mdEscape(it.Name))
	}
	ew.printf("\n")
}

func mdSeverityIcon(s summarize.Severity) string {
	switch s {
	case summarize.SeverityHigh:
		return ":red_circle:"
	case summarize.SeverityMedium:
		return ":orange_circle:"
	case summarize.SeverityLow:
		return ":yellow_circle:"
	default:
		return ":white_circle:"
	}
}

var mdReplacer = strings.NewReplacer("|", `\|`, "<", "&lt;", ">", "&gt;")

func mdEscape(s string) string {
	return mdReplacer.Replace(s)
}
