package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dshills/hoodscan/internal/report"
	"github.com/dshills/hoodscan/internal/summarize"
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, r *report.Report) error {
	ew := &errWriter{w: w}

	title := r.Thread.Title
	if title == "" {
		title = r.Thread.URL
	}
	ew.printf("Neighborhood Analysis: %s\n", title)
	if r.Thread.Subreddit != "" {
		ew.printf("Subreddit: r/%s\n", r.Thread.Subreddit)
	}
	ew.printf("Model: %s/%s | Comments: %s\n",
		r.Inputs.Provider, r.Inputs.Model, humanize.Comma(int64(r.Inputs.Comments)))
	ew.println(strings.Repeat("─", 60))
	ew.printf("Neighborhoods mentioned: %d of %d", r.Summary.Mentioned, len(r.Results))
	if r.Summary.Top != "" {
		ew.printf(" (most discussed: %s)", r.Summary.Top)
	}
	ew.println("")
	ew.println(strings.Repeat("─", 60))

	if r.Summary.Mentioned == 0 {
		ew.println("\nNo neighborhoods were mentioned in this thread.")
		return ew.err
	}

	for i, rec := range r.Results {
		ew.printf("\n%d. %s  %s, %s\n", i+1, rec.Neighborhood,
			plural(rec.MentionCount, "mention"), plural(rec.UpvoteSum, "upvote"))
		if rec.MentionCount == 0 {
			ew.println("   (not mentioned)")
			continue
		}
		writeItems(ew, "Pros", rec.Pros)
		writeItems(ew, "Cons", rec.Cons)
	}

	ew.printf("\n%s\n", strings.Repeat("─", 60))
	ew.printf("Completed in %s (fetch: %s, LLM: %s)\n",
		ms(r.Timing.TotalMs), ms(r.Timing.FetchMs), ms(r.Timing.LLMMs))

	return ew.err
}

func writeItems(ew *errWriter, label string, items []summarize.ProConItem) {
	if len(items) == 0 {
		ew.printf("   %s: none\n", label)
		return
	}
	ew.printf("   %s:\n", label)
	for _, it := range items {
		lines := wrapText(it.Name, 64)
		ew.printf("     %s %s\n", severityIcon(it.Severity), lines[0])
		for _, l := range lines[1:] {
			ew.printf("          %s\n", l)
		}
	}
}

func plural(n int, word string) string {
	s := humanize.Comma(int64(n)) + " " + word
	if n != 1 {
		s += "s"
	}
	return s
}

func ms(n int64) string {
	return (time.Duration(n) * time.Millisecond).String()
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

func severityIcon(s summarize.Severity) string {
	switch s {
	case summarize.SeverityHigh:
		return "[!!]"
	case summarize.SeverityMedium:
		return "[!]"
	case summarize.SeverityLow:
		return "[-]"
	default:
		return "[?]"
	}
}

func wrapText(text string, width int) []string {
	if len(text) <= width {
		return []string{text}
	}
	var lines []string
	words := strings.Fields(text)
	var current strings.Builder
	for _, word := range words {
		if current.Len()+len(word)+1 > width && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
