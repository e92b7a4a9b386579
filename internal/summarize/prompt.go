package summarize

import (
	"fmt"
	"strings"

	"github.com/dshills/hoodscan/internal/providers"
	"github.com/dshills/hoodscan/internal/reddit"
)

// DefaultAudience is who the summary is written for.
const DefaultAudience = "two young professionals moving from Paris"

const instructionsTemplate = `Given Reddit comments recommending the neighborhood '%[1]s' in Los Angeles, summarize the main pros and cons for living there (%[1]s) for %[2]s.
Return your answer as a JSON object with two fields: 'pros' (a list of pros) and 'cons' (a list of cons). If there are no pros or cons, return an empty list for that field.
Each pro or con should be an object with 'name' (a short description) and 'severity' (low, medium, high).
The 'severity' should reflect how strongly the comments support or oppose the point, and should be based on the number of comments and upvotes.
Use only the comments below as evidence. Your response should be concise and focused on the most relevant points.
Only include pros and cons that are mentioned by multiple commenters or have significant upvotes.
Do not include any personal opinions or unverified information.`

// BuildParts returns the ordered user prompt parts for one neighborhood:
// framing, instructions, and the comment list.
func BuildParts(neighborhood, audience string, comments []reddit.Comment) []string {
	if audience == "" {
		audience = DefaultAudience
	}

	framing := fmt.Sprintf(
		"You are an expert assistant for summarizing Reddit discussions about Los Angeles neighborhoods. You will be focusing on the neighborhood '%s'.",
		neighborhood,
	)

	var b strings.Builder
	b.WriteString("Comments (each with upvotes):")
	for _, c := range comments {
		text := strings.ReplaceAll(c.Text, "\r\n", " ")
		text = strings.ReplaceAll(text, "\n", " ")
		fmt.Fprintf(&b, "\n- %s (upvotes: %d)", text, c.Upvotes)
	}

	return []string{
		framing,
		fmt.Sprintf(instructionsTemplate, neighborhood, audience),
		b.String(),
	}
}

// ResponseSchema is the schema a provider response must satisfy.
func ResponseSchema() *providers.Schema {
	severities := make([]string, len(Severities))
	for i, s := range Severities {
		severities[i] = string(s)
	}
	item := &providers.Schema{
		Type: "object",
		Properties: map[string]*providers.Schema{
			"name":     {Type: "string", Description: "Name of the pro or con"},
			"severity": {Type: "string", Description: "Severity of the pro or con", Enum: severities},
		},
		Required: []string{"name", "severity"},
		Ordering: []string{"name", "severity"},
	}
	return &providers.Schema{
		Type: "object",
		Properties: map[string]*providers.Schema{
			"pros": {Type: "array", Description: "List of pros for the neighborhood", Items: item},
			"cons": {Type: "array", Description: "List of cons for the neighborhood", Items: item},
		},
		Required: []string{"pros", "cons"},
		Ordering: []string{"pros", "cons"},
	}
}
