package summarize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

type rawItem struct {
	Name     *string `json:"name"`
	Severity *string `json:"severity"`
}

type rawSummary struct {
	Pros json.RawMessage `json:"pros"`
	Cons json.RawMessage `json:"cons"`
}

// ParseSummary decodes a provider response and checks it against the summary
// schema. It either returns a summary or a *ValidationError. An omitted
// pros or cons key means an empty list; anything else malformed is rejected.
func ParseSummary(content string) (NeighborhoodSummary, error) {
	body := stripFences(content)

	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()
	var raw rawSummary
	if err := dec.Decode(&raw); err != nil {
		return NeighborhoodSummary{}, &ValidationError{
			Problems: []string{fmt.Sprintf("invalid JSON object: %v", err)},
			Content:  content,
		}
	}
	if _, err := dec.Token(); err != io.EOF {
		return NeighborhoodSummary{}, &ValidationError{
			Problems: []string{"unexpected data after JSON object"},
			Content:  content,
		}
	}

	var problems []string
	pros, p := convertItems("pros", raw.Pros)
	problems = append(problems, p...)
	cons, p := convertItems("cons", raw.Cons)
	problems = append(problems, p...)

	if len(problems) > 0 {
		return NeighborhoodSummary{}, &ValidationError{Problems: problems, Content: content}
	}
	return NeighborhoodSummary{Pros: pros, Cons: cons}, nil
}

func convertItems(field string, raw json.RawMessage) ([]ProConItem, []string) {
	items := []ProConItem{}
	if raw == nil {
		return items, nil
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return items, []string{fmt.Sprintf("%s: must be a list, got null", field)}
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var list []rawItem
	if err := dec.Decode(&list); err != nil {
		return items, []string{fmt.Sprintf("%s: %v", field, err)}
	}
	var problems []string
	for i, r := range list {
		if r.Name == nil || strings.TrimSpace(*r.Name) == "" {
			problems = append(problems, fmt.Sprintf("%s[%d]: missing name", field, i))
			continue
		}
		if r.Severity == nil {
			problems = append(problems, fmt.Sprintf("%s[%d]: missing severity", field, i))
			continue
		}
		sev := Severity(*r.Severity)
		if !sev.Valid() {
			problems = append(problems, fmt.Sprintf("%s[%d]: invalid severity %q", field, i, *r.Severity))
			continue
		}
		items = append(items, ProConItem{Name: strings.TrimSpace(*r.Name), Severity: sev})
	}
	return items, problems
}

// stripFences removes a surrounding markdown code fence, if present.
func stripFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) < 2 {
		return content
	}
	end := len(lines)
	if strings.TrimSpace(lines[end-1]) == "```" {
		end--
	}
	return string(bytes.TrimSpace([]byte(strings.Join(lines[1:end], "\n"))))
}
