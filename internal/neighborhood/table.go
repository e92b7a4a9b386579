package neighborhood

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Neighborhood is a canonical name and the spellings that refer to it.
type Neighborhood struct {
	Name    string   `json:"name" yaml:"name"`
	Aliases []string `json:"aliases" yaml:"aliases"`
}

// Table is an immutable, ordered alias table. Declaration order is the
// order used for extraction results and for breaking ties in statistics.
type Table struct {
	entries  []Neighborhood
	patterns [][]*regexp.Regexp
	index    map[string]int
}

// NewTable validates entries and compiles their aliases into whole-word,
// case-insensitive matchers.
func NewTable(entries []Neighborhood) (*Table, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("neighborhood table is empty")
	}
	t := &Table{
		entries:  make([]Neighborhood, 0, len(entries)),
		patterns: make([][]*regexp.Regexp, 0, len(entries)),
		index:    make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("neighborhood with empty name")
		}
		if _, dup := t.index[name]; dup {
			return nil, fmt.Errorf("duplicate neighborhood %q", name)
		}
		aliases := normalizeAliases(e.Aliases)
		if len(aliases) == 0 {
			return nil, fmt.Errorf("neighborhood %q has no aliases", name)
		}
		pats := make([]*regexp.Regexp, len(aliases))
		for i, a := range aliases {
			re, err := regexp.Compile(aliasPattern(a))
			if err != nil {
				return nil, fmt.Errorf("compiling alias %q of %q: %w", a, name, err)
			}
			pats[i] = re
		}
		t.index[name] = len(t.entries)
		t.entries = append(t.entries, Neighborhood{Name: name, Aliases: aliases})
		t.patterns = append(t.patterns, pats)
	}
	return t, nil
}

const (
	wordChar    = `[\p{L}\p{N}_]`
	nonWordChar = `[^\p{L}\p{N}_]`
)

// aliasPattern matches alias as a whole word. Letters and digits of any
// script count as word characters, so an accented letter next to an alias
// prevents a match. An alias edge that is itself punctuation must touch a
// word character, as with a Unicode \b.
func aliasPattern(alias string) string {
	first, _ := utf8.DecodeRuneInString(alias)
	last, _ := utf8.DecodeLastRuneInString(alias)

	start := `(?:^|` + nonWordChar + `)`
	if !isWordRune(first) {
		start = `(?:` + wordChar + `)`
	}
	end := `(?:$|` + nonWordChar + `)`
	if !isWordRune(last) {
		end = `(?:` + wordChar + `)`
	}
	return `(?i)` + start + regexp.QuoteMeta(alias) + end
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func normalizeAliases(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, a := range in {
		a = strings.ToLower(strings.Join(strings.Fields(a), " "))
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

// Extract returns the canonical names whose aliases occur as whole words in
// text, in declaration order. Each neighborhood is tested independently, so
// overlapping aliases can yield several names for one phrase.
func (t *Table) Extract(text string) []string {
	var found []string
	for i, pats := range t.patterns {
		for _, re := range pats {
			if re.MatchString(text) {
				found = append(found, t.entries[i].Name)
				break
			}
		}
	}
	return found
}

// Names returns the canonical names in declaration order.
func (t *Table) Names() []string {
	names := make([]string, len(t.entries))
	for i, e := range t.entries {
		names[i] = e.Name
	}
	return names
}

// Entries returns a copy of the normalized table.
func (t *Table) Entries() []Neighborhood {
	out := make([]Neighborhood, len(t.entries))
	for i, e := range t.entries {
		out[i] = Neighborhood{Name: e.Name, Aliases: append([]string(nil), e.Aliases...)}
	}
	return out
}

// Len returns the number of neighborhoods.
func (t *Table) Len() int { return len(t.entries) }

// Contains reports whether name is a canonical neighborhood.
func (t *Table) Contains(name string) bool {
	_, ok := t.index[name]
	return ok
}

// AliasPair is two aliases of different neighborhoods that are spelled
// almost the same.
type AliasPair struct {
	First, Second     string
	FirstOf, SecondOf string
	Distance          int
}

// NearDuplicates lists alias pairs belonging to different neighborhoods whose
// edit distance is at most maxDistance. Such pairs usually indicate a typo
// alias that will attribute mentions to the wrong place.
func (t *Table) NearDuplicates(maxDistance int) []AliasPair {
	var pairs []AliasPair
	for i := 0; i < len(t.entries); i++ {
		for j := i + 1; j < len(t.entries); j++ {
			for _, a := range t.entries[i].Aliases {
				for _, b := range t.entries[j].Aliases {
					d := levenshtein.ComputeDistance(a, b)
					if d <= maxDistance {
						pairs = append(pairs, AliasPair{
							First: a, FirstOf: t.entries[i].Name,
							Second: b, SecondOf: t.entries[j].Name,
							Distance: d,
						})
					}
				}
			}
		}
	}
	return pairs
}
