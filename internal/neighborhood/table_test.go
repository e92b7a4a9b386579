package neighborhood

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_NoAlias(t *testing.T) {
	table := DefaultTable()
	for _, text := range []string{
		"",
		"Nothing about LA",
		"Downtown and Silver Lake are fine too",
		"I moved to Pasadena last year",
	} {
		assert.Empty(t, table.Extract(text), "text %q", text)
	}
}

func TestExtract_WordBoundary(t *testing.T) {
	table, err := NewTable([]Neighborhood{
		{Name: "SoMa", Aliases: []string{"soma"}},
		{Name: "Culver City", Aliases: []string{"culver city", "culver"}},
	})
	require.NoError(t, err)

	assert.Empty(t, table.Extract("this place is awesome"))
	assert.Equal(t, []string{"Culver City"}, table.Extract("moving to Culver City soon"))
	assert.Equal(t, []string{"SoMa"}, table.Extract("Lived in SOMA for years."))
	assert.Empty(t, table.Extract("culvert repairs"))
}

func TestExtract_UnicodeWordBoundary(t *testing.T) {
	table := DefaultTable()

	assert.Empty(t, table.Extract("Veniceé"))
	assert.Empty(t, table.Extract("éPalms"))
	assert.Empty(t, table.Extract("Palms2"))
	assert.Empty(t, table.Extract("culver_city"))
	assert.Equal(t, []string{"Venice"}, table.Extract("Venice, Californie"))
	assert.Equal(t, []string{"Palms"}, table.Extract("«Palms» était super"))
	assert.Equal(t, []string{"Venice"}, table.Extract("Venice"))
	assert.Equal(t, []string{"Culver City"}, table.Extract("Culver\tCity? no: culver!"))
}

func TestAliasPattern_PunctuationEdges(t *testing.T) {
	table, err := NewTable([]Neighborhood{{Name: "Dot", Aliases: []string{".net"}}})
	require.NoError(t, err)

	assert.Equal(t, []string{"Dot"}, table.Extract("asp.net"))
	assert.Empty(t, table.Extract("a .net site"))
}

func TestExtract_MultipleAndOverlapping(t *testing.T) {
	table := DefaultTable()

	assert.Equal(t, []string{"Culver City", "Mar Vista"},
		table.Extract("I love Culver City and Mar Vista"))

	// Overlapping aliases are tested independently and both match.
	assert.Equal(t, []string{"Playa del Rey", "Del Rey"},
		table.Extract("Playa del Rey is quiet"))

	assert.Equal(t, []string{"Santa Monica", "Marina del Rey", "Del Rey"},
		table.Extract("samo or MDR? marina del rey has the beach"))
}

func TestExtract_DeclarationOrder(t *testing.T) {
	table := DefaultTable()
	got := table.Extract("venice, palms, culver")
	assert.Equal(t, []string{"Culver City", "Palms", "Venice"}, got)
}

func TestNewTable_Validation(t *testing.T) {
	tests := []struct {
		name    string
		entries []Neighborhood
	}{
		{"empty", nil},
		{"blank name", []Neighborhood{{Name: " ", Aliases: []string{"x"}}}},
		{"duplicate", []Neighborhood{{Name: "A", Aliases: []string{"a"}}, {Name: "A", Aliases: []string{"b"}}}},
		{"no aliases", []Neighborhood{{Name: "A", Aliases: []string{"", "  "}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.entries)
			assert.Error(t, err)
		})
	}
}

func TestNewTable_NormalizesAliases(t *testing.T) {
	table, err := NewTable([]Neighborhood{
		{Name: "Santa Monica", Aliases: []string{"Santa  Monica", "saMo", "samo"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"santa monica", "samo"}, table.Entries()[0].Aliases)
	assert.Equal(t, []string{"Santa Monica"}, table.Extract("SAMO pier"))
}

func TestTable_Accessors(t *testing.T) {
	table := DefaultTable()
	assert.Equal(t, 9, table.Len())
	assert.Equal(t, "Culver City", table.Names()[0])
	assert.True(t, table.Contains("Del Rey"))
	assert.False(t, table.Contains("Downtown"))

	entries := table.Entries()
	entries[0].Aliases[0] = "mutated"
	assert.Equal(t, "culver city", table.Entries()[0].Aliases[0])
}

func TestNearDuplicates(t *testing.T) {
	table, err := NewTable([]Neighborhood{
		{Name: "Marina del Rey", Aliases: []string{"marina del rey"}},
		{Name: "Del Rey", Aliases: []string{"del rey", "del ray"}},
		{Name: "Palms", Aliases: []string{"palms"}},
		{Name: "Palmz", Aliases: []string{"palmz"}},
	})
	require.NoError(t, err)

	pairs := table.NearDuplicates(1)
	require.Len(t, pairs, 1)
	assert.Equal(t, "palms", pairs[0].First)
	assert.Equal(t, "Palmz", pairs[0].SecondOf)
	assert.Equal(t, 1, pairs[0].Distance)
}
