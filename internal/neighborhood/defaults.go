package neighborhood

// Defaults is the westside table the tool ships with.
func Defaults() []Neighborhood {
	return []Neighborhood{
		{Name: "Culver City", Aliases: []string{"culver city", "culver"}},
		{Name: "Santa Monica", Aliases: []string{"santa monica", "samo"}},
		{Name: "Palms", Aliases: []string{"palms"}},
		{Name: "Venice", Aliases: []string{"venice"}},
		{Name: "Marina del Rey", Aliases: []string{"marina del rey", "marina del ray", "mdr", "marina"}},
		{Name: "Mar Vista", Aliases: []string{"mar vista"}},
		{Name: "Playa Vista", Aliases: []string{"playa vista"}},
		{Name: "Playa del Rey", Aliases: []string{"playa del rey", "playa del ray", "pdr"}},
		{Name: "Del Rey", Aliases: []string{"del rey", "del ray"}},
	}
}

// DefaultTable compiles Defaults. It panics only if the built-in table is
// invalid.
func DefaultTable() *Table {
	t, err := NewTable(Defaults())
	if err != nil {
		panic(err)
	}
	return t
}
