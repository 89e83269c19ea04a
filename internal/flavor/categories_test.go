package flavor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMatchesDecoratedLines(t *testing.T) {
	mapper := NewMapper(nil)

	categories := mapper.Parse("Floral\n-Fruity\n  Vanilla  \nUnknownWord")

	require.Len(t, categories, 3)
	assert.Equal(t, []Category{
		{Name: "Floral", TermID: 128},
		{Name: "Fruity", TermID: 129},
		{Name: "Vanilla", TermID: 130},
	}, categories)
}

func TestParseEmptyInput(t *testing.T) {
	mapper := NewMapper(nil)

	assert.Empty(t, mapper.Parse(""))
}

func TestParseIsCaseSensitive(t *testing.T) {
	mapper := NewMapper(nil)

	assert.Empty(t, mapper.Parse("floral\nFRUITY\nvanilla"))
}

func TestParseIgnoresPartialMatches(t *testing.T) {
	mapper := NewMapper(nil)

	assert.Empty(t, mapper.Parse("Floral notes\nVery Fruity\nVanill"))
}

func TestParseDeduplicates(t *testing.T) {
	mapper := NewMapper(nil)

	categories := mapper.Parse("Peated\nPeated\n- Peated")

	require.Len(t, categories, 1)
	assert.Equal(t, int64(133), categories[0].TermID)
}

func TestParseIsIdempotent(t *testing.T) {
	mapper := NewMapper(nil)
	raw := "Honey\nSpicy\nnothing\nWoody"

	first := mapper.Parse(raw)
	second := mapper.Parse(raw)

	assert.Equal(t, first, second)
}

func TestParseOnlyYieldsKnownTermIDs(t *testing.T) {
	mapper := NewMapper(nil)
	table := DefaultTable()

	raw := "Floral\ngarbage\nSalty\n-Nutty-\n\n  Chocolatey\nOak"
	for _, category := range mapper.Parse(raw) {
		id, ok := table[category.Name]
		require.True(t, ok, "unexpected category %q", category.Name)
		assert.Equal(t, id, category.TermID)
	}
}

func TestParseHandlesCarriageReturns(t *testing.T) {
	mapper := NewMapper(nil)

	categories := mapper.Parse("Floral\r\nFruity\r\n")

	require.Len(t, categories, 2)
}

func TestCustomTableOverridesDefault(t *testing.T) {
	mapper := NewMapper(map[string]int64{"Smoky": 200, "Sweet": 201})

	categories := mapper.Parse("Smoky\nFloral\nSweet")

	require.Len(t, categories, 2)
	assert.Equal(t, []Category{
		{Name: "Smoky", TermID: 200},
		{Name: "Sweet", TermID: 201},
	}, categories)
}

func TestTermIDs(t *testing.T) {
	mapper := NewMapper(nil)

	assert.Equal(t, []int64{130, 131}, mapper.TermIDs("Vanilla\nHoney"))
}

func TestNamesSortedByTermID(t *testing.T) {
	mapper := NewMapper(nil)

	names := mapper.Names()

	require.Len(t, names, 10)
	assert.Equal(t, "Floral", names[0])
	assert.Equal(t, "Chocolatey", names[9])
}

func TestNamesForTermIDs(t *testing.T) {
	mapper := NewMapper(nil)

	assert.Equal(t, []string{"Peated", "Salty"}, mapper.NamesForTermIDs([]int64{133, 134, 999}))
}
