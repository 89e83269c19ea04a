package flavor

import (
	"sort"
	"strings"
)

// Category is one whisky tasting-note label bound to the external taxonomy
// term ID the shop uses for it.
type Category struct {
	Name   string `json:"name"`
	TermID int64  `json:"term_id"`
}

// DefaultTable returns the fixed ten-entry flavor table with the term IDs
// matching the shop taxonomy.
func DefaultTable() map[string]int64 {
	return map[string]int64{
		"Floral":     128,
		"Fruity":     129,
		"Vanilla":    130,
		"Honey":      131,
		"Spicy":      132,
		"Peated":     133,
		"Salty":      134,
		"Woody":      135,
		"Nutty":      136,
		"Chocolatey": 137,
	}
}

// Mapper parses free-text model output into flavor categories. The table is
// fixed at construction and never mutated afterwards.
type Mapper struct {
	table map[string]int64
}

// NewMapper builds a mapper over the given name -> term ID table. A nil or
// empty table falls back to the built-in default.
func NewMapper(table map[string]int64) *Mapper {
	if len(table) == 0 {
		table = DefaultTable()
	}
	copied := make(map[string]int64, len(table))
	for name, id := range table {
		copied[name] = id
	}
	return &Mapper{table: copied}
}

// Parse splits raw model output into lines, strips leading/trailing
// decoration characters and keeps the lines that exactly match a known
// category name. Matching is case-sensitive, unmatched lines are ignored and
// duplicates are collapsed. Empty input yields an empty set.
func (m *Mapper) Parse(rawText string) []Category {
	var matched []Category
	seen := map[int64]bool{}

	for _, line := range strings.Split(rawText, "\n") {
		name := strings.Trim(line, " -\t\n\r\x00\x0B")
		termID, ok := m.table[name]
		if !ok {
			continue
		}
		if seen[termID] {
			continue
		}
		seen[termID] = true
		matched = append(matched, Category{Name: name, TermID: termID})
	}

	return matched
}

// TermIDs returns just the term IDs from Parse, in the same order.
func (m *Mapper) TermIDs(rawText string) []int64 {
	categories := m.Parse(rawText)
	ids := make([]int64, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.TermID)
	}
	return ids
}

// Names lists the known category names sorted by term ID, for prompt text
// and dashboard display.
func (m *Mapper) Names() []string {
	names := make([]string, 0, len(m.table))
	for name := range m.table {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return m.table[names[i]] < m.table[names[j]]
	})
	return names
}

// NamesForTermIDs maps matched term IDs back to their category names,
// preserving input order. Unknown IDs are skipped.
func (m *Mapper) NamesForTermIDs(ids []int64) []string {
	byID := make(map[int64]string, len(m.table))
	for name, id := range m.table {
		byID[id] = name
	}
	var names []string
	for _, id := range ids {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return names
}
