package schema

import (
	"sort"
	"strings"
)

// Table is one live table and its column names, as reported by the database.
type Table struct {
	Name    string
	Columns []string
}

// HasColumn reports whether the table carries the named column. Matching is
// case-insensitive to cope with engines that store identifiers upper case.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}

// Schema indexes live tables with normalized keys for case-insensitive
// lookups (Oracle support).
type Schema struct {
	tables map[string]*Table
}

func NewSchema() *Schema {
	return &Schema{tables: make(map[string]*Table)}
}

func (s *Schema) Add(t *Table) {
	s.tables[strings.ToUpper(t.Name)] = t
}

// Table resolves a table by name regardless of identifier case.
func (s *Schema) Table(name string) (*Table, bool) {
	t, ok := s.tables[strings.ToUpper(name)]
	return t, ok
}

func (s *Schema) Len() int {
	return len(s.tables)
}

// Names returns the original-case table names, sorted.
func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.tables))
	for _, t := range s.tables {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

// Result reports the outcome of one table's anonymization.
type Result struct {
	Table    string
	Action   string
	Rows     int64
	Status   string
	ErrorMsg string
}
