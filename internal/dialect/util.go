package dialect

import (
	"fmt"
	"strings"

	"github.com/darwin-homes/pynonymizer/internal/fake"
)

// DefaultSeedTableName is shared by the dialects whose identifier rules allow
// a leading underscore. The underscore keeps the transient table visually
// apart from application tables.
const DefaultSeedTableName = "_pynonymizer_seed"

// GeneratePlaceholders is a helper function to create a slice of placeholder strings.
// It takes the number of placeholders needed and a function that returns the placeholder for a given index.
// It returns a comma-separated string of the generated placeholders.
func GeneratePlaceholders(count int, placeholderFunc func(int) string) string {
	placeholders := make([]string, count)
	for i := 0; i < count; i++ {
		placeholders[i] = placeholderFunc(i)
	}
	return strings.Join(placeholders, ", ")
}

// BuildUpdateQuery joins SET assignments and an optional WHERE clause.
// Assignments arrive pre-quoted; the filter is appended verbatim.
func BuildUpdateQuery(quotedTable string, assignments []string, where string) string {
	q := fmt.Sprintf("UPDATE %s SET %s", quotedTable, strings.Join(assignments, ", "))
	if where != "" {
		q += " WHERE " + where
	}
	return q
}

// BuildCreateSeedTableQuery renders the seed table DDL: one column per fake
// category, typed through the dialect.
func BuildCreateSeedTableQuery(d Dialect, table string, categories []*fake.Category) string {
	cols := make([]string, len(categories))
	for i, c := range categories {
		cols[i] = fmt.Sprintf("%s %s", d.QuoteIdent(c.Name), d.SeedColumnType(c.Kind))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", d.QuoteIdent(table), strings.Join(cols, ", "))
}

// BuildInsertSeedRowQuery renders the parameterized single-row insert used to
// populate the seed table.
func BuildInsertSeedRowQuery(d Dialect, table string, categories []*fake.Category) string {
	cols := make([]string, len(categories))
	for i, c := range categories {
		cols[i] = d.QuoteIdent(c.Name)
	}
	vals := GeneratePlaceholders(len(categories), d.Placeholder)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.QuoteIdent(table), strings.Join(cols, ", "), vals)
}

// DefaultGetSchemaName is a default implementation for Getting Schema Name (identity).
func DefaultGetSchemaName(input string) string {
	return input
}
