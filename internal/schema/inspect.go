package schema

import (
	"database/sql"
	"fmt"

	"github.com/darwin-homes/pynonymizer/internal/dialect"
)

// Inspect loads the table and column names visible in the target schema.
// It is read-only and cheap enough to run before every destructive pass.
func Inspect(db *sql.DB, d dialect.Dialect, schemaName string) (*Schema, error) {
	// Delegate schema resolution to the dialect
	target := d.GetSchemaName(schemaName)

	result := NewSchema()

	// --- Step 1: Fetch Tables ---
	rows, err := db.Query(d.GetTablesQuery(target), target)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		result.Add(&Table{Name: name})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}

	// --- Step 2: Fetch Columns ---
	colRows, err := db.Query(d.GetColumnsQuery(target), target)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer colRows.Close()

	for colRows.Next() {
		var tName, cName sql.NullString
		if err := colRows.Scan(&tName, &cName); err != nil {
			return nil, fmt.Errorf("failed to scan column (table: %s): %w", tName.String, err)
		}
		if !tName.Valid || !cName.Valid {
			continue // Skip invalid rows
		}
		if t, ok := result.Table(tName.String); ok {
			t.Columns = append(t.Columns, cName.String)
		}
	}
	if err := colRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns: %w", err)
	}

	return result, nil
}
