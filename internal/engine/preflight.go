package engine

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/darwin-homes/pynonymizer/internal/dialect"
	"github.com/darwin-homes/pynonymizer/internal/schema"
	"github.com/darwin-homes/pynonymizer/internal/strategy"
)

// Preflight verifies that every table and column the strategy names exists
// in the live schema, before anything is mutated. It reports all missing
// objects at once rather than stopping at the first.
func Preflight(db *sql.DB, d dialect.Dialect, schemaName string, strat *strategy.DatabaseStrategy) error {
	live, err := schema.Inspect(db, d, schemaName)
	if err != nil {
		return err
	}

	var missing []string
	for _, name := range strat.TableNames() {
		t, ok := live.Table(name)
		if !ok {
			missing = append(missing, name)
			continue
		}

		uc, ok := strat.Tables[name].(*strategy.UpdateColumnsTable)
		if !ok {
			continue
		}
		for _, col := range uc.ColumnNames() {
			if !t.HasColumn(col) {
				missing = append(missing, fmt.Sprintf("%s.%s", name, col))
			}
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("strategy references objects missing from the database: %s",
			strings.Join(missing, ", "))
	}
	return nil
}
