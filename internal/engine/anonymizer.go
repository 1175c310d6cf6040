package engine

import (
	"database/sql"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/darwin-homes/pynonymizer/internal/dialect"
	"github.com/darwin-homes/pynonymizer/internal/fake"
	"github.com/darwin-homes/pynonymizer/internal/schema"
	"github.com/darwin-homes/pynonymizer/internal/strategy"
)

// DefaultSeedRows is how many fake rows the seed table receives when the
// configuration does not say otherwise.
const DefaultSeedRows = 150

// Anonymize executes a compiled strategy over a live connection: before
// scripts, seed table setup, per-table strategies, seed cleanup, after
// scripts. The first failing statement aborts the run; the seed table is
// dropped either way.
func Anonymize(db *sql.DB, d dialect.Dialect, strat *strategy.DatabaseStrategy, seedRows int, onProgress func(table string)) ([]schema.Result, error) {
	if seedRows <= 0 {
		seedRows = DefaultSeedRows
	}

	if err := runScripts(db, strat.Scripts[strategy.ScriptBefore], string(strategy.ScriptBefore)); err != nil {
		return nil, err
	}

	categories := strat.FakeCategories()
	seeded := len(categories) > 0
	if seeded {
		if err := createSeedTable(db, d, categories, seedRows); err != nil {
			return nil, err
		}
	}

	results, runErr := applyTables(db, d, strat, onProgress)

	if seeded {
		dropSeedTable(db, d)
	}
	if runErr != nil {
		return results, runErr
	}

	if err := runScripts(db, strat.Scripts[strategy.ScriptAfter], string(strategy.ScriptAfter)); err != nil {
		return results, err
	}
	return results, nil
}

// runScripts executes user-provided statements verbatim, in order.
func runScripts(db *sql.DB, statements []string, phase string) error {
	for i, stmt := range statements {
		log.Infof("Running %s script %d/%d", phase, i+1, len(statements))
		log.Debugf("%s script: %s", phase, stmt)
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("%s script %d failed: %w", phase, i+1, err)
		}
	}
	return nil
}

// createSeedTable builds the transient value pool: one column per fake
// category, seedRows rows of generated data, inserted in one transaction.
func createSeedTable(db *sql.DB, d dialect.Dialect, categories []*fake.Category, seedRows int) error {
	name := d.SeedTableName()
	log.Infof("Seeding %d rows of fake data (%d categories) into %s", seedRows, len(categories), name)

	if _, err := db.Exec(d.CreateSeedTableQuery(name, categories)); err != nil {
		return fmt.Errorf("failed to create seed table: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}

	insert := d.InsertSeedRowQuery(name, categories)
	for i := 0; i < seedRows; i++ {
		values := make([]any, len(categories))
		for j, c := range categories {
			values[j] = c.Value()
		}
		if _, err := tx.Exec(insert, values...); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert seed row: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed rows: %w", err)
	}
	return nil
}

// dropSeedTable is best-effort cleanup; a leftover seed table is noisy but
// harmless.
func dropSeedTable(db *sql.DB, d dialect.Dialect) {
	name := d.SeedTableName()
	if _, err := db.Exec(d.DropSeedTableQuery(name)); err != nil {
		log.Warnf("Failed to drop seed table %s: %v", name, err)
	}
}

func applyTables(db *sql.DB, d dialect.Dialect, strat *strategy.DatabaseStrategy, onProgress func(string)) ([]schema.Result, error) {
	var results []schema.Result

	for _, name := range strat.TableNames() {
		res, err := applyTable(db, d, name, strat.Tables[name])
		results = append(results, res)
		if err != nil {
			return results, err
		}
		if onProgress != nil {
			onProgress(name)
		}
	}
	return results, nil
}

func applyTable(db *sql.DB, d dialect.Dialect, table string, ts strategy.TableStrategy) (schema.Result, error) {
	switch s := ts.(type) {
	case *strategy.TruncateTable:
		return truncateTable(db, d, table)
	case *strategy.UpdateColumnsTable:
		return updateColumns(db, d, table, s)
	default:
		res := schema.Result{Table: table, Action: ts.Type().String()}
		return fail(res, fmt.Errorf("table %s: unhandled strategy type %T", table, ts))
	}
}

// beginRelaxed opens the per-table transaction and applies the dialect's
// constraint relaxation. Postgres aborts the whole transaction when a hook
// statement fails, so the relaxation is abandoned and a fresh transaction
// opened instead.
func beginRelaxed(db *sql.DB, d dialect.Dialect, table string) (*sql.Tx, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction for %s: %w", table, err)
	}
	if hookErr := d.BeforeTable(tx, table); hookErr != nil {
		log.Warnf("BeforeTable hook failed for %s, continuing without constraint relaxation: %v", table, hookErr)
		tx.Rollback()
		tx, err = db.Begin()
		if err != nil {
			return nil, fmt.Errorf("failed to begin transaction for %s: %w", table, err)
		}
	}
	return tx, nil
}

func truncateTable(db *sql.DB, d dialect.Dialect, table string) (schema.Result, error) {
	res := schema.Result{Table: table, Action: "truncate"}

	tx, err := beginRelaxed(db, d, table)
	if err != nil {
		return fail(res, err)
	}

	query := d.TruncateQuery(table)
	log.Debugf("executing: %s", query)
	execRes, err := tx.Exec(query)
	if err != nil {
		tx.Rollback()
		return fail(res, fmt.Errorf("failed to truncate %s: %w", table, err))
	}
	if n, err := execRes.RowsAffected(); err == nil {
		res.Rows = n
	}

	if err := d.AfterTable(tx, table); err != nil {
		log.Warnf("AfterTable hook failed for %s: %v", table, err)
	}
	if err := tx.Commit(); err != nil {
		return fail(res, fmt.Errorf("failed to commit truncate of %s: %w", table, err))
	}

	res.Status = "OK"
	return res, nil
}

func updateColumns(db *sql.DB, d dialect.Dialect, table string, s *strategy.UpdateColumnsTable) (schema.Result, error) {
	res := schema.Result{Table: table, Action: "update columns"}

	// An empty column map compiles to a deliberate no-op.
	if len(s.Columns) == 0 {
		res.Status = "OK"
		return res, nil
	}

	tx, err := beginRelaxed(db, d, table)
	if err != nil {
		return fail(res, err)
	}

	for _, group := range groupByRowFilter(s) {
		assignments := make([]string, 0, len(group.columns))
		for _, col := range group.columns {
			expr, err := columnExpr(d, s.Columns[col])
			if err != nil {
				tx.Rollback()
				return fail(res, err)
			}
			assignments = append(assignments, fmt.Sprintf("%s = %s", d.QuoteIdent(col), expr))
		}

		query := d.UpdateQuery(table, assignments, group.where)
		log.Debugf("executing: %s", query)
		execRes, err := tx.Exec(query)
		if err != nil {
			tx.Rollback()
			return fail(res, fmt.Errorf("failed to update %s: %w", table, err))
		}
		if n, err := execRes.RowsAffected(); err == nil {
			res.Rows += n
		}
	}

	if err := d.AfterTable(tx, table); err != nil {
		log.Warnf("AfterTable hook failed for %s: %v", table, err)
	}
	if err := tx.Commit(); err != nil {
		return fail(res, fmt.Errorf("failed to commit updates on %s: %w", table, err))
	}

	res.Status = "OK"
	return res, nil
}

type filterGroup struct {
	where   string
	columns []string
}

// groupByRowFilter batches columns that share a row filter into one UPDATE,
// keeping sorted column order within and across groups.
func groupByRowFilter(s *strategy.UpdateColumnsTable) []filterGroup {
	index := make(map[string]int)
	var groups []filterGroup

	for _, col := range s.ColumnNames() {
		where := s.Columns[col].RowFilter()
		gi, ok := index[where]
		if !ok {
			gi = len(groups)
			index[where] = gi
			groups = append(groups, filterGroup{where: where})
		}
		groups[gi].columns = append(groups[gi].columns, col)
	}
	return groups
}

func columnExpr(d dialect.Dialect, cs strategy.ColumnStrategy) (string, error) {
	switch c := cs.(type) {
	case *strategy.EmptyColumn:
		return d.EmptyExpr(), nil
	case *strategy.UniqueLoginColumn:
		return d.UniqueLoginExpr(), nil
	case *strategy.UniqueEmailColumn:
		return d.UniqueEmailExpr(), nil
	case *strategy.FakeColumn:
		return d.SeedSelectExpr(d.SeedTableName(), c.Category.Name), nil
	default:
		return "", fmt.Errorf("unhandled column strategy type %T", cs)
	}
}

func fail(res schema.Result, err error) (schema.Result, error) {
	res.Status = "FAILED"
	res.ErrorMsg = err.Error()
	return res, err
}
