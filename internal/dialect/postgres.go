package dialect

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/darwin-homes/pynonymizer/internal/fake"
)

type PostgresDialect struct{}

func (d *PostgresDialect) GetTablesQuery(schema string) string {
	// use $1 placeholder
	return `SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = $1 AND TABLE_TYPE = 'BASE TABLE'`
}

func (d *PostgresDialect) GetColumnsQuery(schema string) string {
	return `SELECT TABLE_NAME, COLUMN_NAME FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = $1 ORDER BY TABLE_NAME, ORDINAL_POSITION`
}

func (d *PostgresDialect) BeforeTable(tx *sql.Tx, tableName string) error {
	// session_replication_role skips trigger/FK enforcement but needs
	// superuser, and a denied SET aborts the whole transaction, taking any
	// fallback statement down with it. Check the privilege with a plain read
	// first; deferring the deferrable constraints is the most a regular user
	// can get.
	var superuser string
	if err := tx.QueryRow("SELECT current_setting('is_superuser')").Scan(&superuser); err != nil {
		return fmt.Errorf("superuser check failed: %w", err)
	}
	if superuser == "on" {
		_, err := tx.Exec("SET LOCAL session_replication_role = 'replica'")
		return err
	}
	_, err := tx.Exec("SET CONSTRAINTS ALL DEFERRED")
	return err
}

func (d *PostgresDialect) AfterTable(tx *sql.Tx, tableName string) error {
	// SET LOCAL and SET CONSTRAINTS both expire with the transaction, so
	// there is nothing to reset.
	return nil
}

func (d *PostgresDialect) TruncateQuery(table string) string {
	// CASCADE reaches referencing tables too; without it a referenced table
	// cannot be truncated at all.
	return fmt.Sprintf("TRUNCATE TABLE %s CASCADE", d.QuoteIdent(table))
}

func (d *PostgresDialect) UpdateQuery(table string, assignments []string, where string) string {
	return BuildUpdateQuery(d.QuoteIdent(table), assignments, where)
}

func (d *PostgresDialect) SeedTableName() string {
	return DefaultSeedTableName
}

func (d *PostgresDialect) CreateSeedTableQuery(table string, categories []*fake.Category) string {
	return BuildCreateSeedTableQuery(d, table, categories)
}

func (d *PostgresDialect) InsertSeedRowQuery(table string, categories []*fake.Category) string {
	return BuildInsertSeedRowQuery(d, table, categories)
}

func (d *PostgresDialect) DropSeedTableQuery(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", d.QuoteIdent(table))
}

func (d *PostgresDialect) EmptyExpr() string {
	return "''"
}

func (d *PostgresDialect) UniqueLoginExpr() string {
	return "MD5(RANDOM()::TEXT || CLOCK_TIMESTAMP()::TEXT)"
}

func (d *PostgresDialect) UniqueEmailExpr() string {
	return "MD5(RANDOM()::TEXT || CLOCK_TIMESTAMP()::TEXT) || '@' || MD5(CLOCK_TIMESTAMP()::TEXT || RANDOM()::TEXT) || '.com'"
}

func (d *PostgresDialect) SeedSelectExpr(seedTable string, category string) string {
	// Postgres evaluates an uncorrelated scalar subquery once per statement,
	// so every row of one UPDATE batch shares the sampled value.
	return fmt.Sprintf("(SELECT %s FROM %s ORDER BY RANDOM() LIMIT 1)",
		d.QuoteIdent(category), d.QuoteIdent(seedTable))
}

func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index+1)
}

func (d *PostgresDialect) QuoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func (d *PostgresDialect) SeedColumnType(kind fake.Kind) string {
	switch kind {
	case fake.KindInteger:
		return "INTEGER"
	case fake.KindFloat:
		return "DOUBLE PRECISION"
	case fake.KindDateTime:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

func (d *PostgresDialect) GetSchemaName(input string) string {
	if input == "" {
		return "public"
	}
	return input
}
