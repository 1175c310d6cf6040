package dialect

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/darwin-homes/pynonymizer/internal/fake"
)

type MSSQLDialect struct{}

// Helper: MSSQL Driver (go-mssqldb) often prefers @p1, @p2 named parameters over ?
// especially when prepared statements are involved or simple Exec.

func (d *MSSQLDialect) GetTablesQuery(schema string) string {
	// Use @p1 for schema binding
	return `SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = @p1 AND TABLE_TYPE = 'BASE TABLE'`
}

func (d *MSSQLDialect) GetColumnsQuery(schema string) string {
	return `SELECT TABLE_NAME, COLUMN_NAME FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = @p1 ORDER BY TABLE_NAME, ORDINAL_POSITION`
}

func (d *MSSQLDialect) BeforeTable(tx *sql.Tx, tableName string) error {
	// Disable all constraints on this table so rewrites and deletes are not
	// blocked by FK loops.
	_, err := tx.Exec(fmt.Sprintf("ALTER TABLE %s NOCHECK CONSTRAINT all", d.QuoteIdent(tableName)))
	return err
}

func (d *MSSQLDialect) AfterTable(tx *sql.Tx, tableName string) error {
	// WITH CHECK CHECK re-enables and validates existing rows.
	_, err := tx.Exec(fmt.Sprintf("ALTER TABLE %s WITH CHECK CHECK CONSTRAINT all", d.QuoteIdent(tableName)))
	return err
}

func (d *MSSQLDialect) TruncateQuery(table string) string {
	// T-SQL refuses TRUNCATE on tables referenced by any foreign key, even a
	// disabled one. DELETE achieves the strategy's outcome on such tables.
	return fmt.Sprintf("DELETE FROM %s", d.QuoteIdent(table))
}

func (d *MSSQLDialect) UpdateQuery(table string, assignments []string, where string) string {
	return BuildUpdateQuery(d.QuoteIdent(table), assignments, where)
}

func (d *MSSQLDialect) SeedTableName() string {
	return DefaultSeedTableName
}

func (d *MSSQLDialect) CreateSeedTableQuery(table string, categories []*fake.Category) string {
	return BuildCreateSeedTableQuery(d, table, categories)
}

func (d *MSSQLDialect) InsertSeedRowQuery(table string, categories []*fake.Category) string {
	return BuildInsertSeedRowQuery(d, table, categories)
}

func (d *MSSQLDialect) DropSeedTableQuery(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", d.QuoteIdent(table))
}

func (d *MSSQLDialect) EmptyExpr() string {
	return "''"
}

func (d *MSSQLDialect) UniqueLoginExpr() string {
	return "LOWER(CONVERT(VARCHAR(32), HASHBYTES('MD5', CAST(NEWID() AS VARCHAR(36))), 2))"
}

func (d *MSSQLDialect) UniqueEmailExpr() string {
	return "LOWER(CONVERT(VARCHAR(32), HASHBYTES('MD5', CAST(NEWID() AS VARCHAR(36))), 2)) + '@' + " +
		"LOWER(CONVERT(VARCHAR(32), HASHBYTES('MD5', CAST(NEWID() AS VARCHAR(36))), 2)) + '.com'"
}

func (d *MSSQLDialect) SeedSelectExpr(seedTable string, category string) string {
	return fmt.Sprintf("(SELECT TOP 1 %s FROM %s ORDER BY NEWID())",
		d.QuoteIdent(category), d.QuoteIdent(seedTable))
}

func (d *MSSQLDialect) Placeholder(index int) string {
	return fmt.Sprintf("@p%d", index+1)
}

func (d *MSSQLDialect) QuoteIdent(ident string) string {
	return "[" + strings.ReplaceAll(ident, "]", "]]") + "]"
}

func (d *MSSQLDialect) SeedColumnType(kind fake.Kind) string {
	switch kind {
	case fake.KindInteger:
		return "INT"
	case fake.KindFloat:
		return "FLOAT"
	case fake.KindDateTime:
		return "DATETIME2"
	default:
		return "NVARCHAR(MAX)"
	}
}

func (d *MSSQLDialect) GetSchemaName(input string) string {
	if input == "" {
		return "dbo"
	}
	return input
}
