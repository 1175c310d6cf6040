package dialect

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/darwin-homes/pynonymizer/internal/fake"
)

type MysqlDialect struct{}

func (d *MysqlDialect) GetTablesQuery(schema string) string {
	return `SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE'`
}

func (d *MysqlDialect) GetColumnsQuery(schema string) string {
	return `SELECT TABLE_NAME, COLUMN_NAME FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = ? ORDER BY TABLE_NAME, ORDINAL_POSITION`
}

func (d *MysqlDialect) BeforeTable(tx *sql.Tx, tableName string) error {
	_, err := tx.Exec("SET FOREIGN_KEY_CHECKS = 0")
	return err
}

func (d *MysqlDialect) AfterTable(tx *sql.Tx, tableName string) error {
	_, err := tx.Exec("SET FOREIGN_KEY_CHECKS = 1")
	return err
}

func (d *MysqlDialect) TruncateQuery(table string) string {
	return fmt.Sprintf("TRUNCATE TABLE %s", d.QuoteIdent(table))
}

func (d *MysqlDialect) UpdateQuery(table string, assignments []string, where string) string {
	return BuildUpdateQuery(d.QuoteIdent(table), assignments, where)
}

func (d *MysqlDialect) SeedTableName() string {
	return DefaultSeedTableName
}

func (d *MysqlDialect) CreateSeedTableQuery(table string, categories []*fake.Category) string {
	return BuildCreateSeedTableQuery(d, table, categories)
}

func (d *MysqlDialect) InsertSeedRowQuery(table string, categories []*fake.Category) string {
	return BuildInsertSeedRowQuery(d, table, categories)
}

func (d *MysqlDialect) DropSeedTableQuery(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", d.QuoteIdent(table))
}

func (d *MysqlDialect) EmptyExpr() string {
	return "''"
}

func (d *MysqlDialect) UniqueLoginExpr() string {
	// UUID() is unique per evaluated row, MD5 flattens it to a login-safe token.
	return "MD5(UUID())"
}

func (d *MysqlDialect) UniqueEmailExpr() string {
	return "CONCAT(MD5(UUID()), '@', MD5(UUID()), '.com')"
}

func (d *MysqlDialect) SeedSelectExpr(seedTable string, category string) string {
	return fmt.Sprintf("(SELECT %s FROM %s ORDER BY RAND() LIMIT 1)",
		d.QuoteIdent(category), d.QuoteIdent(seedTable))
}

func (d *MysqlDialect) Placeholder(index int) string {
	return "?"
}

func (d *MysqlDialect) QuoteIdent(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

func (d *MysqlDialect) SeedColumnType(kind fake.Kind) string {
	switch kind {
	case fake.KindInteger:
		return "INT"
	case fake.KindFloat:
		return "DOUBLE"
	case fake.KindDateTime:
		return "DATETIME"
	default:
		return "TEXT"
	}
}

func (d *MysqlDialect) GetSchemaName(input string) string {
	return DefaultGetSchemaName(input)
}
