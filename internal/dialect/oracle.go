package dialect

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/darwin-homes/pynonymizer/internal/fake"
)

type OracleDialect struct{}

func (d *OracleDialect) GetTablesQuery(schema string) string {
	// Oracle doesn't have a "schema" string concept in quite the same way for current user tables.
	// USER_TABLES lists tables owned by the current user.
	// We include a dummy clause to consume the schema argument if passed by standard callers.
	return `SELECT TABLE_NAME FROM USER_TABLES WHERE :1 IS NOT NULL`
}

func (d *OracleDialect) GetColumnsQuery(schema string) string {
	return `SELECT TABLE_NAME, COLUMN_NAME FROM USER_TAB_COLUMNS WHERE :1 IS NOT NULL ORDER BY TABLE_NAME, COLUMN_ID`
}

func (d *OracleDialect) BeforeTable(tx *sql.Tx, tableName string) error {
	// 1. Set NLS Formats so pre-formatted datetime strings bind cleanly.
	if _, err := tx.Exec("ALTER SESSION SET NLS_DATE_FORMAT = 'YYYY-MM-DD HH24:MI:SS'"); err != nil {
		return fmt.Errorf("failed to set NLS_DATE_FORMAT: %w", err)
	}
	if _, err := tx.Exec("ALTER SESSION SET NLS_TIMESTAMP_FORMAT = 'YYYY-MM-DD HH24:MI:SS'"); err != nil {
		return fmt.Errorf("failed to set NLS_TIMESTAMP_FORMAT: %w", err)
	}

	// 2. Disable the FK constraints referencing this table, otherwise a
	// truncate is rejected outright.
	// Note: In Oracle, DDL (ALTER) implicitly commits the transaction.
	constraints, err := d.referencingConstraints(tx, tableName, "ENABLED")
	if err != nil {
		return err
	}
	for _, c := range constraints {
		query := fmt.Sprintf("ALTER TABLE %s DISABLE CONSTRAINT %s", c.Table, c.Name)
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to disable constraint %s on %s: %w", c.Name, c.Table, err)
		}
	}
	return nil
}

func (d *OracleDialect) AfterTable(tx *sql.Tx, tableName string) error {
	constraints, err := d.referencingConstraints(tx, tableName, "DISABLED")
	if err != nil {
		return err
	}
	for _, c := range constraints {
		query := fmt.Sprintf("ALTER TABLE %s ENABLE CONSTRAINT %s", c.Table, c.Name)
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to enable constraint %s on %s: %w", c.Name, c.Table, err)
		}
	}
	return nil
}

type oracleConstraint struct {
	Table string
	Name  string
}

// referencingConstraints lists the R-type constraints in the given status
// that point at the table. Oracle stores unquoted identifiers upper case.
func (d *OracleDialect) referencingConstraints(tx *sql.Tx, tableName, status string) ([]oracleConstraint, error) {
	rows, err := tx.Query(`SELECT TABLE_NAME, CONSTRAINT_NAME FROM USER_CONSTRAINTS
WHERE CONSTRAINT_TYPE = 'R' AND STATUS = :1
AND R_CONSTRAINT_NAME IN (SELECT CONSTRAINT_NAME FROM USER_CONSTRAINTS WHERE TABLE_NAME = :2)`,
		status, strings.ToUpper(tableName))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var constraints []oracleConstraint
	for rows.Next() {
		var c oracleConstraint
		if err := rows.Scan(&c.Table, &c.Name); err != nil {
			return nil, err
		}
		constraints = append(constraints, c)
	}
	return constraints, rows.Err()
}

func (d *OracleDialect) TruncateQuery(table string) string {
	return fmt.Sprintf("TRUNCATE TABLE %s", d.QuoteIdent(table))
}

func (d *OracleDialect) UpdateQuery(table string, assignments []string, where string) string {
	return BuildUpdateQuery(d.QuoteIdent(table), assignments, where)
}

func (d *OracleDialect) SeedTableName() string {
	// Unquoted Oracle identifiers must start with a letter.
	return "PYNONYMIZER_SEED"
}

func (d *OracleDialect) CreateSeedTableQuery(table string, categories []*fake.Category) string {
	return BuildCreateSeedTableQuery(d, table, categories)
}

func (d *OracleDialect) InsertSeedRowQuery(table string, categories []*fake.Category) string {
	return BuildInsertSeedRowQuery(d, table, categories)
}

func (d *OracleDialect) DropSeedTableQuery(table string) string {
	// No IF EXISTS before 23c; callers treat drop failures as non-fatal.
	return fmt.Sprintf("DROP TABLE %s", d.QuoteIdent(table))
}

func (d *OracleDialect) EmptyExpr() string {
	// Oracle folds '' to NULL, which still blanks the column out.
	return "''"
}

func (d *OracleDialect) UniqueLoginExpr() string {
	return "LOWER(RAWTOHEX(SYS_GUID()))"
}

func (d *OracleDialect) UniqueEmailExpr() string {
	return "LOWER(RAWTOHEX(SYS_GUID())) || '@' || LOWER(RAWTOHEX(SYS_GUID())) || '.com'"
}

func (d *OracleDialect) SeedSelectExpr(seedTable string, category string) string {
	return fmt.Sprintf("(SELECT %s FROM (SELECT %s FROM %s ORDER BY DBMS_RANDOM.VALUE) WHERE ROWNUM = 1)",
		d.QuoteIdent(category), d.QuoteIdent(category), d.QuoteIdent(seedTable))
}

func (d *OracleDialect) Placeholder(index int) string {
	// Oracle uses :1, :2, etc. (1-based index)
	return fmt.Sprintf(":%d", index+1)
}

func (d *OracleDialect) QuoteIdent(ident string) string {
	// Oracle names are case sensitive if quoted, but typically stored upper case.
	// We use standard identifiers.
	return ident
}

func (d *OracleDialect) SeedColumnType(kind fake.Kind) string {
	switch kind {
	case fake.KindInteger:
		return "NUMBER(19)"
	case fake.KindFloat:
		return "BINARY_DOUBLE"
	case fake.KindDateTime:
		return "TIMESTAMP"
	default:
		return "VARCHAR2(4000)"
	}
}

func (d *OracleDialect) GetSchemaName(input string) string {
	return input
}
