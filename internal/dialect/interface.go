package dialect

import (
	"database/sql"

	"github.com/darwin-homes/pynonymizer/internal/fake"
)

// Dialect abstracts database-specific operations.
type Dialect interface {
	// Metadata Queries (Schema Introspection)
	GetTablesQuery(schema string) string
	GetColumnsQuery(schema string) string

	// Execution Hooks (Table Level) - constraint/session handling around
	// destructive statements.
	BeforeTable(tx *sql.Tx, tableName string) error
	AfterTable(tx *sql.Tx, tableName string) error

	// Query Generation
	TruncateQuery(table string) string
	UpdateQuery(table string, assignments []string, where string) string

	// Seed Table Lifecycle
	SeedTableName() string
	CreateSeedTableQuery(table string, categories []*fake.Category) string
	InsertSeedRowQuery(table string, categories []*fake.Category) string
	DropSeedTableQuery(table string) string

	// Column Value Expressions
	EmptyExpr() string
	UniqueLoginExpr() string
	UniqueEmailExpr() string
	SeedSelectExpr(seedTable string, category string) string

	// Helpers
	Placeholder(index int) string // Returns ?, $1, @p1, etc.
	QuoteIdent(ident string) string
	SeedColumnType(kind fake.Kind) string
	GetSchemaName(input string) string
}
