package dialect_test

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darwin-homes/pynonymizer/internal/dialect"
	"github.com/darwin-homes/pynonymizer/internal/fake"
)

func TestGetDialect(t *testing.T) {
	assert.IsType(t, &dialect.MysqlDialect{}, dialect.GetDialect("mysql"))
	assert.IsType(t, &dialect.PostgresDialect{}, dialect.GetDialect("postgres"))
	assert.IsType(t, &dialect.MSSQLDialect{}, dialect.GetDialect("sqlserver"))
	assert.IsType(t, &dialect.MSSQLDialect{}, dialect.GetDialect("mssql"))
	assert.IsType(t, &dialect.OracleDialect{}, dialect.GetDialect("oracle"))
	assert.IsType(t, &dialect.MysqlDialect{}, dialect.GetDialect("anything-else"))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?", dialect.GetDialect("mysql").Placeholder(0))
	assert.Equal(t, "$1", dialect.GetDialect("postgres").Placeholder(0))
	assert.Equal(t, "@p3", dialect.GetDialect("sqlserver").Placeholder(2))
	assert.Equal(t, ":2", dialect.GetDialect("oracle").Placeholder(1))

	mysql := dialect.GetDialect("mysql")
	assert.Equal(t, "?, ?, ?", dialect.GeneratePlaceholders(3, mysql.Placeholder))

	pg := dialect.GetDialect("postgres")
	assert.Equal(t, "$1, $2", dialect.GeneratePlaceholders(2, pg.Placeholder))
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, "`accounts`", dialect.GetDialect("mysql").QuoteIdent("accounts"))
	assert.Equal(t, "`odd``name`", dialect.GetDialect("mysql").QuoteIdent("odd`name"))
	assert.Equal(t, `"accounts"`, dialect.GetDialect("postgres").QuoteIdent("accounts"))
	assert.Equal(t, "[accounts]", dialect.GetDialect("sqlserver").QuoteIdent("accounts"))
	assert.Equal(t, "[odd]]name]", dialect.GetDialect("sqlserver").QuoteIdent("odd]name"))
	// Oracle identifiers stay unquoted: quoting would make them case sensitive.
	assert.Equal(t, "accounts", dialect.GetDialect("oracle").QuoteIdent("accounts"))
}

func TestTruncateQueries(t *testing.T) {
	assert.Equal(t, "TRUNCATE TABLE `transactions`",
		dialect.GetDialect("mysql").TruncateQuery("transactions"))
	assert.Equal(t, `TRUNCATE TABLE "transactions" CASCADE`,
		dialect.GetDialect("postgres").TruncateQuery("transactions"))
	// MSSQL cannot truncate FK-referenced tables, so it deletes instead.
	assert.Equal(t, "DELETE FROM [transactions]",
		dialect.GetDialect("sqlserver").TruncateQuery("transactions"))
	assert.Equal(t, "TRUNCATE TABLE transactions",
		dialect.GetDialect("oracle").TruncateQuery("transactions"))
}

func TestUpdateQuery(t *testing.T) {
	mysql := dialect.GetDialect("mysql")

	q := mysql.UpdateQuery("accounts", []string{"`name` = ''", "`email` = MD5(UUID())"}, "")
	assert.Equal(t, "UPDATE `accounts` SET `name` = '', `email` = MD5(UUID())", q)

	q = mysql.UpdateQuery("accounts", []string{"`name` = ''"}, "created_at > '2020-01-01'")
	assert.Equal(t, "UPDATE `accounts` SET `name` = '' WHERE created_at > '2020-01-01'", q)
}

func TestSeedTableQueries(t *testing.T) {
	categories := []*fake.Category{
		{Name: "email", Kind: fake.KindString},
		{Name: "age", Kind: fake.KindInteger},
		{Name: "date_time", Kind: fake.KindDateTime},
	}

	mysql := dialect.GetDialect("mysql")
	assert.Equal(t,
		"CREATE TABLE `_pynonymizer_seed` (`email` TEXT, `age` INT, `date_time` DATETIME)",
		mysql.CreateSeedTableQuery(mysql.SeedTableName(), categories))
	assert.Equal(t,
		"INSERT INTO `_pynonymizer_seed` (`email`, `age`, `date_time`) VALUES (?, ?, ?)",
		mysql.InsertSeedRowQuery(mysql.SeedTableName(), categories))
	assert.Equal(t,
		"DROP TABLE IF EXISTS `_pynonymizer_seed`",
		mysql.DropSeedTableQuery(mysql.SeedTableName()))

	pg := dialect.GetDialect("postgres")
	assert.Equal(t,
		`CREATE TABLE "_pynonymizer_seed" ("email" TEXT, "age" INTEGER, "date_time" TIMESTAMP)`,
		pg.CreateSeedTableQuery(pg.SeedTableName(), categories))
	assert.Equal(t,
		`INSERT INTO "_pynonymizer_seed" ("email", "age", "date_time") VALUES ($1, $2, $3)`,
		pg.InsertSeedRowQuery(pg.SeedTableName(), categories))

	oracle := dialect.GetDialect("oracle")
	require.Equal(t, "PYNONYMIZER_SEED", oracle.SeedTableName(),
		"oracle identifiers cannot start with an underscore")
	assert.Equal(t,
		"INSERT INTO PYNONYMIZER_SEED (email, age, date_time) VALUES (:1, :2, :3)",
		oracle.InsertSeedRowQuery(oracle.SeedTableName(), categories))
}

func TestSeedSelectExpr(t *testing.T) {
	assert.Equal(t,
		"(SELECT `email` FROM `_pynonymizer_seed` ORDER BY RAND() LIMIT 1)",
		dialect.GetDialect("mysql").SeedSelectExpr("_pynonymizer_seed", "email"))
	assert.Equal(t,
		`(SELECT "email" FROM "_pynonymizer_seed" ORDER BY RANDOM() LIMIT 1)`,
		dialect.GetDialect("postgres").SeedSelectExpr("_pynonymizer_seed", "email"))
	assert.Equal(t,
		"(SELECT TOP 1 [email] FROM [_pynonymizer_seed] ORDER BY NEWID())",
		dialect.GetDialect("sqlserver").SeedSelectExpr("_pynonymizer_seed", "email"))
	assert.Equal(t,
		"(SELECT email FROM (SELECT email FROM PYNONYMIZER_SEED ORDER BY DBMS_RANDOM.VALUE) WHERE ROWNUM = 1)",
		dialect.GetDialect("oracle").SeedSelectExpr("PYNONYMIZER_SEED", "email"))
}

func TestUniqueExprsDifferPerRow(t *testing.T) {
	// The expressions must re-evaluate per row: reject obviously constant SQL.
	for _, driver := range []string{"mysql", "postgres", "sqlserver", "oracle"} {
		d := dialect.GetDialect(driver)
		assert.NotEmpty(t, d.UniqueLoginExpr(), driver)
		assert.Contains(t, d.UniqueEmailExpr(), ".com", driver)
		assert.NotEqual(t, d.UniqueLoginExpr(), d.EmptyExpr(), driver)
	}
}

func TestSeedColumnTypesCoverAllKinds(t *testing.T) {
	kinds := []fake.Kind{fake.KindString, fake.KindInteger, fake.KindFloat, fake.KindDateTime}
	for _, driver := range []string{"mysql", "postgres", "sqlserver", "oracle"} {
		d := dialect.GetDialect(driver)
		for _, kind := range kinds {
			assert.NotEmpty(t, d.SeedColumnType(kind), "%s/%s", driver, kind)
		}
	}
}

// hookTx hands the hooks a transaction backed by sqlmock, matching
// statements verbatim.
func hookTx(t *testing.T) (*sql.Tx, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)
	return tx, mock
}

func TestPostgresBeforeTableUsesReplicationRoleForSuperuser(t *testing.T) {
	tx, mock := hookTx(t)
	mock.ExpectQuery("SELECT current_setting('is_superuser')").
		WillReturnRows(sqlmock.NewRows([]string{"current_setting"}).AddRow("on"))
	mock.ExpectExec("SET LOCAL session_replication_role = 'replica'").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, dialect.GetDialect("postgres").BeforeTable(tx, "accounts"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBeforeTableDefersConstraintsWithoutSuperuser(t *testing.T) {
	tx, mock := hookTx(t)
	mock.ExpectQuery("SELECT current_setting('is_superuser')").
		WillReturnRows(sqlmock.NewRows([]string{"current_setting"}).AddRow("off"))
	mock.ExpectExec("SET CONSTRAINTS ALL DEFERRED").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, dialect.GetDialect("postgres").BeforeTable(tx, "accounts"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAfterTableIssuesNoStatements(t *testing.T) {
	tx, mock := hookTx(t)

	// SET LOCAL and SET CONSTRAINTS expire with the transaction; a reset
	// statement here would be the one thing a regular user cannot run.
	require.NoError(t, dialect.GetDialect("postgres").AfterTable(tx, "accounts"))
	require.NoError(t, mock.ExpectationsWereMet())
}
