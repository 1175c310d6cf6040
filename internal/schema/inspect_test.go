package schema_test

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darwin-homes/pynonymizer/internal/dialect"
	"github.com/darwin-homes/pynonymizer/internal/schema"
)

func TestInspect(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT TABLE_NAME FROM information_schema.TABLES").
		WithArgs("appdb").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME"}).
			AddRow("accounts").
			AddRow("transactions"))

	mock.ExpectQuery("SELECT TABLE_NAME, COLUMN_NAME FROM information_schema.COLUMNS").
		WithArgs("appdb").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME", "COLUMN_NAME"}).
			AddRow("accounts", "id").
			AddRow("accounts", "email").
			AddRow("accounts", "name").
			AddRow("transactions", "id").
			AddRow("other_schema_table", "ignored"))

	live, err := schema.Inspect(db, dialect.GetDialect("mysql"), "appdb")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, 2, live.Len())
	assert.Equal(t, []string{"accounts", "transactions"}, live.Names())

	accounts, ok := live.Table("accounts")
	require.True(t, ok)
	assert.Equal(t, []string{"id", "email", "name"}, accounts.Columns)
	assert.True(t, accounts.HasColumn("email"))
	assert.True(t, accounts.HasColumn("EMAIL"), "column matching is case-insensitive")
	assert.False(t, accounts.HasColumn("missing"))

	_, ok = live.Table("ACCOUNTS")
	assert.True(t, ok, "table lookup is case-insensitive")

	_, ok = live.Table("nope")
	assert.False(t, ok)
}

func TestInspectTableQueryFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT TABLE_NAME FROM information_schema.TABLES").
		WillReturnError(errors.New("connection refused"))

	_, err = schema.Inspect(db, dialect.GetDialect("mysql"), "appdb")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query tables")
}

func TestInspectColumnQueryFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT TABLE_NAME FROM information_schema.TABLES").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME"}).AddRow("accounts"))
	mock.ExpectQuery("SELECT TABLE_NAME, COLUMN_NAME FROM information_schema.COLUMNS").
		WillReturnError(errors.New("permission denied"))

	_, err = schema.Inspect(db, dialect.GetDialect("mysql"), "appdb")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query columns")
}
