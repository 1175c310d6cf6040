package cmd

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type DBConfig struct {
	Name   string `mapstructure:"name"`
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Schema string `mapstructure:"schema"`
	Active bool   `mapstructure:"active"`
}

// GetActiveDBConfig returns the currently active database configuration.
// Config files may carry a "databases" list with exactly one entry marked
// active, or plain "database.*" keys (which the connection flags also bind to).
func GetActiveDBConfig() (*DBConfig, error) {
	var configs []DBConfig

	if err := viper.UnmarshalKey("databases", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse databases config: %w", err)
	}

	var activeConfig *DBConfig
	count := 0

	for i := range configs {
		if configs[i].Active {
			activeConfig = &configs[i]
			count++
		}
	}

	if count > 1 {
		return nil, fmt.Errorf("multiple active databases found (only one can be active)")
	}
	if count == 1 {
		activeConfig.Driver = ResolveDriver(activeConfig.Driver, activeConfig.DSN)
		return activeConfig, nil
	}

	// No databases list: fall back to flat keys (flag > config > env).
	connStr := viper.GetString("database.dsn")
	if connStr == "" {
		return nil, fmt.Errorf("database.dsn is required (via flag or config)")
	}
	return &DBConfig{
		Name:   "default",
		Driver: ResolveDriver(viper.GetString("database.driver"), connStr),
		DSN:    connStr,
		Schema: viper.GetString("database.schema"),
		Active: true,
	}, nil
}

// ResolveDriver returns the explicit driver if one was configured, otherwise
// sniffs the DSN. Only postgres DSNs are reliably recognizable; everything
// else defaults to mysql.
func ResolveDriver(explicit, connStr string) string {
	if explicit != "" {
		return explicit
	}
	if strings.Contains(connStr, "postgres") || strings.Contains(connStr, "sslmode") {
		return "postgres"
	}
	return "mysql"
}

// resolveSchemaName picks the schema to inspect: an explicit configuration
// wins, otherwise each driver has a usual default. MySQL has no schema
// concept apart from the database itself, so ask the server which one the
// DSN selected.
func resolveSchemaName(db *sql.DB, driver, configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	switch driver {
	case "mysql":
		// DATABASE() is NULL when the DSN names no database.
		var name sql.NullString
		if err := db.QueryRow("SELECT DATABASE()").Scan(&name); err != nil {
			return "", fmt.Errorf("failed to get database name: %w", err)
		}
		if !name.Valid || name.String == "" {
			return "", fmt.Errorf("no database selected in DSN")
		}
		return name.String, nil
	case "sqlserver", "mssql":
		return "dbo", nil
	case "oracle":
		// go-ora connects as a specific user; USER_TABLES scopes the rest.
		return "", nil
	default:
		return "public", nil
	}
}
