package db

import (
	"database/sql"
	"fmt"
	"strconv"
)

// Dialect identifies the SQL flavour spoken by a database.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
)

// ParseDialect parses a driver name into a Dialect.
func ParseDialect(raw string) (Dialect, error) {
	switch d := Dialect(raw); d {
	case DialectSQLite, DialectPostgres:
		return d, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", raw)
	}
}

// DriverName returns the name the database/sql driver is registered under.
func (d Dialect) DriverName() string {
	return string(d)
}

// placeholder returns the bind parameter for the n-th parameter (1-based).
func (d Dialect) placeholder(n int) string {
	if d == DialectPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// ReadTxOptions returns the options used for read-only transactions.
//
// The SQLite driver rejects isolation levels other than the default, read-only
// access is enforced by the read pool instead.
func (d Dialect) ReadTxOptions() *sql.TxOptions {
	if d == DialectPostgres {
		return &sql.TxOptions{
			Isolation: sql.LevelReadCommitted,
			ReadOnly:  true,
		}
	}
	return nil
}
