package testdb

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/willemschots/openidstore/internal/db"
	"github.com/willemschots/openidstore/internal/db/migrate"
	"github.com/willemschots/openidstore/migrations"
)

// PostgresDSNEnv names the environment variable that enables tests against Postgres.
const PostgresDSNEnv = "TEST_POSTGRES_DSN"

// RunWhile runs a database while the provided test is executing.
// It returns an empty database with all migrations applied.
func RunWhile(t *testing.T, write bool) *sql.DB {
	t.Helper()

	sqlDB := RunUnmigratedWhile(t, write)
	runMigrations(t, sqlDB, db.DialectSQLite)

	return sqlDB
}

// RunUnmigratedWhile runs a database while the provided test is executing.
// It returns an empty database without any migrations applied.
func RunUnmigratedWhile(t *testing.T, write bool) *sql.DB {
	t.Helper()

	sqlDB, err := db.OpenSQLite(":memory:", write)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	closeOnCleanup(t, sqlDB)

	return sqlDB
}

// RunPostgresWhile connects to the Postgres database named by TEST_POSTGRES_DSN
// and applies all migrations. The test is skipped when the variable is not set.
// Tables are emptied when the test finishes.
func RunPostgresWhile(t *testing.T) *sql.DB {
	t.Helper()

	dsn, ok := os.LookupEnv(PostgresDSNEnv)
	if !ok || dsn == "" {
		t.Skipf("%s not set, skipping postgres test", PostgresDSNEnv)
	}

	sqlDB, err := db.OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	closeOnCleanup(t, sqlDB)
	runMigrations(t, sqlDB, db.DialectPostgres)

	// Cleanups run last-in-first-out, so the tables are emptied before closing.
	t.Cleanup(func() {
		_, err := sqlDB.Exec(`TRUNCATE open_id_tokens, user_threepids, profiles`)
		if err != nil {
			t.Errorf("failed to truncate tables: %v", err)
		}
	})

	return sqlDB
}

func runMigrations(t *testing.T, sqlDB *sql.DB, dialect db.Dialect) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := migrate.RunFS(ctx, sqlDB, dialect, migrations.FS, migrate.Metadata{})
	if err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
}

func closeOnCleanup(t *testing.T, sqlDB *sql.DB) {
	t.Helper()

	t.Cleanup(func() {
		err := sqlDB.Close()
		if err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})
}
