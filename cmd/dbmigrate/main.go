package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/willemschots/openidstore/internal"
	"github.com/willemschots/openidstore/internal/db"
	"github.com/willemschots/openidstore/internal/db/migrate"
	"github.com/willemschots/openidstore/migrations"
)

const helpText = `Usage: dbmigrate [sqlite3|postgres] [sqlite_file|postgres_dsn]`

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, helpText)
		os.Exit(1)
	}

	dialect, err := db.ParseDialect(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n%s\n", err, helpText)
		os.Exit(1)
	}

	sqlDB, err := open(dialect, os.Args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*60)
	defer cancel()

	meta := migrate.Metadata{
		AppVersion: internal.BuildRevision,
		Timestamp:  internal.BuildRevisionTime,
	}

	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}

	migrations, err := migrate.RunFS(ctx, sqlDB, dialect, migrations.FS, meta)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to run migrations: %v\n", err)
		os.Exit(1)
	}

	for _, migration := range migrations {
		fmt.Printf("%d: %s\n", migration.Sequence, migration.Filename)
	}
}

func open(dialect db.Dialect, target string) (*sql.DB, error) {
	if dialect == db.DialectPostgres {
		return db.OpenPostgres(target)
	}
	return db.OpenSQLite(target, true)
}
