package db

import (
	"context"
	"database/sql"

	"github.com/willemschots/openidstore/internal/db"
	"github.com/willemschots/openidstore/internal/openid"
)

// Store is responsible for interacting with a database.
type Store struct {
	dialect db.Dialect
	writeDB *sql.DB
	readDB  *sql.DB
}

// New creates a new Store. Read-only transactions use readDB, all other
// transactions use writeDB. If readDB is nil, writeDB is used for both.
func New(dialect db.Dialect, writeDB, readDB *sql.DB) *Store {
	if readDB == nil {
		readDB = writeDB
	}

	return &Store{
		dialect: dialect,
		writeDB: writeDB,
		readDB:  readDB,
	}
}

// BeginTx starts a new transaction.
func (s *Store) BeginTx(ctx context.Context, opts openid.TxOptions) (openid.Tx, error) {
	var (
		tx  *sql.Tx
		err error
	)

	if opts.ReadOnly {
		tx, err = s.readDB.BeginTx(ctx, s.dialect.ReadTxOptions())
	} else {
		tx, err = s.writeDB.BeginTx(ctx, nil)
	}

	if err != nil {
		return nil, err
	}

	return &Tx{
		tx:       tx,
		store:    s,
		readOnly: opts.ReadOnly,
	}, nil
}

func (s *Store) newQuery() *db.Query {
	return db.NewQuery(s.dialect)
}
