package db

import (
	"database/sql"
	"fmt"

	"github.com/willemschots/openidstore/internal/errorz"
	"github.com/willemschots/openidstore/internal/openid"
)

// Tx is a database transaction created by Store.BeginTx.
type Tx struct {
	tx       *sql.Tx
	store    *Store
	readOnly bool
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction.
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// CreateToken inserts a token into the database.
// It returns errorz.ErrTxBadState when called on a read-only transaction.
func (t *Tx) CreateToken(tok openid.VerificationToken) error {
	if t.readOnly {
		return fmt.Errorf("insert in read-only transaction: %w", errorz.ErrTxBadState)
	}
	return insertToken(t.store.newQuery(), t.tx.Exec, tok)
}

// FindTokens queries for tokens based on the provided filter.
// The order of the returned tokens is undefined.
func (t *Tx) FindTokens(filter *openid.TokenFilter) ([]openid.VerificationToken, error) {
	return selectTokens(t.store.newQuery(), t.tx.Query, filter)
}

// FindThreepids queries for third party identifiers based on the provided filter.
func (t *Tx) FindThreepids(filter *openid.ThreepidFilter) ([]openid.ThirdPartyIdentifier, error) {
	return selectThreepids(t.store.newQuery(), t.tx.Query, filter)
}

// FindProfiles queries for profiles based on the provided filter.
func (t *Tx) FindProfiles(filter *openid.ProfileFilter) ([]openid.Profile, error) {
	return selectProfiles(t.store.newQuery(), t.tx.Query, filter)
}
