package errorz

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConstraintViolated = errors.New("constraint violated")
	ErrTxBadState         = errors.New("transaction is in a known bad state")
)

// pgIntegrityViolation is the SQLSTATE class for integrity constraint violations.
const pgIntegrityViolation = "23"

// MapDBErr maps database errors to appropriate errorz errors.
// If err is nil, MapDBErr returns nil.
func MapDBErr(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	if errors.Is(err, sql.ErrTxDone) {
		return errors.Join(ErrTxBadState, err)
	}

	sErr := sqlite3.Error{}
	if errors.As(err, &sErr) {
		if sErr.Code == sqlite3.ErrConstraint {
			return errors.Join(ErrConstraintViolated, err)
		}
	}

	var pErr *pq.Error
	if errors.As(err, &pErr) {
		if pErr.Code.Class() == pgIntegrityViolation {
			return errors.Join(ErrConstraintViolated, err)
		}
	}

	return err
}
