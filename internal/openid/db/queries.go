package db

import (
	"database/sql"

	"github.com/willemschots/openidstore/internal/db"
	"github.com/willemschots/openidstore/internal/errorz"
	"github.com/willemschots/openidstore/internal/openid"
)

type execFunc func(query string, params ...any) (sql.Result, error)
type queryFunc func(query string, params ...any) (*sql.Rows, error)

func insertToken(q *db.Query, ef execFunc, tok openid.VerificationToken) error {
	q.Unsafe(`INSERT INTO open_id_tokens (token, ts_valid_until_ms, user_id) VALUES (`)
	q.Params(tok.Token, tok.ValidUntilMS, tok.UserID)
	q.Unsafe(`)`)

	s, params := q.Get()

	_, err := ef(s, params...)
	if err != nil {
		return errorz.MapDBErr(err)
	}

	return nil
}

func selectTokens(q *db.Query, qf queryFunc, f *openid.TokenFilter) ([]openid.VerificationToken, error) {
	q.Unsafe(`SELECT token, ts_valid_until_ms, user_id FROM open_id_tokens WHERE 1=1 `)

	if len(f.Tokens) > 0 {
		q.Unsafe(`AND token IN (`)
		q.Params(anySlice(f.Tokens)...)
		q.Unsafe(`) `)
	}

	if f.ValidAtMS != nil {
		// inclusive, a token is valid through its expiry timestamp.
		q.Unsafe(`AND `)
		q.Param(*f.ValidAtMS)
		q.Unsafe(` <= ts_valid_until_ms `)
	}

	return queryRows(q, qf, func(rows *sql.Rows) (openid.VerificationToken, error) {
		var tok openid.VerificationToken
		err := rows.Scan(&tok.Token, &tok.ValidUntilMS, &tok.UserID)
		return tok, err
	})
}

func selectThreepids(q *db.Query, qf queryFunc, f *openid.ThreepidFilter) ([]openid.ThirdPartyIdentifier, error) {
	q.Unsafe(`SELECT user_id, medium, address FROM user_threepids WHERE 1=1 `)

	if len(f.UserIDs) > 0 {
		q.Unsafe(`AND user_id IN (`)
		q.Params(anySlice(f.UserIDs)...)
		q.Unsafe(`) `)
	}

	if len(f.Media) > 0 {
		q.Unsafe(`AND medium IN (`)
		q.Params(anySlice(f.Media)...)
		q.Unsafe(`) `)
	}

	return queryRows(q, qf, func(rows *sql.Rows) (openid.ThirdPartyIdentifier, error) {
		var pid openid.ThirdPartyIdentifier
		err := rows.Scan(&pid.UserID, &pid.Medium, &pid.Address)
		return pid, err
	})
}

func selectProfiles(q *db.Query, qf queryFunc, f *openid.ProfileFilter) ([]openid.Profile, error) {
	q.Unsafe(`SELECT user_id, displayname FROM profiles WHERE 1=1 `)

	if len(f.Localparts) > 0 {
		q.Unsafe(`AND user_id IN (`)
		q.Params(anySlice(f.Localparts)...)
		q.Unsafe(`) `)
	}

	return queryRows(q, qf, func(rows *sql.Rows) (openid.Profile, error) {
		var (
			p    openid.Profile
			name sql.NullString
		)

		err := rows.Scan(&p.Localpart, &name)
		if err != nil {
			return p, err
		}

		if name.Valid {
			p.DisplayName = &name.String
		}

		return p, nil
	})
}

// queryRows runs the query and scans every row with scan.
// It returns an empty slice if there are no rows.
func queryRows[T any](q *db.Query, qf queryFunc, scan func(*sql.Rows) (T, error)) ([]T, error) {
	s, params := q.Get()

	rows, err := qf(s, params...)
	if err != nil {
		return nil, errorz.MapDBErr(err)
	}

	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, errorz.MapDBErr(err)
		}

		out = append(out, v)
	}

	if err := rows.Err(); err != nil {
		return nil, errorz.MapDBErr(err)
	}

	return out, nil
}

func anySlice[T any](s []T) []any {
	out := make([]any, 0, len(s))
	for _, v := range s {
		out = append(out, v)
	}
	return out
}
