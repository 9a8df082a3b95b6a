package db

import "github.com/willemschots/openidstore/internal/openid"

var (
	_ openid.Store = (*Store)(nil)
	_ openid.Tx    = (*Tx)(nil)
)
