package openid

import (
	"context"
)

// TokenFilter is used to filter tokens.
// Returned tokens must match all the provided fields.
// If a field is empty or nil, it's ignored.
type TokenFilter struct {
	Tokens []string
	// ValidAtMS matches tokens that have not expired at this timestamp.
	ValidAtMS *int64
}

// ThreepidFilter is used to filter third party identifiers.
// Returned identifiers must match all the provided fields.
// If a field is empty, it's ignored.
type ThreepidFilter struct {
	UserIDs []string
	Media   []string
}

// ProfileFilter is used to filter profiles.
// If a field is empty, it's ignored.
type ProfileFilter struct {
	Localparts []string
}

// TxOptions configures a transaction.
type TxOptions struct {
	ReadOnly bool
}

// Store provides access to the underlying storage engine.
type Store interface {
	BeginTx(ctx context.Context, opts TxOptions) (Tx, error)
}

// Tx is a transaction. If an error occurs on any of the Create/Find methods,
// the transaction is considered to have failed and should be rolled back.
// Find methods return an empty slice if nothing matches.
// Tx is not safe for concurrent use.
type Tx interface {
	Commit() error
	Rollback() error

	CreateToken(tok VerificationToken) error
	FindTokens(filter *TokenFilter) ([]VerificationToken, error)

	FindThreepids(filter *ThreepidFilter) ([]ThirdPartyIdentifier, error)
	FindProfiles(filter *ProfileFilter) ([]Profile, error)
}
