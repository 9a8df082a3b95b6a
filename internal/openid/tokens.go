package openid

import (
	"context"
	"log/slog"
)

// TokenStore issues and redeems OpenID tokens.
//
// Tokens are not single use: a token can be redeemed any number of times
// until it expires. Uniqueness of token values is left to the issuer.
type TokenStore struct {
	store  Store
	logger *slog.Logger
}

// NewTokenStore creates a new TokenStore. A nil logger discards all output.
func NewTokenStore(s Store, logger *slog.Logger) *TokenStore {
	return &TokenStore{
		store:  s,
		logger: loggerOrDiscard(logger),
	}
}

// Create persists a token for userID that is valid until validUntilMS (inclusive).
// The values are stored verbatim.
func (s *TokenStore) Create(ctx context.Context, token string, validUntilMS int64, userID string) error {
	tok := VerificationToken{
		Token:        token,
		ValidUntilMS: validUntilMS,
		UserID:       userID,
	}

	return runInteraction(ctx, s.store, s.logger, "insert_open_id_token", TxOptions{}, func(tx Tx) error {
		return tx.CreateToken(tok)
	})
}

// Redeem returns the user id of token if it is still valid at nowMS.
// ok is false if the token does not exist or has expired.
//
// If multiple rows share the token value, the user id of the first row the
// storage engine returns is used.
func (s *TokenStore) Redeem(ctx context.Context, token string, nowMS int64) (userID string, ok bool, err error) {
	err = runInteraction(ctx, s.store, s.logger, "get_user_id_for_token", TxOptions{ReadOnly: true}, func(tx Tx) error {
		toks, err := tx.FindTokens(&TokenFilter{
			Tokens:    []string{token},
			ValidAtMS: &nowMS,
		})
		if err != nil {
			return err
		}

		if len(toks) == 0 {
			return nil
		}

		userID, ok = toks[0].UserID, true
		return nil
	})
	if err != nil {
		return "", false, err
	}

	return userID, ok, nil
}
