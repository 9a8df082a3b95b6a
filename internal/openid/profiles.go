package openid

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/willemschots/openidstore/internal/errorz"
	"github.com/willemschots/openidstore/internal/userid"
)

// ProfileResolver looks up profile attributes of users. It never writes.
type ProfileResolver struct {
	store  Store
	logger *slog.Logger
}

// NewProfileResolver creates a new ProfileResolver. A nil logger discards all output.
func NewProfileResolver(s Store, logger *slog.Logger) *ProfileResolver {
	return &ProfileResolver{
		store:  s,
		logger: loggerOrDiscard(logger),
	}
}

// Email returns an email address of userID. ok is false if the user has none.
// If the user has more than one email address, which one is returned is undefined.
func (r *ProfileResolver) Email(ctx context.Context, userID string) (address string, ok bool, err error) {
	err = runInteraction(ctx, r.store, r.logger, "get_user_email", TxOptions{ReadOnly: true}, func(tx Tx) error {
		pids, err := tx.FindThreepids(&ThreepidFilter{
			UserIDs: []string{userID},
			Media:   []string{MediumEmail},
		})
		if err != nil {
			return err
		}

		// a user can have several email addresses, any one of them is returned.
		if len(pids) > 0 {
			address, ok = pids[0].Address, true
		}
		return nil
	})
	if err != nil {
		return "", false, err
	}

	return address, ok, nil
}

// DisplayName returns the display name of userID. ok is false if userID is not
// a valid user id, if it has no profile, or if the profile has no display name.
// Invalid user ids never reach the store.
func (r *ProfileResolver) DisplayName(ctx context.Context, userID string) (name string, ok bool, err error) {
	localpart, valid := userid.Localpart(userID)
	if !valid {
		return "", false, nil
	}

	err = runInteraction(ctx, r.store, r.logger, "get_user_name", TxOptions{ReadOnly: true}, func(tx Tx) error {
		profiles, err := tx.FindProfiles(&ProfileFilter{
			Localparts: []string{localpart},
		})
		if err != nil {
			return err
		}

		switch len(profiles) {
		case 0:
			return nil
		case 1:
			if profiles[0].DisplayName != nil {
				name, ok = *profiles[0].DisplayName, true
			}
			return nil
		default:
			return fmt.Errorf("found %d profiles for localpart %q: %w", len(profiles), localpart, errorz.ErrConstraintViolated)
		}
	})
	if err != nil {
		return "", false, err
	}

	return name, ok, nil
}
