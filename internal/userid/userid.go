// Package userid parses fully-qualified user identifiers of the form
// @localpart:domain.
package userid

import (
	"errors"
	"fmt"
	"strings"
)

const (
	sigil     = '@'
	separator = ":"
)

// ErrInvalid is returned for strings that are not user identifiers.
var ErrInvalid = errors.New("invalid user id")

// ID is a parsed user identifier.
type ID struct {
	localpart string
	domain    string
}

// Parse parses raw into an ID. The localpart is everything between the sigil
// and the first separator, the domain is everything after it. No further
// grammar checks are done on either part.
func Parse(raw string) (ID, error) {
	if len(raw) < 1 || raw[0] != sigil {
		return ID{}, fmt.Errorf("%w: expected %q to start with '%c'", ErrInvalid, raw, sigil)
	}

	localpart, domain, ok := strings.Cut(raw[1:], separator)
	if !ok {
		return ID{}, fmt.Errorf("%w: expected %q to be of the form '%clocalname%sdomain'", ErrInvalid, raw, sigil, separator)
	}

	return ID{
		localpart: localpart,
		domain:    domain,
	}, nil
}

// Localpart returns the localpart of raw. ok is false when raw is
// not a user identifier.
func Localpart(raw string) (localpart string, ok bool) {
	id, err := Parse(raw)
	if err != nil {
		return "", false
	}
	return id.Localpart(), true
}

func (id ID) Localpart() string {
	return id.localpart
}

func (id ID) Domain() string {
	return id.domain
}

func (id ID) String() string {
	return string(sigil) + id.localpart + separator + id.domain
}
