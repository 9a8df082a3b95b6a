// Package openid persists the short-lived tokens handed out during an OpenID
// handshake and resolves the profile data of the user a token vouches for.
package openid

// MediumEmail is the third party identifier medium for email addresses.
const MediumEmail = "email"

// VerificationToken is an issued OpenID token.
// A token is valid up to and including ValidUntilMS.
type VerificationToken struct {
	Token string
	// ValidUntilMS is the absolute expiry in milliseconds since the unix epoch.
	ValidUntilMS int64
	UserID       string
}

// ThirdPartyIdentifier is a verified contact medium of a user.
type ThirdPartyIdentifier struct {
	UserID  string
	Medium  string
	Address string
}

// Profile contains the public profile of a local user. Profiles are
// keyed by the localpart of the user id.
type Profile struct {
	Localpart   string
	DisplayName *string
}
