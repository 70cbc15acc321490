package account

import "slices"

// Principal is the authenticated caller as resolved by the token verifier.
// IsAdmin is decided once at the edge and is the only role flag use cases trust.
type Principal struct {
	Username string
	Groups   []string
	IsAdmin  bool
}

// NewPrincipal derives the admin flag from group membership.
func NewPrincipal(username string, groups []string, adminGroup string) Principal {
	return Principal{
		Username: username,
		Groups:   groups,
		IsAdmin:  adminGroup != "" && slices.Contains(groups, adminGroup),
	}
}

func (p Principal) Authenticated() bool {
	return p.Username != ""
}
