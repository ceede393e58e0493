// Package models holds the domain records the gateway reads from the
// remote marketplace API. Every record is remote-owned; the gateway only
// keeps transient cached copies.
package models

// User roles as reported by the API.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the session-scoped account record. There is one per session,
// identified by the upstream session cookie.
type User struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Role      string  `json:"role"`
	Email     string  `json:"email"`
	Github    string  `json:"github"`
	Website   string  `json:"website"`
	Verified  IntBool `json:"verified"`
	Threshold int     `json:"threshold"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// IsAdmin reports whether the user may reach admin endpoints.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// LoginSession is the result of a successful login: an opaque token for
// the native-app deep link, plus the session cookie the upstream set.
type LoginSession struct {
	Token  string `json:"token"`
	Cookie string `json:"-"`
}

// DeepLinkPrefix is the scheme prefix for the native-app login handoff.
const DeepLinkPrefix = "acode://user/login/"

// DeepLink builds the one-time native-app handoff URL for the session.
func (s LoginSession) DeepLink() string { return DeepLinkPrefix + s.Token }
