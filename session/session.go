package session

import "time"

// RoleType represents a user's role as reported by the backend.
type RoleType string

const (
	RoleCustomer RoleType = "CUSTOMER"
	RoleAdmin    RoleType = "ADMIN"

	// RoleAdminLegacy is the prefixed admin role emitted by earlier backend
	// iterations. Treated as equivalent to RoleAdmin.
	RoleAdminLegacy RoleType = "ROLE_ADMIN"
)

// User is the authenticated user's profile as returned by the auth endpoints.
// It is the backend's "safe view" of a user; the client never sees password
// material or internal flags.
type User struct {
	ID        string    `json:"id,omitempty"`        // Unique identifier (UUID)
	Email     string    `json:"email,omitempty"`     // User's email address
	FullName  string    `json:"fullName,omitempty"`  // Display name
	Role      RoleType  `json:"role,omitempty"`      // CUSTOMER or ADMIN
	CreatedAt time.Time `json:"createdAt,omitempty"` // When the account was registered
}

// IsAdmin reports whether the user holds an elevated role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleAdminLegacy
}

// Session is the client-side authentication state: an opaque bearer token and
// the profile it belongs to. Both fields are present or both are absent,
// never one without the other.
type Session struct {
	AccessToken string // Opaque bearer credential, never inspected for authorization decisions
	User        *User  // Profile of the authenticated user
}

// Authenticated reports whether the session holds a live credential.
func (s Session) Authenticated() bool {
	return s.AccessToken != "" && s.User != nil
}

// Credentials is the result of a successful login, registration or silent
// refresh: everything needed to overwrite the store's session wholesale.
type Credentials struct {
	AccessToken string
	User        User
}
