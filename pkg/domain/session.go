package domain

import "time"

// Transport is how the session credential travels between client and server.
type Transport string

const (
	// TransportToken is a signed JWT held as the "token" cookie; the role is decoded from it.
	TransportToken Transport = "token"
	// TransportFlag is an opaque cookie with the role kept as a local flag.
	TransportFlag Transport = "flag"
)

// Session is the client's record of the authenticated identity.
type Session struct {
	SubjectID string    `json:"subject_id"`
	Role      Role      `json:"role"`
	IssuedAt  time.Time `json:"issued_at,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	Transport Transport `json:"transport"`
}

// Expired reports whether the session carries an expiry that has passed at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
