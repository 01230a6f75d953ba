package domain

import "time"

// RefreshToken is an opaque, persisted credential used to mint new access
// tokens. Tokens are rotated on every refresh.
type RefreshToken struct {
	ID        string
	UserID    int64
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the token is past its expiry.
func (t *RefreshToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}
