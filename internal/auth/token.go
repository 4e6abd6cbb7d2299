package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

var (
	ErrMissingUserID = errors.New("session token missing uid")
	ErrTokenExpired  = errors.New("session token expired")
)

// SessionClaims are the claims a Nakama session token carries.
type SessionClaims struct {
	TokenID  string            `json:"tid,omitempty"`
	UserID   string            `json:"uid"`
	Username string            `json:"usn"`
	Vars     map[string]string `json:"vrs,omitempty"`
	jwt.StandardClaims
}

// Identity is the local player identity a session token vouches for.
type Identity struct {
	UserID    string
	Username  string
	ExpiresAt time.Time
}

// ParseSessionToken reads the identity out of a session token without
// verifying its signature; the server verifies it when the socket connects.
// Tokens that expired before now are rejected.
func ParseSessionToken(token string, now time.Time) (Identity, error) {
	claims := &SessionClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return Identity{}, fmt.Errorf("parse session token: %w", err)
	}
	if claims.UserID == "" {
		return Identity{}, ErrMissingUserID
	}

	id := Identity{UserID: claims.UserID, Username: claims.Username}
	if claims.ExpiresAt != 0 {
		id.ExpiresAt = time.Unix(claims.ExpiresAt, 0)
		if !claims.VerifyExpiresAt(now.Unix(), true) {
			return Identity{}, fmt.Errorf("%w at %s", ErrTokenExpired, id.ExpiresAt.UTC().Format(time.RFC3339))
		}
	}
	return id, nil
}
