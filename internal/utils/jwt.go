package utils // package utils provides helper functions for token creation and hashing

import (
    "time" // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AuthToken represents a signed JWT along with its expiry.  The Token field
// contains the serialized JWT string; Exp stores the UTC expiration time.
// The API issues a single bearer token per register/login; there is no
// refresh flow.
type AuthToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// NewAuthToken builds and signs an HS256 JWT for a user.  The JWT carries
// the standard claims: subject (sub) holding the user id, expiration (exp)
// and issued at (iat).  The role is deliberately NOT embedded: the auth
// middleware reloads the user row on every request so deactivations and
// role changes take effect immediately.
func NewAuthToken(secret string, userID uint64, ttl time.Duration) (AuthToken, error) {
    exp := time.Now().UTC().Add(ttl)
    claims := jwt.MapClaims{
        "sub": userID,
        "exp": exp.Unix(),
        "iat": time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AuthToken{}, err
    }
    return AuthToken{Token: signed, Exp: exp}, nil
}
