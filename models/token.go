package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind distinguishes the two token classes. Each class has its own
// secret and lifetime.
type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

// TokenClaims is the claim set of both access and refresh tokens.
//
// Access tokens carry {sub, username, role}; refresh tokens carry
// {sub, username} and leave Role empty. The registered "jti" claim is set on
// every token so that two tokens minted within the same second never
// serialize to the same string.
type TokenClaims struct {
	jwt.RegisteredClaims

	Username string `json:"username"`
	Role     Role   `json:"role,omitempty"`
}

// GetUserID extracts the user identifier from the "sub" claim.
func (c *TokenClaims) GetUserID() (int64, error) {
	userIDString, err := c.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("error extracting UserID from token: %w", err)
	}

	userID, err := strconv.ParseInt(userIDString, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting UserID from token to int64: %w", err)
	}

	return userID, nil
}

// Token wraps a signed JWT together with its parsed claims.
type Token struct {
	// Claims is the decoded claim set.
	Claims *TokenClaims `json:"-"`

	// SignedString is the compact JWS representation of the token
	// (base64url-encoded header.payload.signature).
	SignedString string `json:"-"`

	// UserID is the owner identifier extracted from the "sub" claim.
	UserID int64 `json:"-"`

	// ExpiresAt is the value of the "exp" claim.
	ExpiresAt time.Time `json:"-"`
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t Token) String() string {
	return t.SignedString
}

// Principal converts access token claims into the identity used by handlers.
func (t Token) Principal() Principal {
	p := Principal{UserID: t.UserID}
	if t.Claims != nil {
		p.Username = t.Claims.Username
		p.Role = t.Claims.Role
	}
	return p
}

// TokenPair is the result of sign-in and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`

	// Expiry instants drive the cookie Max-Age and are not serialized.
	AccessExpiresAt  time.Time `json:"-"`
	RefreshExpiresAt time.Time `json:"-"`
}
