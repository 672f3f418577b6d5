package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// Session tokens are stateless HS256 JWTs carrying the account id as the
// subject claim. There is no refresh or revocation flow: a token stays valid
// until its expiry, and the auth middleware's account-existence lookup is the
// only thing that cuts off tokens for deleted accounts.

// Verification failures are collapsed into three sentinel errors so callers
// can distinguish a garbled token from a forged or stale one without pulling
// in the jwt package themselves.
var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenExpired   = errors.New("token expired")
)

// NewToken builds and signs an HS256 JWT for an account. The token carries
// the account id as the subject (sub), the issue time (iat) and an expiry
// (exp) of ttlDays from now.
func NewToken(secret string, accountID uint64, ttlDays int) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": accountID,
		"iat": now.Unix(),
		"exp": now.Add(time.Duration(ttlDays) * 24 * time.Hour).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// VerifyToken parses and validates a token string and returns the embedded
// account id. The signing method is pinned to HMAC; tokens signed with any
// other algorithm fail with ErrTokenSignature. Expired or undecodable tokens
// map to ErrTokenExpired and ErrTokenMalformed respectively.
func VerifyToken(secret, raw string) (uint64, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenSignature
		}
		return []byte(secret), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return 0, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return 0, ErrTokenSignature
		default:
			return 0, ErrTokenMalformed
		}
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrTokenMalformed
	}
	// JSON numbers decode as float64; tolerate numeric strings too.
	switch sub := claims["sub"].(type) {
	case float64:
		return uint64(sub), nil
	case string:
		if n, err := strconv.ParseUint(sub, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, ErrTokenMalformed
}
