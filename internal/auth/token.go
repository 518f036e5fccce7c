package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wonny/squadpick/internal/contracts"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrEmptySecret  = errors.New("token secret is empty")
)

// Principal identifies the caller behind a bearer token
type Principal struct {
	ID       int            `json:"id"`
	Username string         `json:"username"`
	Role     contracts.Role `json:"role"`
}

// IsAdmin reports whether the caller may manage other accounts
func (p Principal) IsAdmin() bool {
	return p.Role == contracts.RoleAdmin
}

type claims struct {
	User Principal `json:"user"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 bearer tokens
// ⭐ SSOT: 토큰 발급/검증은 여기서만
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates an issuer. Tokens expire ttl after issue.
func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue returns a signed token for user
func (t *TokenIssuer) Issue(user contracts.User) (string, error) {
	now := t.now()
	c := claims{
		User: Principal{ID: user.ID, Username: user.Username, Role: user.Role},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses token and returns its principal
func (t *TokenIssuer) Verify(token string) (Principal, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(tok *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.User.ID <= 0 {
		return Principal{}, fmt.Errorf("%w: missing user claim", ErrInvalidToken)
	}
	return c.User, nil
}
