// Package token signs and verifies the two credential classes: short
// lived access tokens and longer lived refresh tokens. Each class has
// its own secret and TTL so compromise of one cannot forge the other,
// and access tokens stay verifiable without a store lookup.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// TextCodeTokenExpired marks errors caused by expired credentials
const TextCodeTokenExpired = "TOKEN_EXPIRED"

// TextCodeTokenInvalid marks malformed or wrongly signed credentials
const TextCodeTokenInvalid = "TOKEN_INVALID"

// ErrMissingSecret is returned when the secret for a token class is not
// configured. The operation fails with a server error; the process keeps
// running.
var ErrMissingSecret = errors.New(
	"token signing secret is not configured",
	errors.CategoryInternal,
).WithCode(errors.CodeInternal)

// ErrTokenExpired is returned for structurally valid but expired tokens
var ErrTokenExpired = errors.New(
	"token is expired",
	errors.CategoryAuth,
).WithCode(errors.CodeUnauthorized).WithTextCode(TextCodeTokenExpired)

// ErrTokenInvalid is returned for malformed or wrongly signed tokens
var ErrTokenInvalid = errors.New(
	"invalid token",
	errors.CategoryAuth,
).WithCode(errors.CodeUnauthorized).WithTextCode(TextCodeTokenInvalid)

// Claims is the signed claim set carried by both token classes
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// UserID parses the token subject back into a user id
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// Config holds the per-class secrets and expirations
type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// Codec issues and verifies both token classes
type Codec struct {
	cfg Config
}

// NewCodec creates a Codec from the given configuration. Missing secrets
// are not fatal here; the individual operation fails instead.
func NewCodec(cfg Config) *Codec {
	return &Codec{cfg: cfg}
}

// AccessTTL exposes the configured access token lifetime
func (c *Codec) AccessTTL() time.Duration { return c.cfg.AccessTTL }

// RefreshTTL exposes the configured refresh token lifetime
func (c *Codec) RefreshTTL() time.Duration { return c.cfg.RefreshTTL }

// IssueAccess mints an access token for the given subject
func (c *Codec) IssueAccess(id uuid.UUID, email string) (string, error) {
	return c.issue(id, email, c.cfg.AccessSecret, c.cfg.AccessTTL)
}

// IssueRefresh mints a refresh token for the given subject
func (c *Codec) IssueRefresh(id uuid.UUID, email string) (string, error) {
	return c.issue(id, email, c.cfg.RefreshSecret, c.cfg.RefreshTTL)
}

// VerifyAccess validates an access token and returns its claims
func (c *Codec) VerifyAccess(raw string) (*Claims, error) {
	return c.verify(raw, c.cfg.AccessSecret)
}

// VerifyRefresh validates a refresh token and returns its claims
func (c *Codec) VerifyRefresh(raw string) (*Claims, error) {
	return c.verify(raw, c.cfg.RefreshSecret)
}

func (c *Codec) issue(id uuid.UUID, email, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrMissingSecret
	}

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.cfg.Issuer,
			Subject:   id.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign token")
	}
	return signed, nil
}

func (c *Codec) verify(raw, secret string) (*Claims, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}

	parserOptions := make([]jwt.ParserOption, 0, 1)
	if c.cfg.Issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(c.cfg.Issuer))
	}

	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
