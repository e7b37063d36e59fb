package httpserver

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"lantern/internal/correlation"
	"lantern/internal/logstream"
	"lantern/internal/model"
	"lantern/internal/token"
)

const (
	localsUserKey = "user"

	// AccessCookie carries the access token between requests
	AccessCookie = "accessToken"
	// RefreshCookie carries the refresh token; only the refresh endpoint
	// reads it
	RefreshCookie = "refreshToken"

	bearerScheme = "Bearer"
)

// Correlation assigns or propagates the request's correlation id. The id
// surfaces on the response and travels in the request context so every
// log call in this request's chain can read it without explicit
// threading; concurrent requests never share one.
func Correlation() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(correlation.Header)
		if id == "" {
			id = correlation.NewID()
		}
		c.Set(correlation.Header, id)
		c.SetUserContext(correlation.WithID(c.UserContext(), id))
		return c.Next()
	}
}

// RequestLogger records one line per completed request
func RequestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		logstream.Ctx(c.UserContext(), logger).Info("request completed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
		)
		return err
	}
}

// UserFinder resolves a verified token subject back to a principal
type UserFinder interface {
	ByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// Gate is the authorization gate: it extracts a bearer credential from
// the transport, verifies it, resolves the principal, and enforces role
// allow-lists.
type Gate struct {
	codec *token.Codec
	users UserFinder
}

// NewGate creates an authorization gate
func NewGate(codec *token.Codec, users UserFinder) *Gate {
	return &Gate{codec: codec, users: users}
}

// Protect requires a valid access credential from the Authorization
// header or the access cookie (header takes precedence) and attaches the
// resolved principal to the request.
func (g *Gate) Protect() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := tokenFromRequest(c)
		if raw == "" {
			return errors.New("not authorized, no token provided", errors.CategoryAuth).
				WithCode(errors.CodeUnauthorized)
		}
		user, err := g.resolve(c.UserContext(), raw)
		if err != nil {
			return err
		}
		attachUser(c, user)
		return c.Next()
	}
}

// RestrictTo allows only principals whose role is in the given
// allow-list. It must run after Protect.
func (g *Gate) RestrictTo(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return errors.New("not authorized, no token provided", errors.CategoryAuth).
				WithCode(errors.CodeUnauthorized)
		}
		if !slices.Contains(roles, user.Role) {
			return errors.New("you do not have permission to perform this action", errors.CategoryAuthz).
				WithCode(errors.CodeForbidden)
		}
		return c.Next()
	}
}

// authenticateCookie resolves the principal from the access cookie only.
// The live log handshake uses it: websocket clients cannot set headers.
func (g *Gate) authenticateCookie(c *fiber.Ctx) (*model.User, error) {
	raw := c.Cookies(AccessCookie)
	if raw == "" {
		return nil, errors.New("not authorized, no token provided", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized)
	}
	return g.resolve(c.UserContext(), raw)
}

func (g *Gate) resolve(ctx context.Context, raw string) (*model.User, error) {
	claims, err := g.codec.VerifyAccess(raw)
	if err != nil {
		return nil, err
	}

	id, err := claims.UserID()
	if err != nil {
		return nil, token.ErrTokenInvalid
	}

	user, err := g.users.ByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.New("the user belonging to this token no longer exists", errors.CategoryAuth).
				WithCode(errors.CodeUnauthorized)
		}
		return nil, err
	}
	return user, nil
}

func tokenFromRequest(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, bearerScheme+" ") {
		return strings.TrimSpace(header[len(bearerScheme)+1:])
	}
	return c.Cookies(AccessCookie)
}

func attachUser(c *fiber.Ctx, user *model.User) {
	c.Locals(localsUserKey, user)
}

// CurrentUser returns the principal Protect attached to the request, or
// nil when the route is unauthenticated.
func CurrentUser(c *fiber.Ctx) *model.User {
	user, _ := c.Locals(localsUserKey).(*model.User)
	return user
}
