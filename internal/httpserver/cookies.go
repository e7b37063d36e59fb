package httpserver

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"lantern/internal/session"
)

// CookieWriter sets and clears the credential cookies. Both cookies are
// HttpOnly with SameSite Lax; Secure is on outside development.
type CookieWriter struct {
	secure     bool
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCookieWriter creates a cookie writer whose expirations match each
// token's TTL.
func NewCookieWriter(secure bool, accessTTL, refreshTTL time.Duration) CookieWriter {
	return CookieWriter{secure: secure, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Set writes both credential cookies for the pair
func (w CookieWriter) Set(c *fiber.Ctx, pair session.TokenPair) {
	w.write(c, AccessCookie, pair.AccessToken, time.Now().Add(w.accessTTL))
	w.write(c, RefreshCookie, pair.RefreshToken, time.Now().Add(w.refreshTTL))
}

// Clear expires both credential cookies. Clearing twice is equivalent to
// clearing once.
func (w CookieWriter) Clear(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour * 24 * 365)
	w.write(c, AccessCookie, "", expired)
	w.write(c, RefreshCookie, "", expired)
}

func (w CookieWriter) write(c *fiber.Ctx, name, value string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Expires:  expires,
		HTTPOnly: true,
		Secure:   w.secure,
		SameSite: "Lax",
	})
}
