// Package httpserver wires the fiber application: routes, the
// authorization gate, cookie transport, the boundary error handler, and
// the live log channel.
package httpserver

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/django/v3"
	"go.uber.org/zap"

	"lantern/internal/logstream"
	"lantern/internal/model"
	"lantern/internal/session"
	"lantern/internal/token"
)

// Options configures the HTTP server
type Options struct {
	// Development relaxes cookie security and 5xx redaction
	Development bool
	// ViewsDir holds the django templates for the admin pages
	ViewsDir string
	// LogsDir is where the durable log sinks live, for paginated retrieval
	LogsDir string
}

// Server is the HTTP surface of the application
type Server struct {
	app      *fiber.App
	opts     Options
	sessions *session.Service
	gate     *Gate
	cookies  CookieWriter
	hub      *logstream.Hub
	logger   *zap.Logger
}

// New builds the fiber application and registers every route
func New(
	opts Options,
	sessions *session.Service,
	codec *token.Codec,
	users UserFinder,
	hub *logstream.Hub,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	engine := django.New(opts.ViewsDir, ".html")

	s := &Server{
		opts:     opts,
		sessions: sessions,
		gate:     NewGate(codec, users),
		cookies:  NewCookieWriter(!opts.Development, codec.AccessTTL(), codec.RefreshTTL()),
		hub:      hub,
		logger:   logger.With(zap.String("component", "http")),
	}

	app := fiber.New(fiber.Config{
		Views:                 engine,
		ErrorHandler:          NewErrorHandler(logger, opts.Development),
		DisableStartupMessage: true,
	})

	app.Use(Correlation())
	app.Use(RequestLogger(s.logger))

	auth := app.Group("/auth")
	auth.Post("/signup", s.handleSignup)
	auth.Post("/login", s.handleLogin)
	auth.Post("/refresh-token", s.handleRefresh)
	auth.Get("/logout", s.handleLogout)

	users_ := app.Group("/users", s.gate.Protect())
	users_.Get("/me", s.handleMe)
	users_.Get("/admin-only", s.gate.RestrictTo(model.RoleAdmin), s.handleMe)

	logs := app.Group("/logs")
	logs.Get("/dashboard", s.gate.Protect(), s.gate.RestrictTo(model.RoleAdmin), s.handleDashboard)
	logs.Get("/live", s.requireLiveSubscriber, s.liveHandler())
	logs.Get("/:type", s.handleGetLogs)

	admin := app.Group("/admin")
	admin.Get("/login", s.handleAdminLoginForm)
	admin.Post("/login", s.handleAdminLogin)
	admin.Get("/", s.gate.Protect(), s.gate.RestrictTo(model.RoleAdmin), s.handleAdminDashboard)

	s.app = app
	return s
}

// App exposes the underlying fiber app, mainly for tests
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until the listener fails
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully drains the server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
