package httpserver

import (
	"github.com/gofiber/fiber/v2"
)

type adminLoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func (s *Server) handleAdminDashboard(c *fiber.Ctx) error {
	return c.Render("admin/dashboard", fiber.Map{
		"title": "Admin Dashboard",
		"user":  CurrentUser(c),
	})
}

func (s *Server) handleAdminLoginForm(c *fiber.Ctx) error {
	return c.Render("admin/login", fiber.Map{
		"title": "Admin Login",
		"error": nil,
	})
}

// handleAdminLogin is the form-based login flow: failures re-render the
// form with the error message instead of returning JSON.
func (s *Server) handleAdminLogin(c *fiber.Ctx) error {
	var req adminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).Render("admin/login", fiber.Map{
			"title": "Admin Login",
			"error": "Email and password are required",
		})
	}

	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).Render("admin/login", fiber.Map{
			"title": "Admin Login",
			"error": "Email and password are required",
		})
	}

	result, err := s.sessions.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).Render("admin/login", fiber.Map{
			"title": "Admin Login",
			"error": "Invalid credentials",
		})
	}

	s.cookies.Set(c, result.TokenPair)
	return c.Redirect("/admin", fiber.StatusSeeOther)
}
