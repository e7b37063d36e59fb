package httpserver

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "invalid request body").
			WithCode(errors.CodeBadRequest)
	}

	result, err := s.sessions.Signup(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	s.cookies.Set(c, result.TokenPair)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User created successfully",
		"data": fiber.Map{
			"accessToken":  result.AccessToken,
			"refreshToken": result.RefreshToken,
			"user":         result.User.Summarize(),
		},
	})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "invalid request body").
			WithCode(errors.CodeBadRequest)
	}

	result, err := s.sessions.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	s.cookies.Set(c, result.TokenPair)

	// Admins land on the dashboard instead of receiving JSON.
	if result.User.IsAdmin() {
		return c.Redirect("/logs/dashboard", fiber.StatusSeeOther)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"data": fiber.Map{
			"accessToken":  result.AccessToken,
			"refreshToken": result.RefreshToken,
			"user":         result.User.Summarize(),
		},
	})
}

func (s *Server) handleRefresh(c *fiber.Ctx) error {
	presented := c.Cookies(RefreshCookie)
	if presented == "" {
		return errors.New("refresh token not found", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized)
	}

	pair, err := s.sessions.Refresh(c.UserContext(), presented)
	if err != nil {
		return err
	}

	s.cookies.Set(c, *pair)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Token refreshed successfully",
		"data":    pair,
	})
}

// handleLogout clears the credential cookies and nothing else. The
// persisted refresh value stays redeemable until it expires or a later
// login/refresh overwrites it; a known limitation, not an oversight.
func (s *Server) handleLogout(c *fiber.Ctx) error {
	s.cookies.Clear(c)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

func (s *Server) handleMe(c *fiber.Ctx) error {
	user := CurrentUser(c)
	return c.JSON(fiber.Map{
		"success": true,
		"data":    user.Summarize(),
	})
}
