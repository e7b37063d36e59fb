package httpserver

import (
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	"lantern/internal/logstream"
)

// handleGetLogs serves one page of a durable sink, newest records first.
// The type segment doubles as the file name, so it is allow-listed.
func (s *Server) handleGetLogs(c *fiber.Ctx) error {
	sinkType := c.Params("type")
	if sinkType != "error" && sinkType != "combined" {
		return errors.New("invalid log type, use 'error' or 'combined'", errors.CategoryValidation).
			WithCode(errors.CodeBadRequest)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", logstream.DefaultPageLimit)

	path := filepath.Join(s.opts.LogsDir, sinkType+".log")
	result, err := logstream.ReadPage(path, page, limit)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    strings.Join(result.Lines, "\n"),
		"pagination": fiber.Map{
			"currentPage": result.CurrentPage,
			"totalPages":  result.TotalPages,
			"totalLogs":   result.TotalLines,
			"limit":       result.Limit,
		},
	})
}

func (s *Server) handleDashboard(c *fiber.Ctx) error {
	return c.Render("dashboard", fiber.Map{
		"title": "Live Logs",
		"user":  CurrentUser(c),
	})
}
