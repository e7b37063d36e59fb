package logstream

import (
	"os"
	"strings"

	"github.com/goliatone/go-errors"
)

// DefaultPageLimit is the page size when the caller does not specify one
const DefaultPageLimit = 50

// Page is one reverse-chronological slice of a durable sink
type Page struct {
	// Lines is the page content, newest record first
	Lines       []string
	CurrentPage int
	TotalPages  int
	TotalLines  int
	Limit       int
}

// ReadPage returns one page of the given sink file, newest records
// first. Pages beyond the available data yield an empty page, never an
// error; a missing sink file is a not-found error.
func ReadPage(path string, page, limit int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("log file not found", errors.CategoryNotFound).
				WithCode(errors.CodeNotFound)
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to read log file")
	}

	trimmed := strings.TrimSpace(string(content))
	var lines []string
	if trimmed != "" {
		lines = strings.Split(trimmed, "\n")
	}
	total := len(lines)
	totalPages := (total + limit - 1) / limit

	// Slice from the end of the file so page 1 holds the newest records.
	end := total - (page-1)*limit
	start := total - page*limit
	if end < 0 {
		end = 0
	}
	if start < 0 {
		start = 0
	}

	var pageLines []string
	if start < end {
		pageLines = make([]string, 0, end-start)
		for i := end - 1; i >= start; i-- {
			pageLines = append(pageLines, lines[i])
		}
	}

	return &Page{
		Lines:       pageLines,
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalLines:  total,
		Limit:       limit,
	}, nil
}
