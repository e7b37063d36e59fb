package logstream

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSink(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "combined.log")
	content := ""
	for _, line := range lines {
		content += line + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadPageNewestFirst(t *testing.T) {
	path := writeSink(t, "one", "two", "three", "four", "five")

	page, err := ReadPage(path, 1, 2)
	require.NoError(t, err)

	assert.Equal(t, []string{"five", "four"}, page.Lines)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 5, page.TotalLines)
	assert.Equal(t, 2, page.Limit)
}

func TestReadPageMiddleAndLast(t *testing.T) {
	path := writeSink(t, "one", "two", "three", "four", "five")

	middle, err := ReadPage(path, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"three", "two"}, middle.Lines)

	// The oldest page is short when the line count is not a multiple of
	// the limit.
	last, err := ReadPage(path, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"one"}, last.Lines)
}

func TestReadPageOutOfRange(t *testing.T) {
	path := writeSink(t, "one", "two")

	page, err := ReadPage(path, 9, 2)
	require.NoError(t, err)
	assert.Empty(t, page.Lines)
	assert.Equal(t, 9, page.CurrentPage)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 2, page.TotalLines)
}

func TestReadPageDefaults(t *testing.T) {
	path := writeSink(t, "only")

	page, err := ReadPage(path, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, DefaultPageLimit, page.Limit)
	assert.Equal(t, []string{"only"}, page.Lines)
}

func TestReadPageEmptyFile(t *testing.T) {
	path := writeSink(t)

	page, err := ReadPage(path, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Lines)
	assert.Equal(t, 0, page.TotalLines)
	assert.Equal(t, 0, page.TotalPages)
}

func TestReadPageMissingFile(t *testing.T) {
	_, err := ReadPage(filepath.Join(t.TempDir(), "absent.log"), 1, 10)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
