package correlation_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lantern/internal/correlation"
)

func TestWithID(t *testing.T) {
	ctx := correlation.WithID(context.Background(), "abc-123")

	id, ok := correlation.ID(ctx)
	require.True(t, ok)
	assert.Equal(t, "abc-123", id)
}

func TestIDAbsent(t *testing.T) {
	id, ok := correlation.ID(context.Background())
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestNewID(t *testing.T) {
	first := correlation.NewID()
	second := correlation.NewID()

	_, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
