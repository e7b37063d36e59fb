package token_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lantern/internal/token"
)

func testConfig() token.Config {
	return token.Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    7 * 24 * time.Hour,
		Issuer:        "lantern-test",
	}
}

func TestCodecRoundTrip(t *testing.T) {
	codec := token.NewCodec(testConfig())
	id := uuid.New()

	t.Run("access token round trips subject and email", func(t *testing.T) {
		raw, err := codec.IssueAccess(id, "user@example.com")
		require.NoError(t, err)
		require.NotEmpty(t, raw)

		claims, err := codec.VerifyAccess(raw)
		require.NoError(t, err)

		subject, err := claims.UserID()
		require.NoError(t, err)
		assert.Equal(t, id, subject)
		assert.Equal(t, "user@example.com", claims.Email)
	})

	t.Run("refresh token round trips subject and email", func(t *testing.T) {
		raw, err := codec.IssueRefresh(id, "user@example.com")
		require.NoError(t, err)

		claims, err := codec.VerifyRefresh(raw)
		require.NoError(t, err)

		subject, err := claims.UserID()
		require.NoError(t, err)
		assert.Equal(t, id, subject)
		assert.Equal(t, "user@example.com", claims.Email)
	})
}

func TestCodecClassIsolation(t *testing.T) {
	codec := token.NewCodec(testConfig())
	id := uuid.New()

	t.Run("refresh token does not verify as access", func(t *testing.T) {
		raw, err := codec.IssueRefresh(id, "user@example.com")
		require.NoError(t, err)

		_, err = codec.VerifyAccess(raw)
		assert.Equal(t, token.ErrTokenInvalid, err)
	})

	t.Run("access token does not verify as refresh", func(t *testing.T) {
		raw, err := codec.IssueAccess(id, "user@example.com")
		require.NoError(t, err)

		_, err = codec.VerifyRefresh(raw)
		assert.Equal(t, token.ErrTokenInvalid, err)
	})
}

func TestCodecRejections(t *testing.T) {
	id := uuid.New()

	t.Run("expired access token", func(t *testing.T) {
		cfg := testConfig()
		cfg.AccessTTL = -time.Minute
		codec := token.NewCodec(cfg)

		raw, err := codec.IssueAccess(id, "user@example.com")
		require.NoError(t, err)

		_, err = codec.VerifyAccess(raw)
		assert.Equal(t, token.ErrTokenExpired, err)
	})

	t.Run("tampered token", func(t *testing.T) {
		codec := token.NewCodec(testConfig())
		raw, err := codec.IssueAccess(id, "user@example.com")
		require.NoError(t, err)

		_, err = codec.VerifyAccess(raw + "x")
		assert.Equal(t, token.ErrTokenInvalid, err)
	})

	t.Run("token signed with a different secret", func(t *testing.T) {
		other := testConfig()
		other.AccessSecret = "forged-secret"

		raw, err := token.NewCodec(other).IssueAccess(id, "user@example.com")
		require.NoError(t, err)

		_, err = token.NewCodec(testConfig()).VerifyAccess(raw)
		assert.Equal(t, token.ErrTokenInvalid, err)
	})

	t.Run("malformed token", func(t *testing.T) {
		codec := token.NewCodec(testConfig())
		_, err := codec.VerifyAccess("not-a-token")
		assert.Equal(t, token.ErrTokenInvalid, err)
	})
}

func TestCodecMissingSecret(t *testing.T) {
	cfg := testConfig()
	cfg.AccessSecret = ""
	codec := token.NewCodec(cfg)
	id := uuid.New()

	t.Run("issue fails without a secret", func(t *testing.T) {
		_, err := codec.IssueAccess(id, "user@example.com")
		assert.Equal(t, token.ErrMissingSecret, err)
	})

	t.Run("verify fails without a secret", func(t *testing.T) {
		_, err := codec.VerifyAccess("whatever")
		assert.Equal(t, token.ErrMissingSecret, err)
	})

	t.Run("the refresh class is unaffected", func(t *testing.T) {
		raw, err := codec.IssueRefresh(id, "user@example.com")
		require.NoError(t, err)

		_, err = codec.VerifyRefresh(raw)
		assert.NoError(t, err)
	})
}
