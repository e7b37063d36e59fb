// Package session owns the account lifecycle business rules: signup,
// login, and refresh rotation. State lives in the principal's stored
// refresh slot; there is no separate session object.
package session

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"lantern/internal/logstream"
	"lantern/internal/model"
	"lantern/internal/token"
)

// TextCodeInvalidCreds marks failed login attempts
const TextCodeInvalidCreds = "INVALID_CREDENTIALS"

// ErrInvalidCredentials is the error for a failed login. The message is
// deliberately identical for unknown emails and wrong passwords so
// accounts cannot be enumerated.
var ErrInvalidCredentials = errors.New(
	"invalid credentials",
	errors.CategoryAuth,
).WithCode(errors.CodeUnauthorized).WithTextCode(TextCodeInvalidCreds)

// ErrUserExists is the error for registering an already taken email
var ErrUserExists = errors.New(
	"user already exists",
	errors.CategoryConflict,
).WithCode(errors.CodeConflict).WithTextCode("USER_EXISTS")

// ErrInvalidRefreshToken covers every refresh failure past the missing
// cookie check: bad signature, expired, unknown subject, or a value that
// was rotated away. The causes are treated uniformly.
var ErrInvalidRefreshToken = errors.New(
	"invalid refresh token",
	errors.CategoryAuth,
).WithCode(errors.CodeForbidden).WithTextCode("INVALID_REFRESH_TOKEN")

// UserStore is the credential store the service orchestrates against
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	ByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	SaveRefreshToken(ctx context.Context, id uuid.UUID, refreshToken string) error
}

// TokenPair is a freshly minted access/refresh credential pair
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Result is the outcome of a signup or login
type Result struct {
	User *model.User
	TokenPair
}

// Service implements the session lifecycle against the store and codec
type Service struct {
	users  UserStore
	codec  *token.Codec
	logger *zap.Logger
}

// NewService creates a session service
func NewService(users UserStore, codec *token.Codec, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		users:  users,
		codec:  codec,
		logger: logger.With(zap.String("component", "session")),
	}
}

// Signup validates the payload, registers the principal with role user,
// and returns the new user with its first token pair.
func (s *Service) Signup(ctx context.Context, email, password string) (*Result, error) {
	email = model.NormalizeEmail(email)

	if err := ValidateSignup(email, password); err != nil {
		return nil, err
	}

	if _, err := s.users.ByEmail(ctx, email); err == nil {
		return nil, ErrUserExists
	} else if !errors.IsNotFound(err) {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	pair, err := s.rotate(ctx, user)
	if err != nil {
		return nil, err
	}

	logstream.Ctx(ctx, s.logger).Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
	)

	return &Result{User: user, TokenPair: pair}, nil
}

// Login verifies the credentials and mints a new token pair, overwriting
// the stored refresh slot.
func (s *Service) Login(ctx context.Context, email, password string) (*Result, error) {
	user, err := s.users.ByEmail(ctx, model.NormalizeEmail(email))
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		logstream.Ctx(ctx, s.logger).Warn("failed login attempt",
			zap.String("email", user.Email),
		)
		return nil, ErrInvalidCredentials
	}

	pair, err := s.rotate(ctx, user)
	if err != nil {
		return nil, err
	}

	logstream.Ctx(ctx, s.logger).Info("user logged in",
		zap.String("user_id", user.ID.String()),
	)

	return &Result{User: user, TokenPair: pair}, nil
}

// Refresh redeems a refresh token for a brand-new pair. The presented
// value must verify cryptographically and match the stored slot exactly;
// a rotated-away token fails even before its own expiry. Two concurrent
// refreshes for one account race on the slot: last writer wins and the
// loser's pair fails on its next redemption.
func (s *Service) Refresh(ctx context.Context, presented string) (*TokenPair, error) {
	claims, err := s.codec.VerifyRefresh(presented)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	id, err := claims.UserID()
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.users.ByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	if user.RefreshToken == "" || user.RefreshToken != presented {
		logstream.Ctx(ctx, s.logger).Warn("stale refresh token presented",
			zap.String("user_id", user.ID.String()),
		)
		return nil, ErrInvalidRefreshToken
	}

	pair, err := s.rotate(ctx, user)
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

// rotate mints a fresh pair and overwrites the persisted refresh slot,
// permanently invalidating the previous value.
func (s *Service) rotate(ctx context.Context, user *model.User) (TokenPair, error) {
	access, err := s.codec.IssueAccess(user.ID, user.Email)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := s.codec.IssueRefresh(user.ID, user.Email)
	if err != nil {
		return TokenPair{}, err
	}

	if err := s.users.SaveRefreshToken(ctx, user.ID, refresh); err != nil {
		return TokenPair{}, err
	}
	user.RefreshToken = refresh

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
