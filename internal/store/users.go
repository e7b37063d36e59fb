// Package store persists principals on bun over SQLite. It is the only
// mutable shared resource in the system; writes rely on the database's
// single-statement atomicity.
package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"lantern/internal/model"
)

// Open connects to the SQLite database behind the given DSN
func Open(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to open database")
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// Users is the credential store backing the session service
type Users struct {
	db *bun.DB
}

// NewUsers creates a user store on the given connection
func NewUsers(db *bun.DB) *Users {
	return &Users{db: db}
}

// Init creates the users table if it does not exist yet
func (r *Users) Init(ctx context.Context) error {
	if _, err := r.db.NewCreateTable().
		Model((*model.User)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create users table")
	}
	return nil
}

// Create inserts a new user record
func (r *Users) Create(ctx context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.db.NewInsert().Model(user).Exec(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryConflict, "could not create user").
			WithCode(errors.CodeConflict)
	}
	return nil
}

// ByID fetches a user by primary key
func (r *Users) ByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user := new(model.User)
	err := r.db.NewSelect().
		Model(user).
		Where("usr.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapSelectErr(err)
	}
	return user, nil
}

// ByEmail fetches a user by normalized email
func (r *Users) ByEmail(ctx context.Context, email string) (*model.User, error) {
	user := new(model.User)
	err := r.db.NewSelect().
		Model(user).
		Where("usr.email = ?", model.NormalizeEmail(email)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapSelectErr(err)
	}
	return user, nil
}

// SaveRefreshToken overwrites the single refresh slot for the user.
// Last writer wins; concurrent rotations for the same account are an
// accepted race.
func (r *Users) SaveRefreshToken(ctx context.Context, id uuid.UUID, refreshToken string) error {
	res, err := r.db.NewUpdate().
		Model((*model.User)(nil)).
		Set("refresh_token = ?", refreshToken).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to persist refresh token")
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return notFound()
	}
	return nil
}

func wrapSelectErr(err error) error {
	if stderrors.Is(err, sql.ErrNoRows) {
		return notFound()
	}
	return errors.Wrap(err, errors.CategoryInternal, "failed to query users")
}

func notFound() *errors.Error {
	return errors.New("user not found", errors.CategoryNotFound).
		WithCode(errors.CodeNotFound)
}
