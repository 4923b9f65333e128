package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"bannercraft/internal/domain"
	"bannercraft/internal/infra"
	"bannercraft/internal/sqlinline"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(sql infra.SQLExecutor) *UserRepositoryPG {
	return &UserRepositoryPG{sql: sql}
}

// Create inserts a user. A duplicate email yields domain.ErrEmailTaken.
func (r *UserRepositoryPG) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	profile, err := encodeProfile(user.Profile)
	if err != nil {
		return nil, err
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertUser, user.Email, user.Name, user.PasswordHash, profile)
	created, err := scanUser(row)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return created, nil
}

// GetByID fetches a user by UUID.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if !isUUID(id) {
		return nil, domain.ErrNotFound
	}
	return scanUser(r.sql.QueryRow(ctx, sqlinline.QSelectUserByID, id))
}

// GetByEmail fetches a user by their normalized email.
func (r *UserRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.sql.QueryRow(ctx, sqlinline.QSelectUserByEmail, email))
}

// Update overwrites name, email and profile.
func (r *UserRepositoryPG) Update(ctx context.Context, user *domain.User) error {
	profile, err := encodeProfile(user.Profile)
	if err != nil {
		return err
	}
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateUser, user.ID, user.Name, user.Email, profile)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetProfileField sets a single profile key.
func (r *UserRepositoryPG) SetProfileField(ctx context.Context, id, field, value string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QSetUserProfileField, id, field, value)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u       domain.User
		profile []byte
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &profile, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	u.Profile = map[string]string{}
	if len(profile) > 0 {
		if err := json.Unmarshal(profile, &u.Profile); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
	}
	return &u, nil
}

func encodeProfile(profile map[string]string) ([]byte, error) {
	if profile == nil {
		profile = map[string]string{}
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	return raw, nil
}

var _ domain.UserRepository = (*UserRepositoryPG)(nil)
