package repo

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bannercraft/internal/domain"
	"bannercraft/internal/sqlinline"
)

const userID = "6f1c2a8e-3b4d-4e5f-8a9b-0c1d2e3f4a5b"

func userRow(profile string) []any {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return []any{userID, "ana@example.com", "Ana", "hash", []byte(profile), now, now}
}

func TestUserCreate(t *testing.T) {
	exec := &stubExecutor{row: userRow(`{}`)}
	r := NewUserRepository(exec)

	u, err := r.Create(context.Background(), &domain.User{Email: "ana@example.com", Name: "Ana", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.Equal(t, userID, u.ID)
	assert.Empty(t, u.Profile)

	require.Len(t, exec.calls, 1)
	assert.Equal(t, sqlinline.QInsertUser, exec.calls[0].query)
	var profile map[string]string
	require.NoError(t, json.Unmarshal(exec.calls[0].args[3].([]byte), &profile))
	assert.Empty(t, profile)
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	exec := &stubExecutor{scanErr: &pgconn.PgError{Code: "23505"}}
	_, err := NewUserRepository(exec).Create(context.Background(), &domain.User{Email: "ana@example.com"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestUserGetByIDDecodesProfile(t *testing.T) {
	exec := &stubExecutor{row: userRow(`{"bio":"hello","skills":"go"}`)}
	u, err := NewUserRepository(exec).GetByID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "hello", u.ProfileValue(domain.FieldBio))
	assert.Equal(t, "go", u.ProfileValue(domain.FieldSkills))
	assert.Equal(t, "", u.ProfileValue(domain.FieldPhone))
}

func TestUserGetByIDNotFound(t *testing.T) {
	exec := &stubExecutor{scanErr: pgx.ErrNoRows}
	_, err := NewUserRepository(exec).GetByID(context.Background(), userID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserGetByIDMalformedSkipsQuery(t *testing.T) {
	exec := &stubExecutor{}
	_, err := NewUserRepository(exec).GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, exec.calls)
}

func TestUserUpdate(t *testing.T) {
	exec := &stubExecutor{tag: pgconn.NewCommandTag("UPDATE 1")}
	err := NewUserRepository(exec).Update(context.Background(), &domain.User{
		ID:      userID,
		Name:    "Ana B",
		Email:   "ana@example.com",
		Profile: map[string]string{"bio": "x"},
	})
	require.NoError(t, err)
	require.Len(t, exec.calls, 1)
	assert.Equal(t, sqlinline.QUpdateUser, exec.calls[0].query)
	assert.Equal(t, "Ana B", exec.calls[0].args[1])
	assert.JSONEq(t, `{"bio":"x"}`, string(exec.calls[0].args[3].([]byte)))
}

func TestUserUpdateMissing(t *testing.T) {
	exec := &stubExecutor{tag: pgconn.NewCommandTag("UPDATE 0")}
	err := NewUserRepository(exec).Update(context.Background(), &domain.User{ID: userID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserSetProfileField(t *testing.T) {
	exec := &stubExecutor{tag: pgconn.NewCommandTag("UPDATE 1")}
	err := NewUserRepository(exec).SetProfileField(context.Background(), userID, domain.FieldProfileImage, "https://img")
	require.NoError(t, err)
	assert.Equal(t, []any{userID, domain.FieldProfileImage, "https://img"}, exec.calls[0].args)
}
