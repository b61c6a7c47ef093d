package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/villaworks/villaserve-backend/pkg/db/models"
	"github.com/villaworks/villaserve-backend/pkg/enums"
	"github.com/villaworks/villaserve-backend/pkg/pagination"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  phone TEXT,
  role TEXT NOT NULL DEFAULT 'resident',
  villa_id TEXT,
  avatar_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(users).Error)
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string, created time.Time) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Test",
		LastName:     "User",
		Role:         enums.UserRoleResident,
		IsActive:     true,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestRepositoryFindByEmail(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	email := uuid.NewString() + "@example.com"
	created := createUser(t, db, email, time.Now())

	got, err := repo.FindByEmail(ctx, email)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)

	got, err = repo.FindByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepositoryListCursorWalk(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	var all []*models.User
	for i := 0; i < 3; i++ {
		all = append(all, createUser(t, db, uuid.NewString()+"@example.com", base.Add(time.Duration(i)*time.Minute)))
	}

	first, err := repo.List(ctx, 2, nil)
	require.NoError(t, err)
	require.True(t, len(first) >= 2)
	assert.True(t, !first[0].CreatedAt.Before(first[1].CreatedAt), "newest first")

	cursor := &pagination.Cursor{CreatedAt: all[1].CreatedAt, ID: all[1].ID}
	older, err := repo.List(ctx, 10, cursor)
	require.NoError(t, err)
	for _, row := range older {
		assert.True(t, row.CreatedAt.Before(all[1].CreatedAt))
	}
}

func TestRepositoryUpdateFields(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := createUser(t, db, uuid.NewString()+"@example.com", time.Now())

	updated, err := repo.UpdateFields(ctx, user.ID, map[string]any{
		"first_name": "Renamed",
		"is_active":  false,
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Renamed", updated.FirstName)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "User", updated.LastName)
}

func TestRepositoryUpdateLastLogin(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := createUser(t, db, uuid.NewString()+"@example.com", time.Now())
	at := time.Now().Truncate(time.Second)
	require.NoError(t, repo.UpdateLastLogin(ctx, user.ID, at))

	got, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.LastLoginAt)
	assert.WithinDuration(t, at, *got.LastLoginAt, time.Second)
}
