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

	"github.com/lockwise/lockshop-backend/pkg/enums"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'customer',
		is_admin INTEGER NOT NULL DEFAULT 0,
		last_login_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`).Error)

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedUserDTO(email, username string) CreateUserDTO {
	return CreateUserDTO{
		Username:     username,
		Email:        email,
		PasswordHash: "argon2id$fake",
		FirstName:    "Ayse",
		LastName:     "Demir",
	}
}

func TestCreateAssignsIDAndDefaultRole(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))

	created, err := repo.Create(context.Background(), seedUserDTO("ayse@example.com", "ayse"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, enums.UserRoleCustomer, created.Role)
	assert.False(t, created.IsAdmin)
}

func TestFindByEmailAndUsername(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))

	created, err := repo.Create(context.Background(), seedUserDTO("mehmet@example.com", "mehmet"))
	require.NoError(t, err)

	byEmail, err := repo.FindByEmail(context.Background(), "mehmet@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byUsername, err := repo.FindByUsername(context.Background(), "mehmet")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byUsername.ID)

	_, err = repo.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFindByID(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))

	created, err := repo.Create(context.Background(), seedUserDTO("zeynep@example.com", "zeynep"))
	require.NoError(t, err)

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "zeynep", found.Username)

	_, err = repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateLastLogin(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))

	created, err := repo.Create(context.Background(), seedUserDTO("kerem@example.com", "kerem"))
	require.NoError(t, err)
	require.Nil(t, created.LastLoginAt)

	loginAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.UpdateLastLogin(context.Background(), created.ID, loginAt))

	refreshed, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, refreshed.LastLoginAt)
	assert.WithinDuration(t, loginAt, *refreshed.LastLoginAt, time.Second)
}

func TestFromModelOmitsCredentials(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))

	created, err := repo.Create(context.Background(), seedUserDTO("fatma@example.com", "fatma"))
	require.NoError(t, err)

	dto := FromModel(created)
	require.NotNil(t, dto)
	assert.Equal(t, created.ID, dto.ID)
	assert.Equal(t, created.Email, dto.Email)
	assert.Equal(t, created.Role, dto.Role)

	assert.Nil(t, FromModel(nil))
}
