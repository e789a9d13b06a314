package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/carvanta/carvanta-backend/internal/app/model"
	"github.com/carvanta/carvanta-backend/internal/db"
)

func setupUserRepoTest(t *testing.T) UserRepository {
	t.Helper()

	database, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(database) })

	return NewUserRepository(database)
}

func newTestUser(email string, role model.UserRole) *model.User {
	return &model.User{
		Email:        email,
		PasswordHash: "$2a$10$notarealhashbutlongenoughtostore",
		Name:         "Test User",
		Role:         role,
	}
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := setupUserRepoTest(t)

	user := newTestUser("buyer@example.com", model.RoleUser)
	require.NoError(t, repo.Create(user))
	require.NotZero(t, user.ID)

	byID, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", byID.Email)

	byEmail, err := repo.FindByEmail("buyer@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = repo.FindByEmail("nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	repo := setupUserRepoTest(t)

	require.NoError(t, repo.Create(newTestUser("dup@example.com", model.RoleUser)))
	assert.Error(t, repo.Create(newTestUser("dup@example.com", model.RoleUser)))
}

func TestUserRepository_FindByRole(t *testing.T) {
	repo := setupUserRepoTest(t)

	require.NoError(t, repo.Create(newTestUser("admin@example.com", model.RoleAdmin)))
	require.NoError(t, repo.Create(newTestUser("one@example.com", model.RoleUser)))
	require.NoError(t, repo.Create(newTestUser("two@example.com", model.RoleUser)))

	users, err := repo.FindByRole(model.RoleUser)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	admins, err := repo.FindByRole(model.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin@example.com", admins[0].Email)
}

func TestUserRepository_SetBlocked(t *testing.T) {
	repo := setupUserRepoTest(t)

	user := newTestUser("blocked@example.com", model.RoleUser)
	require.NoError(t, repo.Create(user))

	ok, err := repo.SetBlocked(user.ID, true)
	require.NoError(t, err)
	assert.True(t, ok)

	found, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.True(t, found.IsBlocked)

	ok, err = repo.SetBlocked(user.ID, false)
	require.NoError(t, err)
	assert.True(t, ok)

	found, err = repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.False(t, found.IsBlocked)

	ok, err = repo.SetBlocked(9999, true)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserRepository_Update(t *testing.T) {
	repo := setupUserRepoTest(t)

	user := newTestUser("rename@example.com", model.RoleUser)
	require.NoError(t, repo.Create(user))

	user.Name = "Renamed"
	require.NoError(t, repo.Update(user))

	found, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", found.Name)
}

func TestUserRepository_CountByRole(t *testing.T) {
	repo := setupUserRepoTest(t)

	require.NoError(t, repo.Create(newTestUser("admin@example.com", model.RoleAdmin)))
	require.NoError(t, repo.Create(newTestUser("user@example.com", model.RoleUser)))

	total, err := repo.CountByRole(model.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
