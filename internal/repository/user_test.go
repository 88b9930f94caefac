package repository

import (
	"context"
	"regexp"
	"testing"

	"mmorpgboard/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	user := &models.User{Username: "alice", Email: "alice@example.com", IsActive: true}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, uint(1), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db := setupSQLite(t)
	repo := NewUserRepository(db)

	_, err := repo.GetByID(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	db := setupSQLite(t)
	repo := NewUserRepository(db)
	seedUser(t, db, "alice")

	err := repo.Create(context.Background(), &models.User{Username: "alice", Email: "other@example.com", IsActive: true})
	assert.ErrorIs(t, err, models.ErrUsernameUsed)
}

func TestUserRepository_GetByEmail_PrefersVerified(t *testing.T) {
	db := setupSQLite(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	verified := &models.User{Username: "alice", Email: "shared@example.com", IsActive: true}
	require.NoError(t, repo.Create(ctx, verified))
	require.NoError(t, repo.MarkVerified(ctx, verified.ID))
	require.NoError(t, repo.Create(ctx, &models.User{Username: "alice2", Email: "shared@example.com", IsActive: true}))

	got, err := repo.GetByEmail(ctx, " Shared@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, verified.ID, got.ID)
	assert.True(t, got.IsVerified)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestUserRepository_MarkVerified_Unknown(t *testing.T) {
	db := setupSQLite(t)
	err := NewUserRepository(db).MarkVerified(context.Background(), 12)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}
