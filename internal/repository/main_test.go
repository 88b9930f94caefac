package repository

import (
	"context"
	"testing"
	"time"

	"mmorpgboard/internal/database"
	"mmorpgboard/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func setupSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", IsActive: true}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

func seedPost(t *testing.T, db *gorm.DB, owner *models.User, title string, at time.Time) *models.Post {
	t.Helper()
	p := &models.Post{
		Title:     title,
		Content:   "content of " + title,
		Category:  models.CategoryTank,
		IsActive:  true,
		UserID:    owner.ID,
		CreatedAt: at,
	}
	require.NoError(t, NewPostRepository(db, nil).Create(context.Background(), p))
	return p
}

func seedReply(t *testing.T, db *gorm.DB, post *models.Post, author *models.User, text string, at time.Time) *models.Reply {
	t.Helper()
	r := &models.Reply{PostID: post.ID, UserID: author.ID, Text: text, CreatedAt: at}
	require.NoError(t, NewReplyRepository(db).Create(context.Background(), r))
	return r
}
