package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"mmorpgboard/internal/cache"
	"mmorpgboard/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db, nil)
	ctx := context.Background()

	post := &models.Post{Title: "Need a tank", Content: "Raid tonight", Category: models.CategoryTank, IsActive: true, UserID: 3}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "posts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, post)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), post.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Delete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db, nil)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET "deleted_at"=$1 WHERE "posts"."id" = $2 AND "posts"."deleted_at" IS NULL`)).
		WithArgs(sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.Delete(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_ListNewestFirst(t *testing.T) {
	db := setupSQLite(t)
	repo := NewPostRepository(db, nil)
	ctx := context.Background()
	bob := seedUser(t, db, "bob")
	t0 := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	older := seedPost(t, db, bob, "older", t0)
	newer := seedPost(t, db, bob, "newer", t0.Add(time.Minute))
	sameTime := seedPost(t, db, bob, "same time, higher id", t0.Add(time.Minute))

	posts, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, []uint{sameTime.ID, newer.ID, older.ID}, []uint{posts[0].ID, posts[1].ID, posts[2].ID})
	assert.Equal(t, "bob", posts[0].User.Username)

	page, err := repo.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, older.ID, page[0].ID)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestPostRepository_UpdateAndSoftDelete(t *testing.T) {
	db := setupSQLite(t)
	repo := NewPostRepository(db, nil)
	ctx := context.Background()
	bob := seedUser(t, db, "bob")
	post := seedPost(t, db, bob, "Need a tank", time.Now().UTC())

	post.Title = "Need a healer"
	post.Category = models.CategoryHeal
	post.IsActive = false
	require.NoError(t, repo.Update(ctx, post))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Need a healer", got.Title)
	assert.Equal(t, models.CategoryHeal, got.Category)
	assert.False(t, got.IsActive)

	require.NoError(t, repo.Delete(ctx, post.ID))
	_, err = repo.GetByID(ctx, post.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	var raw int64
	require.NoError(t, db.Unscoped().Model(&models.Post{}).Where("id = ?", post.ID).Count(&raw).Error)
	assert.Equal(t, int64(1), raw, "soft delete keeps the row")
}

func TestPostRepository_CachedDetailInvalidatedOnUpdate(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	client, err := cache.NewClient(mr.Addr())
	require.NoError(t, err)
	defer client.Close()

	db := setupSQLite(t)
	repo := NewPostRepository(db, cache.NewStore(client))
	ctx := context.Background()
	bob := seedUser(t, db, "bob")
	post := seedPost(t, db, bob, "Selling potions", time.Now().UTC())

	_, err = repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.PostKey(post.ID)))

	post.Title = "Selling elixirs"
	require.NoError(t, repo.Update(ctx, post))
	assert.False(t, mr.Exists(cache.PostKey(post.ID)))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Selling elixirs", got.Title)
	assert.Equal(t, bob.ID, got.UserID)
	assert.Equal(t, "bob", got.User.Username)
}
