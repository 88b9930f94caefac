package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"mmorpgboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn  func(context.Context, *models.Post) error
	getByIDFn func(context.Context, uint) (*models.Post, error)
	listFn    func(context.Context, int, int) ([]*models.Post, error)
	countFn   func(context.Context) (int64, error)
	updateFn  func(context.Context, *models.Post) error
	deleteFn  func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *postRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		listFn:    func(_ context.Context, _, _ int) ([]*models.Post, error) { return nil, nil },
		countFn:   func(_ context.Context) (int64, error) { return 0, nil },
		updateFn:  func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:  func(_ context.Context, _ uint) error { return nil },
	}
}

func TestPostService_CreatePostValidation(t *testing.T) {
	repo := noopPostRepo()
	svc := NewPostService(repo)
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreatePostInput
	}{
		{"missing title", CreatePostInput{UserID: 1, Content: "c", Category: "TANK"}},
		{"blank title", CreatePostInput{UserID: 1, Title: "   ", Content: "c", Category: "TANK"}},
		{"title too long", CreatePostInput{UserID: 1, Title: strings.Repeat("x", 256), Content: "c", Category: "TANK"}},
		{"missing content", CreatePostInput{UserID: 1, Title: "t", Category: "TANK"}},
		{"script only content", CreatePostInput{UserID: 1, Title: "t", Content: "<script>x</script>", Category: "TANK"}},
		{"missing category", CreatePostInput{UserID: 1, Title: "t", Content: "c"}},
		{"unknown category", CreatePostInput{UserID: 1, Title: "t", Content: "c", Category: "BARD"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePost(ctx, tt.in)
			assertValidationError(t, err)
		})
	}
}

func TestPostService_CreatePost(t *testing.T) {
	repo := noopPostRepo()
	var saved *models.Post
	repo.createFn = func(_ context.Context, p *models.Post) error {
		p.ID = 7
		saved = p
		return nil
	}
	svc := NewPostService(repo)

	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:   3,
		Title:    "  Need a tank ",
		Content:  "<p>Raid at 8</p><script>steal()</script>",
		Category: "tank",
	})
	require.NoError(t, err)
	assert.Same(t, saved, post)
	assert.Equal(t, uint(3), post.UserID)
	assert.Equal(t, "Need a tank", post.Title)
	assert.Equal(t, "<p>Raid at 8</p>", post.Content)
	assert.Equal(t, models.CategoryTank, post.Category)
	assert.True(t, post.IsActive)
}

func TestPostService_UpdatePostOwnership(t *testing.T) {
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		if id != 1 {
			return nil, models.NewNotFoundError("Post", id)
		}
		return &models.Post{ID: 1, UserID: 10, Title: "Need a tank", Content: "c", Category: models.CategoryTank, IsActive: true}, nil
	}
	updated := false
	repo.updateFn = func(_ context.Context, _ *models.Post) error {
		updated = true
		return nil
	}
	svc := NewPostService(repo)
	ctx := context.Background()

	_, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: 11, PostID: 2, Title: "x", Content: "y", Category: "TANK"})
	assertNotFoundError(t, err)

	_, err = svc.UpdatePost(ctx, UpdatePostInput{UserID: 11, PostID: 1, Title: "x", Content: "y", Category: "TANK"})
	assertUnauthorizedError(t, err)

	_, err = svc.UpdatePost(ctx, UpdatePostInput{UserID: 11, PostID: 1})
	assertUnauthorizedError(t, err)
	assert.False(t, updated)

	post, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: 10, PostID: 1, Title: "Need a healer", Content: "c", Category: "HEAL", IsActive: false})
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, models.CategoryHeal, post.Category)
	assert.False(t, post.IsActive)
}

func TestPostService_DeletePostOwnership(t *testing.T) {
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, UserID: 10}, nil
	}
	deleted := uint(0)
	repo.deleteFn = func(_ context.Context, id uint) error {
		deleted = id
		return nil
	}
	svc := NewPostService(repo)

	assertUnauthorizedError(t, svc.DeletePost(context.Background(), DeletePostInput{UserID: 11, PostID: 4}))
	assert.Zero(t, deleted)

	require.NoError(t, svc.DeletePost(context.Background(), DeletePostInput{UserID: 10, PostID: 4}))
	assert.Equal(t, uint(4), deleted)
}

func TestPostService_ListPostsPaging(t *testing.T) {
	repo := noopPostRepo()
	repo.countFn = func(_ context.Context) (int64, error) { return 23, nil }
	var gotLimit, gotOffset int
	repo.listFn = func(_ context.Context, limit, offset int) ([]*models.Post, error) {
		gotLimit, gotOffset = limit, offset
		return []*models.Post{{ID: 1}}, nil
	}
	svc := NewPostService(repo)
	ctx := context.Background()

	page, err := svc.ListPosts(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 10, gotLimit)
	assert.Equal(t, 20, gotOffset)
	assert.Equal(t, 3, page.TotalPages)
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrevious)

	page, err = svc.ListPosts(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.True(t, page.HasNext)

	_, err = svc.ListPosts(ctx, 4)
	assertNotFoundError(t, err)

	repo.countFn = func(_ context.Context) (int64, error) { return 0, errors.New("db down") }
	_, err = svc.ListPosts(ctx, 1)
	assert.Error(t, err)
}

func TestPostService_EmptyBoardFirstPage(t *testing.T) {
	svc := NewPostService(noopPostRepo())
	page, err := svc.ListPosts(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, page.Posts)
	assert.Empty(t, page.Posts)
	assert.Equal(t, 0, page.TotalPages)
}

func TestPostService_DaveCannotTouchBobsPost(t *testing.T) {
	env := newTestEnv(t, ReplyPolicy{AllowSelfReply: true})
	ctx := context.Background()
	bob := env.verifiedUser(t, "bob")
	dave := env.verifiedUser(t, "dave")

	post, err := env.posts.CreatePost(ctx, CreatePostInput{UserID: bob.ID, Title: "Need a tank", Content: "tonight", Category: "TANK"})
	require.NoError(t, err)
	before, err := env.posts.GetPost(ctx, post.ID)
	require.NoError(t, err)

	_, err = env.posts.UpdatePost(ctx, UpdatePostInput{UserID: dave.ID, PostID: post.ID, Title: "Mine now", Content: "x", Category: "DD"})
	assertUnauthorizedError(t, err)
	assertUnauthorizedError(t, env.posts.DeletePost(ctx, DeletePostInput{UserID: dave.ID, PostID: post.ID}))

	after, err := env.posts.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Title, after.Title)
	assert.Equal(t, before.Content, after.Content)
	assert.Equal(t, before.Category, after.Category)
	assert.Equal(t, before.IsActive, after.IsActive)
	assert.True(t, before.UpdatedAt.Equal(after.UpdatedAt))
}

func TestPostService_ListNewestFirst(t *testing.T) {
	env := newTestEnv(t, ReplyPolicy{AllowSelfReply: true})
	ctx := context.Background()
	bob := env.verifiedUser(t, "bob")

	var ids []uint
	for i := 0; i < 12; i++ {
		p, err := env.posts.CreatePost(ctx, CreatePostInput{UserID: bob.ID, Title: "post", Content: "c", Category: "TRADER"})
		require.NoError(t, err)
		ids = append(ids, p.ID)
		time.Sleep(time.Millisecond)
	}

	first, err := env.posts.ListPosts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, first.Posts, 10)
	assert.Equal(t, ids[11], first.Posts[0].ID)
	assert.Equal(t, ids[2], first.Posts[9].ID)

	second, err := env.posts.ListPosts(ctx, 2)
	require.NoError(t, err)
	require.Len(t, second.Posts, 2)
	assert.Equal(t, ids[1], second.Posts[0].ID)
	assert.Equal(t, ids[0], second.Posts[1].ID)
}
