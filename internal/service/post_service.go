package service

import (
	"context"
	"strings"

	"mmorpgboard/internal/models"
	"mmorpgboard/internal/repository"
	"mmorpgboard/internal/validation"
)

// PostsPageSize is the number of posts per listing page.
const PostsPageSize = 10

// PostService handles ad listing and owner-only edits.
type PostService struct {
	postRepo repository.PostRepository
}

// CreatePostInput is the create form plus the acting user.
type CreatePostInput struct {
	UserID   uint
	Title    string
	Content  string
	Category string
}

// UpdatePostInput is the edit form for PostID.
type UpdatePostInput struct {
	UserID   uint
	PostID   uint
	Title    string
	Content  string
	Category string
	IsActive bool
}

// DeletePostInput names the post to delete and who asks.
type DeletePostInput struct {
	UserID uint
	PostID uint
}

// PostPage is one page of the post listing.
type PostPage struct {
	Posts       []*models.Post `json:"posts"`
	Page        int            `json:"page"`
	PageSize    int            `json:"page_size"`
	Total       int64          `json:"total"`
	TotalPages  int            `json:"total_pages"`
	HasNext     bool           `json:"has_next"`
	HasPrevious bool           `json:"has_previous"`
}

// postFields are the user editable fields shared by create and update.
type postFields struct {
	Title    string `form:"title" validate:"required,max=255"`
	Content  string `form:"content" validate:"required"`
	Category string `form:"category" validate:"required,category"`
}

// NewPostService creates a new post service
func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func cleanPostFields(title, content, category string) (postFields, error) {
	f := postFields{
		Title:    strings.TrimSpace(title),
		Content:  validation.SanitizeContent(content),
		Category: strings.ToUpper(strings.TrimSpace(category)),
	}
	return f, validation.Struct(f)
}

// ListPosts returns page (1-based) of the listing, newest first.
func (s *PostService) ListPosts(ctx context.Context, page int) (*PostPage, error) {
	if page < 1 {
		page = 1
	}

	total, err := s.postRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalPages := int((total + PostsPageSize - 1) / PostsPageSize)
	if page > 1 && page > totalPages {
		return nil, models.NewNotFoundError("Page", page)
	}

	posts, err := s.postRepo.List(ctx, PostsPageSize, (page-1)*PostsPageSize)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []*models.Post{}
	}

	return &PostPage{
		Posts:       posts,
		Page:        page,
		PageSize:    PostsPageSize,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}, nil
}

// GetPost returns a live post with its author.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// CreatePost validates the form and stores a new active post owned by in.UserID.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	f, err := cleanPostFields(in.Title, in.Content, in.Category)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:    f.Title,
		Content:  f.Content,
		Category: models.Category(f.Category),
		IsActive: true,
		UserID:   in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost loads the post, checks that the acting user owns it, then
// validates and saves the new field values.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	if post.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own posts")
	}

	f, err := cleanPostFields(in.Title, in.Content, in.Category)
	if err != nil {
		return nil, err
	}

	post.Title = f.Title
	post.Content = f.Content
	post.Category = models.Category(f.Category)
	post.IsActive = in.IsActive
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost soft-deletes the post when in.UserID owns it.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}

	if post.UserID != in.UserID {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}

	return s.postRepo.Delete(ctx, post.ID)
}
