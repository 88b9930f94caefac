package server

import (
	"mmorpgboard/internal/models"
	"mmorpgboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postForm struct {
	Title    string `form:"title" json:"title"`
	Content  string `form:"content" json:"content"`
	Category string `form:"category" json:"category"`
	IsActive string `form:"is_active" json:"is_active"`
}

// ListPosts handles GET /
// @Summary List posts
// @Description Newest posts first, ten per page
// @Tags posts
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {object} service.PostPage
// @Failure 404 {object} models.ErrorResponse
// @Router / [get]
func (s *Server) ListPosts(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return nil
	}

	result, err := s.postService.ListPosts(c.UserContext(), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// GetPost handles GET /post/:id
// @Summary Get post
// @Description A post with its live replies, oldest first
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} object{post=models.Post,category_label=string,replies=[]models.Reply}
// @Failure 404 {object} models.ErrorResponse
// @Router /post/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	replies, err := s.replyService.ListForPost(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"post":           post,
		"category_label": post.CategoryLabel(),
		"replies":        replies,
	})
}

// ListCategories handles GET /categories
// @Summary List categories
// @Tags posts
// @Produce json
// @Success 200 {array} models.CategoryChoice
// @Router /categories [get]
func (s *Server) ListCategories(c *fiber.Ctx) error {
	return c.JSON(models.Categories)
}

// CreatePost handles POST /post/add
// @Summary Create post
// @Description Requires the board_session cookie
// @Tags posts
// @Accept x-www-form-urlencoded
// @Produce json
// @Param title formData string true "Title"
// @Param content formData string true "Content"
// @Param category formData string true "Category code"
// @Success 303 {string} string "Redirect to /"
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /post/add [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postForm
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if _, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:   currentUserID(c),
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
	}); err != nil {
		return respondError(c, err)
	}
	return seeOther(c, "/")
}

// UpdatePost handles POST /post/:id/edit
// @Summary Update post
// @Description Owner only; anyone else is redirected to / and nothing changes
// @Tags posts
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path int true "Post ID"
// @Param title formData string true "Title"
// @Param content formData string true "Content"
// @Param category formData string true "Category code"
// @Param is_active formData string false "Checkbox, on when active"
// @Success 303 {string} string "Redirect to /"
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /post/{id}/edit [post]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req postForm
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if _, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		UserID:   currentUserID(c),
		PostID:   postID,
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		IsActive: formBool(req.IsActive),
	}); err != nil {
		return redirectIfDenied(c, err, "/")
	}
	return seeOther(c, "/")
}

// DeletePost handles POST /post/:id/delete
// @Summary Delete post
// @Description Owner only; anyone else is redirected to / and nothing changes
// @Tags posts
// @Param id path int true "Post ID"
// @Success 303 {string} string "Redirect to /"
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /post/{id}/delete [post]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		UserID: currentUserID(c),
		PostID: postID,
	}); err != nil {
		return redirectIfDenied(c, err, "/")
	}
	return seeOther(c, "/")
}
