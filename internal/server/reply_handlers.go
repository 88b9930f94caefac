package server

import (
	"fmt"

	"mmorpgboard/internal/models"
	"mmorpgboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

const myRepliesPath = "/my-replies"

// CreateReply handles POST /post/:id/reply
// @Summary Reply to post
// @Description Requires the board_session cookie; the post owner is emailed
// @Tags replies
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path int true "Post ID"
// @Param text formData string true "Reply text"
// @Success 303 {string} string "Redirect to /post/{id}"
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /post/{id}/reply [post]
func (s *Server) CreateReply(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `form:"text" json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if _, err := s.replyService.CreateReply(c.UserContext(), service.CreateReplyInput{
		UserID: currentUserID(c),
		PostID: postID,
		Text:   req.Text,
	}); err != nil {
		return respondError(c, err)
	}
	return seeOther(c, fmt.Sprintf("/post/%d", postID))
}

// MyReplies handles GET /my-replies, optionally filtered with ?post=ID.
// @Summary Replies to my posts
// @Tags replies
// @Produce json
// @Param post query int false "Only replies to this post"
// @Success 200 {object} object{replies=[]models.Reply,post=int}
// @Failure 401 {object} models.ErrorResponse
// @Router /my-replies [get]
func (s *Server) MyReplies(c *fiber.Ctx) error {
	filter := parsePostFilter(c)
	replies, err := s.replyService.ListForPostOwner(c.UserContext(), currentUserID(c), filter)
	if err != nil {
		return respondError(c, err)
	}

	resp := fiber.Map{"replies": replies}
	if filter != nil {
		resp["post"] = *filter
	}
	return c.JSON(resp)
}

// AcceptReply handles POST /reply/:id/accept
// @Summary Accept reply
// @Description Post owner only; the replier is emailed once
// @Tags replies
// @Param id path int true "Reply ID"
// @Success 303 {string} string "Redirect to /my-replies"
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /reply/{id}/accept [post]
func (s *Server) AcceptReply(c *fiber.Ctx) error {
	replyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.replyService.AcceptReply(c.UserContext(), service.ReplyActionInput{
		UserID:  currentUserID(c),
		ReplyID: replyID,
	}); err != nil {
		return redirectIfDenied(c, err, myRepliesPath)
	}
	return seeOther(c, myRepliesPath)
}

// DeleteReply handles POST /reply/:id/delete
// @Summary Delete reply
// @Description Post owner only
// @Tags replies
// @Param id path int true "Reply ID"
// @Success 303 {string} string "Redirect to /my-replies"
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /reply/{id}/delete [post]
func (s *Server) DeleteReply(c *fiber.Ctx) error {
	replyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.replyService.DeleteReply(c.UserContext(), service.ReplyActionInput{
		UserID:  currentUserID(c),
		ReplyID: replyID,
	}); err != nil {
		return redirectIfDenied(c, err, myRepliesPath)
	}
	return seeOther(c, myRepliesPath)
}
