package server

import (
	"fmt"
	"log/slog"

	"mmorpgboard/internal/middleware"
	"mmorpgboard/internal/models"
	"mmorpgboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

func pendingLocation(userID uint) string {
	return fmt.Sprintf("/login-with-code/%d", userID)
}

// Register handles POST /register
// @Summary Register
// @Description Create an unverified account and email it a one-time code
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param email formData string true "Email address"
// @Success 303 {string} string "Redirect to /login-with-code/{userId}"
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Username string `form:"username" json:"username"`
		Email    string `form:"email" json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		return respondError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "user registered", slog.Uint64("user_id", uint64(user.ID)))
	return seeOther(c, pendingLocation(user.ID))
}

// Login handles POST /login by emailing a fresh code to an existing user.
// @Summary Request a login code
// @Description Email a fresh one-time code to an existing account
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param email formData string true "Email address"
// @Success 303 {string} string "Redirect to /login-with-code/{userId}"
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email string `form:"email" json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.RequestLoginCode(c.UserContext(), req.Email)
	if err != nil {
		return respondError(c, err)
	}
	return seeOther(c, pendingLocation(user.ID))
}

// PendingVerification handles GET /login-with-code/:userId
// @Summary Pending verification
// @Description Describe the code a user is expected to enter
// @Tags auth
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} object{user_id=int,username=string,is_verified=bool,code_length=int,code_ttl_seconds=int}
// @Failure 404 {object} models.ErrorResponse
// @Router /login-with-code/{userId} [get]
func (s *Server) PendingVerification(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	user, err := s.authService.PendingUser(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"user_id":          user.ID,
		"username":         user.Username,
		"is_verified":      user.IsVerified,
		"code_length":      s.config.CodeLength,
		"code_ttl_seconds": s.config.CodeTTLSeconds,
	})
}

// VerifyCode handles POST /login-with-code and POST /login-with-code/:userId.
// The user id comes from the path when present, else from the form.
// @Summary Verify a login code
// @Description Check the latest code of a user and start a session
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param userId path int true "User ID"
// @Param code formData string true "One-time code"
// @Success 303 {string} string "Redirect to /, sets the board_session cookie"
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /login-with-code/{userId} [post]
func (s *Server) VerifyCode(c *fiber.Ctx) error {
	var req struct {
		UserID uint   `form:"user_id" json:"user_id"`
		Code   string `form:"code" json:"code"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	userID := req.UserID
	if c.Params("userId") != "" {
		id, err := s.parseID(c, "userId")
		if err != nil {
			return nil
		}
		userID = id
	}
	if userID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldErrors(map[string]string{"user_id": "This field is required."}))
	}

	user, err := s.authService.VerifyCode(c.UserContext(), userID, req.Code)
	if err != nil {
		middleware.Logger.InfoContext(c.UserContext(), "code verification rejected",
			slog.Uint64("user_id", uint64(userID)), slog.String("error", err.Error()))
		return respondError(c, err)
	}

	if err := s.sessions.Start(c, user.ID); err != nil {
		return respondError(c, err)
	}
	return seeOther(c, "/")
}

// Logout handles POST /logout
// @Summary Logout
// @Description Revoke the session and clear the cookie
// @Tags auth
// @Success 303 {string} string "Redirect to /"
// @Router /logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	s.sessions.End(c)
	return seeOther(c, "/")
}
