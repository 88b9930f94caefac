package service

import (
	"context"
	"strings"

	"mmorpgboard/internal/models"
	"mmorpgboard/internal/observability"
	"mmorpgboard/internal/repository"
	"mmorpgboard/internal/validation"
)

// CodeSender delivers a freshly issued login code to its user.
type CodeSender interface {
	SendLoginCode(ctx context.Context, user *models.User, code *models.OneTimeCode)
}

// AuthService runs the password-less registration and login flows.
type AuthService struct {
	users  repository.UserRepository
	codes  *CodeService
	sender CodeSender
}

// RegisterInput is the registration form.
type RegisterInput struct {
	Username string `form:"username" validate:"required,username"`
	Email    string `form:"email" validate:"required,email,max=254"`
}

// NewAuthService wires the auth flows to the user store, the code service
// and the mail sender.
func NewAuthService(users repository.UserRepository, codes *CodeService, sender CodeSender) *AuthService {
	return &AuthService{users: users, codes: codes, sender: sender}
}

// Register creates an unverified user and emails a code. A pending
// registration with the same username and email gets a new code instead.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (_ *models.User, err error) {
	ctx, span := observability.StartSpan(ctx, "AuthService", "Register")
	defer func() { observability.EndSpan(span, err) }()

	in.Username = strings.TrimSpace(in.Username)
	in.Email = validation.NormalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil && existing.IsVerified:
		return nil, models.ErrEmailTaken
	case err != nil && !models.HasCode(err, models.CodeNotFound):
		return nil, err
	}

	user, err := s.users.GetByUsername(ctx, in.Username)
	switch {
	case err == nil:
		if user.IsVerified || !strings.EqualFold(user.Email, in.Email) {
			return nil, models.ErrUsernameUsed
		}
	case models.HasCode(err, models.CodeNotFound):
		user = &models.User{
			Username:   in.Username,
			Email:      in.Email,
			IsActive:   true,
			IsVerified: false,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.sendCode(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// RequestLoginCode emails a fresh code to the account registered with email.
func (s *AuthService) RequestLoginCode(ctx context.Context, email string) (*models.User, error) {
	email = validation.NormalizeEmail(email)
	if email == "" {
		return nil, models.NewFieldErrors(map[string]string{"email": "This field is required."})
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, models.ErrUserInactive
	}

	if err := s.sendCode(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// PendingUser returns the user awaiting a code.
func (s *AuthService) PendingUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// VerifyCode checks code for userID and marks the user verified. The caller
// binds the session on success.
func (s *AuthService) VerifyCode(ctx context.Context, userID uint, code string) (*models.User, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, models.NewFieldErrors(map[string]string{"code": "This field is required."})
	}

	user, err := s.PendingUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, models.ErrUserInactive
	}

	if _, err := s.codes.Verify(ctx, user.ID, code, s.codes.Now()); err != nil {
		return nil, err
	}

	if !user.IsVerified {
		if err := s.users.MarkVerified(ctx, user.ID); err != nil {
			return nil, err
		}
		user.IsVerified = true
	}
	return user, nil
}

func (s *AuthService) sendCode(ctx context.Context, user *models.User) error {
	code, err := s.codes.Issue(ctx, user.ID, 0)
	if err != nil {
		return err
	}
	s.sender.SendLoginCode(ctx, user, code)
	return nil
}
