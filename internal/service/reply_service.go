package service

import (
	"context"
	"strings"

	"mmorpgboard/internal/config"
	"mmorpgboard/internal/models"
	"mmorpgboard/internal/observability"
	"mmorpgboard/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// ReplyNotifier is told about new and accepted replies. Implementations
// must not fail the request.
type ReplyNotifier interface {
	NotifyPostOwnerOfReply(ctx context.Context, reply *models.Reply)
	NotifyReplierOfAcceptance(ctx context.Context, reply *models.Reply)
}

// ReplyPolicy holds the configurable reply rules.
type ReplyPolicy struct {
	AllowSelfReply      bool
	SingleAcceptedReply bool
}

// ReplyPolicyFromConfig reads the reply switches from cfg.
func ReplyPolicyFromConfig(cfg *config.Config) ReplyPolicy {
	return ReplyPolicy{
		AllowSelfReply:      cfg.AllowSelfReply,
		SingleAcceptedReply: cfg.SingleAcceptedReply,
	}
}

// ReplyService handles replies and the post owner's accept and delete actions.
type ReplyService struct {
	replyRepo repository.ReplyRepository
	postRepo  repository.PostRepository
	notifier  ReplyNotifier
	policy    ReplyPolicy
}

// CreateReplyInput is a reply by UserID to PostID.
type CreateReplyInput struct {
	UserID uint
	PostID uint
	Text   string
}

// ReplyActionInput names the reply an accept or delete acts on.
type ReplyActionInput struct {
	UserID  uint
	ReplyID uint
}

// NewReplyService creates a new reply service
func NewReplyService(
	replyRepo repository.ReplyRepository,
	postRepo repository.PostRepository,
	notifier ReplyNotifier,
	policy ReplyPolicy,
) *ReplyService {
	return &ReplyService{
		replyRepo: replyRepo,
		postRepo:  postRepo,
		notifier:  notifier,
		policy:    policy,
	}
}

// ListForPost returns the live replies of a post, oldest first.
func (s *ReplyService) ListForPost(ctx context.Context, postID uint) ([]*models.Reply, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.replyRepo.ListByPost(ctx, postID)
}

// ListForPostOwner returns the replies on posts owned by ownerID, optionally
// restricted to postID.
func (s *ReplyService) ListForPostOwner(ctx context.Context, ownerID uint, postID *uint) ([]*models.Reply, error) {
	return s.replyRepo.ListForPostOwner(ctx, ownerID, postID)
}

// CreateReply stores a reply on a post and notifies the post owner.
func (s *ReplyService) CreateReply(ctx context.Context, in CreateReplyInput) (_ *models.Reply, err error) {
	ctx, span := observability.StartSpan(ctx, "ReplyService", "CreateReply", attribute.Int64("post.id", int64(in.PostID)))
	defer func() { observability.EndSpan(span, err) }()

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewFieldErrors(map[string]string{"text": "This field is required."})
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if !s.policy.AllowSelfReply && post.UserID == in.UserID {
		return nil, models.NewValidationError("You cannot reply to your own post")
	}

	reply := &models.Reply{
		PostID: post.ID,
		UserID: in.UserID,
		Text:   text,
	}
	if err := s.replyRepo.Create(ctx, reply); err != nil {
		return nil, err
	}

	full, err := s.replyRepo.GetByID(ctx, reply.ID)
	if err != nil {
		return nil, err
	}
	s.notifier.NotifyPostOwnerOfReply(ctx, full)
	return full, nil
}

// AcceptReply marks a reply accepted. Only the owner of the parent post may
// accept; accepting twice is a no-op and notifies once.
func (s *ReplyService) AcceptReply(ctx context.Context, in ReplyActionInput) (_ *models.Reply, err error) {
	ctx, span := observability.StartSpan(ctx, "ReplyService", "AcceptReply", attribute.Int64("reply.id", int64(in.ReplyID)))
	defer func() { observability.EndSpan(span, err) }()

	reply, err := s.replyRepo.GetByID(ctx, in.ReplyID)
	if err != nil {
		return nil, err
	}
	if reply.Post.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only accept replies to your own posts")
	}
	if reply.IsAccepted {
		return reply, nil
	}

	if err := s.replyRepo.Accept(ctx, reply, s.policy.SingleAcceptedReply); err != nil {
		return nil, err
	}
	s.notifier.NotifyReplierOfAcceptance(ctx, reply)
	return reply, nil
}

// DeleteReply hides a reply. Only the owner of the parent post may delete.
func (s *ReplyService) DeleteReply(ctx context.Context, in ReplyActionInput) error {
	reply, err := s.replyRepo.GetByID(ctx, in.ReplyID)
	if err != nil {
		return err
	}
	if reply.Post.UserID != in.UserID {
		return models.NewUnauthorizedError("You can only delete replies to your own posts")
	}
	return s.replyRepo.SoftDelete(ctx, reply.ID)
}
