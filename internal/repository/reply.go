package repository

import (
	"context"

	"mmorpgboard/internal/models"

	"gorm.io/gorm"
)

// ReplyRepository defines interface for reply operations. Soft-deleted
// replies are invisible to every method.
type ReplyRepository interface {
	Create(ctx context.Context, reply *models.Reply) error
	GetByID(ctx context.Context, id uint) (*models.Reply, error)
	ListByPost(ctx context.Context, postID uint) ([]*models.Reply, error)
	ListForPostOwner(ctx context.Context, ownerID uint, postID *uint) ([]*models.Reply, error)
	Accept(ctx context.Context, reply *models.Reply, exclusive bool) error
	SoftDelete(ctx context.Context, id uint) error
}

type replyRepository struct {
	db *gorm.DB
}

// NewReplyRepository creates a new ReplyRepository
func NewReplyRepository(db *gorm.DB) ReplyRepository {
	return &replyRepository{db: db}
}

func (r *replyRepository) live(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("replies.is_deleted = ?", false)
}

func (r *replyRepository) Create(ctx context.Context, reply *models.Reply) error {
	if err := r.db.WithContext(ctx).Omit("Post", "User").Create(reply).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetByID loads a reply with its author, its post and the post owner.
func (r *replyRepository) GetByID(ctx context.Context, id uint) (*models.Reply, error) {
	var reply models.Reply
	err := r.live(ctx).
		Preload("User").
		Preload("Post").
		Preload("Post.User").
		First(&reply, id).Error
	if err != nil {
		return nil, translate(err, "Reply", id)
	}
	if reply.Post == nil {
		// The parent post was deleted.
		return nil, models.NewNotFoundError("Reply", id)
	}
	return &reply, nil
}

// ListByPost returns the replies of a post oldest first.
func (r *replyRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Reply, error) {
	var replies []*models.Reply
	err := r.live(ctx).
		Preload("User").
		Where("replies.post_id = ?", postID).
		Order("replies.created_at ASC").
		Order("replies.id ASC").
		Find(&replies).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return replies, nil
}

// ListForPostOwner returns the replies on live posts owned by ownerID,
// optionally restricted to one post.
func (r *replyRepository) ListForPostOwner(ctx context.Context, ownerID uint, postID *uint) ([]*models.Reply, error) {
	var replies []*models.Reply
	q := r.live(ctx).
		Joins("JOIN posts ON posts.id = replies.post_id AND posts.deleted_at IS NULL").
		Where("posts.user_id = ?", ownerID)
	if postID != nil {
		q = q.Where("replies.post_id = ?", *postID)
	}
	err := q.Preload("User").
		Preload("Post").
		Order("replies.created_at ASC").
		Order("replies.id ASC").
		Find(&replies).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return replies, nil
}

// Accept sets is_accepted on reply. With exclusive set, the other replies of
// the same post lose their accepted flag in the same transaction.
func (r *replyRepository) Accept(ctx context.Context, reply *models.Reply, exclusive bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if exclusive {
			if err := tx.Model(&models.Reply{}).
				Where("post_id = ? AND id <> ? AND is_accepted = ?", reply.PostID, reply.ID, true).
				Update("is_accepted", false).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Reply{}).
			Where("id = ?", reply.ID).
			Update("is_accepted", true).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	reply.IsAccepted = true
	return nil
}

func (r *replyRepository) SoftDelete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.Reply{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Reply", id)
	}
	return nil
}
