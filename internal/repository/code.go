package repository

import (
	"context"
	"time"

	"mmorpgboard/internal/models"

	"gorm.io/gorm"
)

// CodeRepository stores one-time codes. History rows are kept; only the most
// recent code of a user matters.
type CodeRepository interface {
	Create(ctx context.Context, code *models.OneTimeCode) error
	Latest(ctx context.Context, userID uint) (*models.OneTimeCode, error)
	MarkConsumed(ctx context.Context, codeID uint, at time.Time) (bool, error)
}

type codeRepository struct {
	db *gorm.DB
}

// NewCodeRepository returns a new CodeRepository implementation.
func NewCodeRepository(db *gorm.DB) CodeRepository {
	return &codeRepository{db: db}
}

func (r *codeRepository) Create(ctx context.Context, code *models.OneTimeCode) error {
	if err := r.db.WithContext(ctx).Create(code).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *codeRepository) Latest(ctx context.Context, userID uint) (*models.OneTimeCode, error) {
	var code models.OneTimeCode
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		First(&code).Error
	if err != nil {
		return nil, translate(err, "OneTimeCode", userID)
	}
	return &code, nil
}

// MarkConsumed stamps consumed_at if the code is still unused. It reports
// false when another request consumed it first.
func (r *codeRepository) MarkConsumed(ctx context.Context, codeID uint, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.OneTimeCode{}).
		Where("id = ? AND consumed_at IS NULL", codeID).
		Update("consumed_at", at)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected == 1, nil
}
