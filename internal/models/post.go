package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a classified ad published on the board.
type Post struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Category  Category       `gorm:"size:20;not null;index" json:"category"`
	IsActive  bool           `gorm:"not null" json:"is_active"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// CategoryLabel returns the display label of the post category.
func (p *Post) CategoryLabel() string {
	return p.Category.Label()
}
