package models

import "time"

// Reply is a response to a Post. The owner of the post may accept or delete it.
type Reply struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PostID     uint      `gorm:"not null;index" json:"post_id"`
	Post       *Post     `gorm:"foreignKey:PostID" json:"post,omitempty"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID" json:"user"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	IsAccepted bool      `gorm:"not null" json:"is_accepted"`
	IsDeleted  bool      `gorm:"not null;index" json:"-"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
