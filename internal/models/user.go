// Package models contains data structures for the board's domain models.
package models

import "time"

// User is a board member. Registration is password-less: a one-time code
// emailed to the user is the only credential. Email is never
// rendered to JSON.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email      string    `gorm:"size:254;index;not null" json:"-"`
	IsVerified bool      `gorm:"not null" json:"is_verified"`
	IsActive   bool      `gorm:"not null" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Posts      []Post    `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}
