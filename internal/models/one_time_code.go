package models

import "time"

// OneTimeCode is a short-lived numeric code bound to a user. Only a bcrypt
// hash of the digits is persisted; Code carries the plain digits back to the
// caller of Issue and is never stored.
type OneTimeCode struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	User       *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CodeHash   string     `gorm:"not null" json:"-"`
	Code       string     `gorm:"-" json:"-"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
	TTLSeconds int        `gorm:"not null" json:"ttl_seconds"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
}

// IsExpired reports whether more than TTLSeconds have elapsed since the code
// was created.
func (c *OneTimeCode) IsExpired(now time.Time) bool {
	return now.Sub(c.CreatedAt).Seconds() > float64(c.TTLSeconds)
}

// IsConsumed reports whether the code was already used for a successful login.
func (c *OneTimeCode) IsConsumed() bool {
	return c.ConsumedAt != nil
}

// ExpiresAt is the last instant at which the code is still accepted.
func (c *OneTimeCode) ExpiresAt() time.Time {
	return c.CreatedAt.Add(time.Duration(c.TTLSeconds) * time.Second)
}
