package models

import "time"

// Session stores server-side login sessions (for logout, invalidation).
// Token is the opaque value held by the client cookie.
type Session struct {
	Token     string    `gorm:"primaryKey;size:64"` // e.g. UUID
	UserID    uint      `gorm:"index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
}
