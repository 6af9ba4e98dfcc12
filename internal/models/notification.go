package models

import "time"

// Notification is an admin announcement. Append-only: no update or delete.
type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:128;not null" json:"title"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	CreatedByID *uint     `gorm:"index" json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}
