package models

import "time"

// Contact stores a submitted contact form.
type Contact struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:64" json:"name"`
	Email     string    `gorm:"size:255" json:"email"`
	Number    string    `gorm:"size:32" json:"number"`
	Message   string    `gorm:"type:text" json:"message"`
	CreatedAt time.Time `json:"date"`
}
