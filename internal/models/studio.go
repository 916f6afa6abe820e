package models

import "time"

// Studio represents a game publisher. Deleting a studio detaches its games
// (studio_id set to NULL) rather than deleting them.
type Studio struct {
	ID          uint      `gorm:"primaryKey" json:"studio_id"`
	Name        string    `gorm:"uniqueIndex;size:200;not null" json:"name"`
	Logo        string    `gorm:"size:500" json:"logo,omitempty"`
	ContactInfo string    `gorm:"size:500" json:"contact_info,omitempty"`
	UserID      *uint     `json:"user_id,omitempty"` // optional owning account
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Studio) TableName() string { return "studios" }
