package models

import (
	"time"

	"gorm.io/datatypes"
)

// Acquisition types
const (
	AcquisitionDigital      = "digital"
	AcquisitionPhysical     = "physical"
	AcquisitionSubscription = "subscription"
)

// Library statuses. Any status may move to any other status; the domain
// allows reverting completed back to playing and so on.
const (
	StatusOwned     = "owned"
	StatusPlaying   = "playing"
	StatusCompleted = "completed"
	StatusWishlist  = "wishlist"
)

// Ownership binds one user to one game they have acquired, at most once
// per (user, game) pair. HoursPlayed only ever grows. A loan records the
// borrowing user, the duration in days, and when the loan started.
type Ownership struct {
	ID            uint           `gorm:"primaryKey" json:"ownership_id"`
	UserID        uint           `gorm:"uniqueIndex:idx_user_game;not null" json:"user_id"`
	GameID        uint           `gorm:"uniqueIndex:idx_user_game;not null" json:"game_id"`
	Type          string         `gorm:"size:50;not null" json:"type"` // digital, physical, subscription
	Options       datatypes.JSON `gorm:"type:json" json:"options,omitempty"`
	DatePurchased time.Time      `json:"date_purchased"`
	HoursPlayed   float64        `gorm:"default:0" json:"hours_played"`
	Status        string         `gorm:"size:50;default:owned" json:"status"`
	LoanedTo      *uint          `json:"loaned_to,omitempty"`
	LoanDuration  *int           `json:"loan_duration,omitempty"` // days
	LoanedAt      *time.Time     `json:"loaned_at,omitempty"`
	GameStudioID  *uint          `json:"game_studio_id,omitempty"` // studio at acquisition time
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (Ownership) TableName() string { return "user_games" }

// ValidAcquisitionType reports whether t is a known acquisition type.
func ValidAcquisitionType(t string) bool {
	switch t {
	case AcquisitionDigital, AcquisitionPhysical, AcquisitionSubscription:
		return true
	}
	return false
}

// ValidStatus reports whether s is a known library status.
func ValidStatus(s string) bool {
	switch s {
	case StatusOwned, StatusPlaying, StatusCompleted, StatusWishlist:
		return true
	}
	return false
}

// LoanExpired reports whether the loan has run past its duration at the
// given instant. Loans without a duration never expire.
func (o *Ownership) LoanExpired(now time.Time) bool {
	if o.LoanedTo == nil || o.LoanedAt == nil || o.LoanDuration == nil {
		return false
	}
	return o.LoanedAt.AddDate(0, 0, *o.LoanDuration).Before(now)
}
