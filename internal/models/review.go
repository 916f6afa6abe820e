package models

import "time"

// Rating bounds, inclusive.
const (
	RatingMin = 1
	RatingMax = 5
)

// Review is one user's rating of one game, at most one per (user, game).
// GameStudioID snapshots the game's studio at authoring time so studio
// aggregates survive later reassignment.
type Review struct {
	ID           uint      `gorm:"primaryKey" json:"review_id"`
	GameID       uint      `gorm:"uniqueIndex:idx_review_user_game;not null" json:"game_id"`
	UserID       uint      `gorm:"uniqueIndex:idx_review_user_game;not null" json:"user_id"`
	Rating       int       `gorm:"not null" json:"rating"` // 1..5
	ReviewText   string    `gorm:"type:text" json:"review_text,omitempty"`
	GameStudioID *uint     `gorm:"index" json:"game_studio_id,omitempty"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Review) TableName() string { return "reviews" }

// ValidRating reports whether r is inside the accepted rating range.
func ValidRating(r int) bool {
	return r >= RatingMin && r <= RatingMax
}
