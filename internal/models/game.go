package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Game is a catalog entry. A game with StudioID == nil is unpublished and
// excluded from public listings, search and recommendations.
type Game struct {
	ID          uint           `gorm:"primaryKey" json:"game_id"`
	Title       string         `gorm:"uniqueIndex;size:200;not null" json:"title"`
	Genre       string         `gorm:"size:100" json:"genre,omitempty"`
	Developer   string         `gorm:"size:200" json:"developer,omitempty"`
	ReleaseDate *time.Time     `json:"release_date,omitempty"`
	Platform    string         `gorm:"size:100" json:"platform,omitempty"`
	Tags        datatypes.JSON `gorm:"type:json" json:"tags,omitempty"` // JSON array of strings
	Description string         `gorm:"type:text" json:"description,omitempty"`
	Price       *float64       `json:"price,omitempty"`
	Thumbnail   string         `gorm:"size:500" json:"thumbnail,omitempty"`
	StudioID    *uint          `gorm:"index" json:"studio_id"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (Game) TableName() string { return "games" }

// TagList decodes the Tags column. Returns nil for games without tags.
func (g *Game) TagList() []string {
	if len(g.Tags) == 0 {
		return nil
	}
	var tags []string
	_ = json.Unmarshal(g.Tags, &tags)
	return tags
}

// SetTagList encodes tags into the Tags column.
func (g *Game) SetTagList(tags []string) {
	if tags == nil {
		g.Tags = nil
		return
	}
	b, _ := json.Marshal(tags)
	g.Tags = b
}

// Published reports whether the game is assigned to a studio.
func (g *Game) Published() bool {
	return g.StudioID != nil
}
