package models

import "time"

// User roles
const (
	RoleUser        = "user"
	RoleStudioAdmin = "studio-admin"
	RoleAdmin       = "admin"
)

// User represents a registered account
type User struct {
	ID        uint      `gorm:"primaryKey" json:"user_id"`
	Username  string    `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"` // bcrypt hash
	Role      string    `gorm:"size:50;default:user" json:"role"` // user, studio-admin, admin
	Avatar    string    `gorm:"size:500" json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
