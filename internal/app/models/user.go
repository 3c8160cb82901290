package models

import (
	"time"
)

// Preferences holds per-user display settings
type Preferences struct {
	Theme    Theme  `json:"theme" db:"theme" example:"light"`
	Language string `json:"language" db:"language" example:"en"`
}

// DefaultPreferences is applied at registration
func DefaultPreferences() Preferences {
	return Preferences{Theme: ThemeLight, Language: "en"}
}

// User defines the learner model based on the 'users' table
type User struct {
	ID          int64       `json:"id" db:"id" example:"1"`
	Name        string      `json:"name" db:"name" example:"Jane Doe"`
	Email       string      `json:"email" db:"email" example:"jane@example.com"`
	Password    string      `json:"-" db:"password"` // bcrypt hash
	Preferences Preferences `json:"preferences"`
	Bookmarks   []int64     `json:"bookmarks"` // content ids, loaded from user_bookmarks
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time   `json:"updatedAt" db:"updated_at"`
}
