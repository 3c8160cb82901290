package models

import "time"

// Subject is the root of the content hierarchy
type Subject struct {
	ID          int64           `json:"id" db:"id" example:"1"`
	Name        string          `json:"name" db:"name" example:"JavaScript"`
	Slug        string          `json:"slug" db:"slug" example:"javascript"`
	Description string          `json:"description" db:"description"`
	Icon        string          `json:"icon" db:"icon" example:"📚"`
	Category    SubjectCategory `json:"category" db:"category" example:"programming"`
	Level       SubjectLevel    `json:"level" db:"level" example:"beginner"`
	Order       int             `json:"order" db:"sort_order" example:"0"`
	IsActive    bool            `json:"isActive" db:"is_active" example:"true"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}
