package models

import "time"

// Topic belongs to a subject; its slug is unique within that subject only
type Topic struct {
	ID            int64      `json:"id" db:"id" example:"1"`
	SubjectID     *int64     `json:"subjectId" db:"subject_id"` // nil once the parent subject is removed without cascade
	Title         string     `json:"title" db:"title" example:"Variables"`
	Slug          string     `json:"slug" db:"slug" example:"variables"`
	Description   string     `json:"description" db:"description"`
	Order         int        `json:"order" db:"sort_order"`
	EstimatedTime int        `json:"estimatedTime" db:"estimated_time" example:"30"` // minutes
	Difficulty    Difficulty `json:"difficulty" db:"difficulty" example:"easy"`
	Prerequisites []int64    `json:"prerequisiteIds" db:"prerequisites"`
	IsActive      bool       `json:"isActive" db:"is_active"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`

	// Populated relations
	Subject            *Subject `json:"subject,omitempty"`
	PrerequisiteTopics []*Topic `json:"prerequisites,omitempty"`
}
