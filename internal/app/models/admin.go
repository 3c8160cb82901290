package models

import "time"

// Admin is a console account, separate from learner accounts
type Admin struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Username  string    `json:"username" db:"username" example:"admin"`
	Email     string    `json:"email" db:"email" example:"admin@edulearn.com"`
	Password  string    `json:"-" db:"password"` // bcrypt hash
	Role      AdminRole `json:"role" db:"role" example:"admin"`
	IsActive  bool      `json:"isActive" db:"is_active" example:"true"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
