package dto

// CreateSubjectRequest is the body of POST /api/admin/subjects.
// Slug is derived from Name when empty.
type CreateSubjectRequest struct {
	Name        string `json:"name" binding:"required,max=200" example:"JavaScript"`
	Slug        string `json:"slug" binding:"omitempty,max=200" example:"javascript"`
	Description string `json:"description" binding:"required" example:"Learn the language of the web"`
	Icon        string `json:"icon" example:"📚"`
	Category    string `json:"category" binding:"required,oneof=programming mathematics languages science other" example:"programming"`
	Level       string `json:"level" binding:"omitempty,oneof=beginner intermediate advanced all" example:"beginner"`
	Order       int    `json:"order" example:"0"`
	IsActive    *bool  `json:"isActive" example:"true"`
}

// UpdateSubjectRequest is the body of PUT /api/admin/subjects/:id.
// Only provided fields are changed.
type UpdateSubjectRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Slug        *string `json:"slug" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Category    *string `json:"category" binding:"omitempty,oneof=programming mathematics languages science other"`
	Level       *string `json:"level" binding:"omitempty,oneof=beginner intermediate advanced all"`
	Order       *int    `json:"order"`
	IsActive    *bool   `json:"isActive"`
}
