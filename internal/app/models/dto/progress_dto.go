package dto

// UpdateProgressRequest is the body of POST /api/progress
type UpdateProgressRequest struct {
	TopicID   int64 `json:"topicId" binding:"required,gt=0" example:"12"`
	Completed bool  `json:"completed" example:"true"`
}
