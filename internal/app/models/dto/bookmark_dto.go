package dto

// BookmarkRequest is the body of POST /api/bookmarks
type BookmarkRequest struct {
	ContentID int64 `json:"contentId" binding:"required,gt=0" example:"5"`
}
