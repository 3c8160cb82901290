package dto

import "github.com/edulearn/backend/internal/app/models"

// UploadNoteRequest holds the text fields of the multipart note upload
type UploadNoteRequest struct {
	Title       string `form:"title" example:"Algebra Basics"`
	Description string `form:"description" example:"Intro"`
	Subject     string `form:"subject" example:"Math"`
}

// NoteFilter narrows GET /api/notes
type NoteFilter struct {
	Subject string
	Limit   int
}

// NoteUploadResponse is the 201 body of a note upload
type NoteUploadResponse struct {
	Message string       `json:"message" example:"Note uploaded successfully"`
	Note    *models.Note `json:"note"`
}
