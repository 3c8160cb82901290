package models

import "time"

// NoteUploader is the account that uploaded a note
type NoteUploader struct {
	ID       int64  `json:"id"`
	Kind     string `json:"kind"` // "admin" or "user"
	Username string `json:"username"`
}

// Note is a downloadable PDF. Subject is a free-text label, not a Subject reference.
type Note struct {
	ID           int64     `json:"id" db:"id"`
	Title        string    `json:"title" db:"title" example:"Algebra Basics"`
	Description  string    `json:"description" db:"description"`
	Subject      string    `json:"subject" db:"subject" example:"Math"`
	FileName     string    `json:"fileName" db:"file_name" example:"algebra.pdf"`
	FileURL      string    `json:"fileUrl" db:"file_url" example:"/uploads/notes/1700000000000-1a2b3c4d.pdf"`
	FilePath     string    `json:"-" db:"file_path"` // relative to the storage root
	FileSize     int64     `json:"fileSize" db:"file_size"`
	Downloads    int64     `json:"downloads" db:"downloads"`
	UploaderID   int64     `json:"-" db:"uploaded_by_id"`
	UploaderKind string    `json:"-" db:"uploaded_by_kind"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`

	UploadedBy *NoteUploader `json:"uploadedBy,omitempty"`
}
