package dto

import "github.com/edulearn/backend/internal/app/models"

// BulkUploadRequest is the ingestion payload: subjects -> topics -> contents
type BulkUploadRequest struct {
	Subjects []SubjectImport `json:"subjects"`
}

// SubjectImport is a subject plus its topics
type SubjectImport struct {
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Category    string        `json:"category"`
	Level       string        `json:"level"`
	Order       int           `json:"order"`
	IsActive    *bool         `json:"isActive"`
	Topics      []TopicImport `json:"topics"`
}

// TopicImport is a topic plus its contents
type TopicImport struct {
	Title         string          `json:"title"`
	Slug          string          `json:"slug"`
	Description   string          `json:"description"`
	Order         int             `json:"order"`
	EstimatedTime int             `json:"estimatedTime"`
	Difficulty    string          `json:"difficulty"`
	IsActive      *bool           `json:"isActive"`
	Contents      []ContentImport `json:"contents"`
}

// ContentImport is one content section
type ContentImport struct {
	Title        string                   `json:"title"`
	Type         string                   `json:"type"`
	Content      string                   `json:"content"`
	CodeLanguage string                   `json:"codeLanguage"`
	Examples     []models.ContentExample  `json:"examples"`
	Exercises    []models.ContentExercise `json:"exercises"`
	Order        int                      `json:"order"`
}

// BulkTopicResult reports one matched or created topic
type BulkTopicResult struct {
	Topic string `json:"topic" example:"Introduction"`
	Slug  string `json:"slug" example:"intro"`
}

// BulkSubjectResult reports one matched or created subject and its topics, in payload order
type BulkSubjectResult struct {
	Subject string            `json:"subject" example:"JavaScript"`
	Slug    string            `json:"slug" example:"js"`
	Topics  []BulkTopicResult `json:"topics"`
}

// BulkUploadResponse is the body returned by a successful bulk upload
type BulkUploadResponse struct {
	Msg     string              `json:"msg" example:"Bulk upload successful"`
	Results []BulkSubjectResult `json:"results"`
}
