package models

import "time"

// ContentExample is a worked code sample inside a content section
type ContentExample struct {
	Title       string `json:"title"`
	Code        string `json:"code"`
	Explanation string `json:"explanation"`
}

// ContentExercise is a practice question inside a content section
type ContentExercise struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Hints    []string `json:"hints"`
}

// Content is one ordered section of a topic
type Content struct {
	ID           int64             `json:"id" db:"id"`
	TopicID      *int64            `json:"topicId" db:"topic_id"`
	Title        string            `json:"title" db:"title"`
	Type         ContentType       `json:"type" db:"type" example:"text"`
	Body         string            `json:"content" db:"body"`
	CodeLanguage string            `json:"codeLanguage,omitempty" db:"code_language" example:"javascript"`
	Examples     []ContentExample  `json:"examples" db:"examples"`
	Exercises    []ContentExercise `json:"exercises" db:"exercises"`
	Order        int               `json:"order" db:"sort_order"`
	CreatedAt    time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time         `json:"updatedAt" db:"updated_at"`
}
