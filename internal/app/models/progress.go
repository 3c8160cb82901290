package models

import "time"

// ProgressEntry records a user's state on one topic. At most one per (user, topic).
type ProgressEntry struct {
	ID           int64     `json:"id" db:"id"`
	UserID       int64     `json:"-" db:"user_id"`
	TopicID      int64     `json:"topicId" db:"topic_id"`
	Completed    bool      `json:"completed" db:"completed"`
	LastAccessed time.Time `json:"lastAccessed" db:"last_accessed"`

	Topic *Topic `json:"topic,omitempty"`
}
