package models

// SubjectCategory groups subjects on the catalog page
type SubjectCategory string

const (
	CategoryProgramming SubjectCategory = "programming"
	CategoryMathematics SubjectCategory = "mathematics"
	CategoryLanguages   SubjectCategory = "languages"
	CategoryScience     SubjectCategory = "science"
	CategoryOther       SubjectCategory = "other"
)

// IsValid reports whether c is a known category
func (c SubjectCategory) IsValid() bool {
	switch c {
	case CategoryProgramming, CategoryMathematics, CategoryLanguages, CategoryScience, CategoryOther:
		return true
	}
	return false
}

// SubjectLevel is the audience level of a subject
type SubjectLevel string

const (
	LevelBeginner     SubjectLevel = "beginner"
	LevelIntermediate SubjectLevel = "intermediate"
	LevelAdvanced     SubjectLevel = "advanced"
	LevelAll          SubjectLevel = "all"
)

// IsValid reports whether l is a known level
func (l SubjectLevel) IsValid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced, LevelAll:
		return true
	}
	return false
}

// Difficulty of a topic
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// IsValid reports whether d is a known difficulty
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// ContentType tells the client how to render a content section
type ContentType string

const (
	ContentTypeText     ContentType = "text"
	ContentTypeCode     ContentType = "code"
	ContentTypeExample  ContentType = "example"
	ContentTypeExercise ContentType = "exercise"
	ContentTypeQuiz     ContentType = "quiz"
)

// IsValid reports whether t is a known content type
func (t ContentType) IsValid() bool {
	switch t {
	case ContentTypeText, ContentTypeCode, ContentTypeExample, ContentTypeExercise, ContentTypeQuiz:
		return true
	}
	return false
}

// AdminRole is the privilege level of an admin account
type AdminRole string

const (
	RoleAdmin      AdminRole = "admin"
	RoleSuperAdmin AdminRole = "superadmin"
)

// IsValid reports whether r is a known admin role
func (r AdminRole) IsValid() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Theme is the UI theme preference of a user
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)
