package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert subject: %w", &pgconn.PgError{Code: "23505", ConstraintName: "subjects_slug_key"})

	assert.True(t, IsUniqueViolation(err))
	assert.True(t, IsDuplicateConstraintError(err, "subjects_slug_key"))
	assert.False(t, IsDuplicateConstraintError(err, "topics_subject_id_slug_key"))
	assert.False(t, IsForeignKeyViolation(err))
}

func TestForeignKeyViolation(t *testing.T) {
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("plain")))
}
