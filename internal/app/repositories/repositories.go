package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edulearn/backend/internal/app/models"
	"github.com/edulearn/backend/internal/app/models/dto"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AdminRepository persists console accounts
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByID(ctx context.Context, id int64) (*models.Admin, error)
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// UserRepository persists learner accounts and their bookmarks
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	AddBookmark(ctx context.Context, userID, contentID int64) error
	RemoveBookmark(ctx context.Context, userID, contentID int64) error
	ListBookmarks(ctx context.Context, userID int64) ([]int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// SubjectRepository persists subjects. Slugs are globally unique.
type SubjectRepository interface {
	Create(ctx context.Context, subject *models.Subject) error
	GetByID(ctx context.Context, id int64) (*models.Subject, error)
	GetBySlug(ctx context.Context, slug string) (*models.Subject, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Subject, error)
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// TopicRepository persists topics. Slugs are unique per subject.
type TopicRepository interface {
	Create(ctx context.Context, topic *models.Topic) error
	GetByID(ctx context.Context, id int64) (*models.Topic, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Topic, error)
	FindBySubjectAndSlug(ctx context.Context, subjectID int64, slug string) (*models.Topic, error)
	ListBySlug(ctx context.Context, slug string, activeOnly bool) ([]*models.Topic, error)
	ListBySubject(ctx context.Context, subjectID int64, activeOnly bool) ([]*models.Topic, error)
	DeleteBySubject(ctx context.Context, subjectID int64) (int64, error)
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// ContentRepository persists content sections
type ContentRepository interface {
	Create(ctx context.Context, content *models.Content) error
	GetByID(ctx context.Context, id int64) (*models.Content, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Content, error)
	ListByTopic(ctx context.Context, topicID int64) ([]*models.Content, error)
	DeleteByTopics(ctx context.Context, topicIDs []int64) (int64, error)
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// ProgressRepository persists one entry per (user, topic)
type ProgressRepository interface {
	Upsert(ctx context.Context, userID, topicID int64, completed bool, at time.Time) error
	ListByUser(ctx context.Context, userID int64) ([]*models.ProgressEntry, error)
}

// NoteRepository persists downloadable notes
type NoteRepository interface {
	Create(ctx context.Context, note *models.Note) error
	GetByID(ctx context.Context, id int64) (*models.Note, error)
	List(ctx context.Context, filter dto.NoteFilter) ([]*models.Note, error)
	IncrementDownloads(ctx context.Context, id int64) (int64, error)
	Delete(ctx context.Context, id int64) error
	DistinctSubjects(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
	TotalDownloads(ctx context.Context) (int64, error)
}

// TxFunc runs against repositories bound to one transaction
type TxFunc func(ctx context.Context, repos *Repositories) error

// Transactor opens a transaction scoped to repos
type Transactor interface {
	WithinTransaction(ctx context.Context, repos *Repositories, fn TxFunc) error
}

// Repositories holds all the repository instances
type Repositories struct {
	Admins   AdminRepository
	Users    UserRepository
	Subjects SubjectRepository
	Topics   TopicRepository
	Contents ContentRepository
	Progress ProgressRepository
	Notes    NoteRepository

	Tx Transactor
}

// WithinTransaction runs fn so that either all of its writes persist or none do
func (r *Repositories) WithinTransaction(ctx context.Context, fn TxFunc) error {
	return r.Tx.WithinTransaction(ctx, r, fn)
}

// NewRepositories initializes the PostgreSQL-backed repositories
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	repos := newRepositories(pool)
	repos.Tx = &pgTransactor{pool: pool}
	return repos
}

func newRepositories(db DBTX) *Repositories {
	return &Repositories{
		Admins:   NewAdminRepository(db),
		Users:    NewUserRepository(db),
		Subjects: NewSubjectRepository(db),
		Topics:   NewTopicRepository(db),
		Contents: NewContentRepository(db),
		Progress: NewProgressRepository(db),
		Notes:    NewNoteRepository(db),
	}
}
