// Package memstore keeps every repository in process memory. It backs the
// "memory" database driver used by tests and local demos.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/edulearn/backend/internal/app/models"
	"github.com/edulearn/backend/internal/app/repositories"
)

type bookmark struct {
	contentID int64
	at        time.Time
}

type state struct {
	admins    map[int64]*models.Admin
	users     map[int64]*models.User
	bookmarks map[int64][]bookmark // by user id
	subjects  map[int64]*models.Subject
	topics    map[int64]*models.Topic
	contents  map[int64]*models.Content
	progress  map[int64]*models.ProgressEntry
	notes     map[int64]*models.Note
	seq       map[string]int64
}

func newState() *state {
	return &state{
		admins:    map[int64]*models.Admin{},
		users:     map[int64]*models.User{},
		bookmarks: map[int64][]bookmark{},
		subjects:  map[int64]*models.Subject{},
		topics:    map[int64]*models.Topic{},
		contents:  map[int64]*models.Content{},
		progress:  map[int64]*models.ProgressEntry{},
		notes:     map[int64]*models.Note{},
		seq:       map[string]int64{},
	}
}

func (s *state) next(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

// clone deep-copies every row so a snapshot never aliases live data
func (s *state) clone() *state {
	c := newState()
	for id, a := range s.admins {
		c.admins[id] = cloneAdmin(a)
	}
	for id, u := range s.users {
		c.users[id] = cloneUser(u)
	}
	for id, b := range s.bookmarks {
		c.bookmarks[id] = append([]bookmark(nil), b...)
	}
	for id, sub := range s.subjects {
		c.subjects[id] = cloneSubject(sub)
	}
	for id, t := range s.topics {
		c.topics[id] = cloneTopic(t)
	}
	for id, ct := range s.contents {
		c.contents[id] = cloneContent(ct)
	}
	for id, p := range s.progress {
		cp := *p
		c.progress[id] = &cp
	}
	for id, n := range s.notes {
		c.notes[id] = cloneNote(n)
	}
	for k, v := range s.seq {
		c.seq[k] = v
	}
	return c
}

// Store is the shared state behind all in-memory repositories
type Store struct {
	mu  sync.RWMutex
	st  *state
	now func() time.Time
}

// New returns repositories backed by a fresh, empty store
func New() *repositories.Repositories {
	return NewStore().Repositories()
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{st: newState(), now: time.Now}
}

// Repositories exposes the store through the repository interfaces
func (s *Store) Repositories() *repositories.Repositories {
	return &repositories.Repositories{
		Admins:   &adminRepo{s},
		Users:    &userRepo{s},
		Subjects: &subjectRepo{s},
		Topics:   &topicRepo{s},
		Contents: &contentRepo{s},
		Progress: &progressRepo{s},
		Notes:    &noteRepo{s},
		Tx:       &transactor{store: s},
	}
}

// transactor snapshots the whole store and restores it when fn fails.
// Writers outside the transaction are not isolated from it.
type transactor struct {
	store *Store
	txMu  sync.Mutex
}

func (t *transactor) WithinTransaction(ctx context.Context, repos *repositories.Repositories, fn repositories.TxFunc) (err error) {
	t.txMu.Lock()
	defer t.txMu.Unlock()

	t.store.mu.RLock()
	snapshot := t.store.st.clone()
	t.store.mu.RUnlock()

	txRepos := *repos
	txRepos.Tx = nested{}

	defer func() {
		if p := recover(); p != nil {
			t.store.restore(snapshot)
			panic(p)
		}
		if err != nil {
			t.store.restore(snapshot)
		}
	}()

	return fn(ctx, &txRepos)
}

func (s *Store) restore(snapshot *state) {
	s.mu.Lock()
	s.st = snapshot
	s.mu.Unlock()
}

type nested struct{}

func (nested) WithinTransaction(ctx context.Context, repos *repositories.Repositories, fn repositories.TxFunc) error {
	return fn(ctx, repos)
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func cloneAdmin(a *models.Admin) *models.Admin {
	c := *a
	return &c
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Bookmarks = append([]int64{}, u.Bookmarks...)
	return &c
}

func cloneSubject(s *models.Subject) *models.Subject {
	c := *s
	return &c
}

func cloneTopic(t *models.Topic) *models.Topic {
	c := *t
	if t.SubjectID != nil {
		id := *t.SubjectID
		c.SubjectID = &id
	}
	c.Prerequisites = append([]int64{}, t.Prerequisites...)
	c.Subject = nil
	c.PrerequisiteTopics = nil
	return &c
}

func cloneContent(ct *models.Content) *models.Content {
	c := *ct
	if ct.TopicID != nil {
		id := *ct.TopicID
		c.TopicID = &id
	}
	c.Examples = append([]models.ContentExample{}, ct.Examples...)
	c.Exercises = make([]models.ContentExercise, len(ct.Exercises))
	for i, ex := range ct.Exercises {
		ex.Hints = append([]string{}, ex.Hints...)
		c.Exercises[i] = ex
	}
	return &c
}

func cloneNote(n *models.Note) *models.Note {
	c := *n
	c.UploadedBy = nil
	return &c
}
