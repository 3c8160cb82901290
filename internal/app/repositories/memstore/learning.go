package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/edulearn/backend/internal/app/models"
	"github.com/edulearn/backend/internal/app/models/dto"
	"github.com/edulearn/backend/internal/pkg/apperrors"
)

type progressRepo struct{ s *Store }

func (r *progressRepo) Upsert(_ context.Context, userID, topicID int64, completed bool, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.st.topics[topicID]; !ok {
		return apperrors.ErrTopicNotFound
	}
	for _, p := range r.s.st.progress {
		if p.UserID == userID && p.TopicID == topicID {
			p.Completed = completed
			p.LastAccessed = at
			return nil
		}
	}
	id := r.s.st.next("progress")
	r.s.st.progress[id] = &models.ProgressEntry{
		ID:           id,
		UserID:       userID,
		TopicID:      topicID,
		Completed:    completed,
		LastAccessed: at,
	}
	return nil
}

func (r *progressRepo) ListByUser(_ context.Context, userID int64) ([]*models.ProgressEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*models.ProgressEntry{}
	for _, id := range sortedKeys(r.s.st.progress) {
		if p := r.s.st.progress[id]; p.UserID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

type noteRepo struct{ s *Store }

// withUploader resolves the uploader name the way the SQL join does. Caller holds mu.
func (r *noteRepo) withUploader(n *models.Note) *models.Note {
	c := cloneNote(n)
	up := &models.NoteUploader{ID: n.UploaderID, Kind: n.UploaderKind}
	switch n.UploaderKind {
	case "admin":
		if a, ok := r.s.st.admins[n.UploaderID]; ok {
			up.Username = a.Username
		}
	case "user":
		if u, ok := r.s.st.users[n.UploaderID]; ok {
			up.Username = u.Name
		}
	}
	c.UploadedBy = up
	return c
}

func (r *noteRepo) Create(_ context.Context, note *models.Note) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	note.ID = r.s.st.next("notes")
	note.CreatedAt = r.s.now()
	r.s.st.notes[note.ID] = cloneNote(note)
	return nil
}

func (r *noteRepo) GetByID(_ context.Context, id int64) (*models.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n, ok := r.s.st.notes[id]
	if !ok {
		return nil, apperrors.ErrNoteNotFound
	}
	return r.withUploader(n), nil
}

func (r *noteRepo) List(_ context.Context, filter dto.NoteFilter) ([]*models.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*models.Note{}
	for _, id := range sortedKeys(r.s.st.notes) {
		n := r.s.st.notes[id]
		if filter.Subject != "" && n.Subject != filter.Subject {
			continue
		}
		out = append(out, r.withUploader(n))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *noteRepo) IncrementDownloads(_ context.Context, id int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.st.notes[id]
	if !ok {
		return 0, apperrors.ErrNoteNotFound
	}
	n.Downloads++
	return n.Downloads, nil
}

func (r *noteRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.st.notes[id]; !ok {
		return apperrors.ErrNoteNotFound
	}
	delete(r.s.st.notes, id)
	return nil
}

func (r *noteRepo) DistinctSubjects(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := map[string]bool{}
	out := []string{}
	for _, n := range r.s.st.notes {
		if !seen[n.Subject] {
			seen[n.Subject] = true
			out = append(out, n.Subject)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *noteRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.st.notes)), nil
}

func (r *noteRepo) TotalDownloads(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var total int64
	for _, n := range r.s.st.notes {
		total += n.Downloads
	}
	return total, nil
}
