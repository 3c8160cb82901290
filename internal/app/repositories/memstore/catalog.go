package memstore

import (
	"context"
	"sort"

	"github.com/edulearn/backend/internal/app/models"
	"github.com/edulearn/backend/internal/pkg/apperrors"
)

type subjectRepo struct{ s *Store }

func (r *subjectRepo) slugTaken(slug string, except int64) bool {
	for id, sub := range r.s.st.subjects {
		if id != except && sub.Slug == slug {
			return true
		}
	}
	return false
}

func (r *subjectRepo) Create(_ context.Context, subject *models.Subject) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.slugTaken(subject.Slug, 0) {
		return apperrors.ErrSubjectSlugExists
	}
	now := r.s.now()
	subject.ID = r.s.st.next("subjects")
	subject.CreatedAt, subject.UpdatedAt = now, now
	r.s.st.subjects[subject.ID] = cloneSubject(subject)
	return nil
}

func (r *subjectRepo) GetByID(_ context.Context, id int64) (*models.Subject, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sub, ok := r.s.st.subjects[id]
	if !ok {
		return nil, apperrors.ErrSubjectNotFound
	}
	return cloneSubject(sub), nil
}

func (r *subjectRepo) GetBySlug(_ context.Context, slug string) (*models.Subject, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, sub := range r.s.st.subjects {
		if sub.Slug == slug {
			return cloneSubject(sub), nil
		}
	}
	return nil, apperrors.ErrSubjectNotFound
}

func (r *subjectRepo) List(_ context.Context, activeOnly bool) ([]*models.Subject, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*models.Subject{}
	for _, id := range sortedKeys(r.s.st.subjects) {
		sub := r.s.st.subjects[id]
		if activeOnly && !sub.IsActive {
			continue
		}
		out = append(out, cloneSubject(sub))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r *subjectRepo) Update(_ context.Context, subject *models.Subject) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.st.subjects[subject.ID]
	if !ok {
		return apperrors.ErrSubjectNotFound
	}
	if r.slugTaken(subject.Slug, subject.ID) {
		return apperrors.ErrSubjectSlugExists
	}
	subject.CreatedAt = cur.CreatedAt
	subject.UpdatedAt = r.s.now()
	r.s.st.subjects[subject.ID] = cloneSubject(subject)
	return nil
}

// Delete detaches the subject's topics, matching ON DELETE SET NULL
func (r *subjectRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.st.subjects[id]; !ok {
		return apperrors.ErrSubjectNotFound
	}
	delete(r.s.st.subjects, id)
	for _, t := range r.s.st.topics {
		if t.SubjectID != nil && *t.SubjectID == id {
			t.SubjectID = nil
		}
	}
	return nil
}

func (r *subjectRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.st.subjects)), nil
}

func (r *subjectRepo) DeleteAll(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := int64(len(r.s.st.subjects))
	r.s.st.subjects = map[int64]*models.Subject{}
	for _, t := range r.s.st.topics {
		t.SubjectID = nil
	}
	return n, nil
}

type topicRepo struct{ s *Store }

func (r *topicRepo) Create(_ context.Context, topic *models.Topic) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if topic.SubjectID != nil {
		if _, ok := r.s.st.subjects[*topic.SubjectID]; !ok {
			return apperrors.ErrSubjectNotFound
		}
		for _, t := range r.s.st.topics {
			if t.SubjectID != nil && *t.SubjectID == *topic.SubjectID && t.Slug == topic.Slug {
				return apperrors.ErrTopicAlreadyExists
			}
		}
	}
	if topic.Prerequisites == nil {
		topic.Prerequisites = []int64{}
	}
	now := r.s.now()
	topic.ID = r.s.st.next("topics")
	topic.CreatedAt, topic.UpdatedAt = now, now
	r.s.st.topics[topic.ID] = cloneTopic(topic)
	return nil
}

func (r *topicRepo) GetByID(_ context.Context, id int64) (*models.Topic, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.st.topics[id]
	if !ok {
		return nil, apperrors.ErrTopicNotFound
	}
	return cloneTopic(t), nil
}

func (r *topicRepo) filter(keep func(*models.Topic) bool) []*models.Topic {
	out := []*models.Topic{}
	for _, id := range sortedKeys(r.s.st.topics) {
		if t := r.s.st.topics[id]; keep(t) {
			out = append(out, cloneTopic(t))
		}
	}
	return out
}

func byOrder(topics []*models.Topic) []*models.Topic {
	sort.SliceStable(topics, func(i, j int) bool { return topics[i].Order < topics[j].Order })
	return topics
}

func (r *topicRepo) GetByIDs(_ context.Context, ids []int64) ([]*models.Topic, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	return byOrder(r.filter(func(t *models.Topic) bool { return want[t.ID] })), nil
}

func (r *topicRepo) FindBySubjectAndSlug(_ context.Context, subjectID int64, slug string) (*models.Topic, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	found := r.filter(func(t *models.Topic) bool {
		return t.SubjectID != nil && *t.SubjectID == subjectID && t.Slug == slug
	})
	if len(found) == 0 {
		return nil, apperrors.ErrTopicNotFound
	}
	return found[0], nil
}

func (r *topicRepo) ListBySlug(_ context.Context, slug string, activeOnly bool) ([]*models.Topic, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.filter(func(t *models.Topic) bool {
		return t.Slug == slug && (!activeOnly || t.IsActive)
	}), nil
}

func (r *topicRepo) ListBySubject(_ context.Context, subjectID int64, activeOnly bool) ([]*models.Topic, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return byOrder(r.filter(func(t *models.Topic) bool {
		return t.SubjectID != nil && *t.SubjectID == subjectID && (!activeOnly || t.IsActive)
	})), nil
}

func (r *topicRepo) DeleteBySubject(_ context.Context, subjectID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, t := range r.s.st.topics {
		if t.SubjectID != nil && *t.SubjectID == subjectID {
			r.s.removeTopic(id)
			n++
		}
	}
	return n, nil
}

func (r *topicRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.st.topics)), nil
}

func (r *topicRepo) DeleteAll(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := int64(len(r.s.st.topics))
	for id := range r.s.st.topics {
		r.s.removeTopic(id)
	}
	return n, nil
}

// removeTopic drops progress rows and detaches contents. Caller holds mu.
func (s *Store) removeTopic(id int64) {
	delete(s.st.topics, id)
	for _, c := range s.st.contents {
		if c.TopicID != nil && *c.TopicID == id {
			c.TopicID = nil
		}
	}
	for pid, p := range s.st.progress {
		if p.TopicID == id {
			delete(s.st.progress, pid)
		}
	}
}

type contentRepo struct{ s *Store }

func (r *contentRepo) Create(_ context.Context, content *models.Content) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if content.TopicID != nil {
		if _, ok := r.s.st.topics[*content.TopicID]; !ok {
			return apperrors.ErrTopicNotFound
		}
	}
	if content.Examples == nil {
		content.Examples = []models.ContentExample{}
	}
	if content.Exercises == nil {
		content.Exercises = []models.ContentExercise{}
	}
	now := r.s.now()
	content.ID = r.s.st.next("contents")
	content.CreatedAt, content.UpdatedAt = now, now
	r.s.st.contents[content.ID] = cloneContent(content)
	return nil
}

func (r *contentRepo) GetByID(_ context.Context, id int64) (*models.Content, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.st.contents[id]
	if !ok {
		return nil, apperrors.ErrContentNotFound
	}
	return cloneContent(c), nil
}

func (r *contentRepo) GetByIDs(_ context.Context, ids []int64) ([]*models.Content, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := []*models.Content{}
	for _, id := range sortedKeys(r.s.st.contents) {
		if want[id] {
			out = append(out, cloneContent(r.s.st.contents[id]))
		}
	}
	return out, nil
}

func (r *contentRepo) ListByTopic(_ context.Context, topicID int64) ([]*models.Content, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*models.Content{}
	for _, id := range sortedKeys(r.s.st.contents) {
		c := r.s.st.contents[id]
		if c.TopicID != nil && *c.TopicID == topicID {
			out = append(out, cloneContent(c))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r *contentRepo) DeleteByTopics(_ context.Context, topicIDs []int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	want := make(map[int64]bool, len(topicIDs))
	for _, id := range topicIDs {
		want[id] = true
	}
	var n int64
	for id, c := range r.s.st.contents {
		if c.TopicID != nil && want[*c.TopicID] {
			r.s.removeContent(id)
			n++
		}
	}
	return n, nil
}

func (r *contentRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.st.contents)), nil
}

func (r *contentRepo) DeleteAll(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := int64(len(r.s.st.contents))
	for id := range r.s.st.contents {
		r.s.removeContent(id)
	}
	return n, nil
}

// removeContent also drops bookmarks pointing at it. Caller holds mu.
func (s *Store) removeContent(id int64) {
	delete(s.st.contents, id)
	for uid, list := range s.st.bookmarks {
		kept := list[:0]
		for _, b := range list {
			if b.contentID != id {
				kept = append(kept, b)
			}
		}
		s.st.bookmarks[uid] = kept
	}
}
