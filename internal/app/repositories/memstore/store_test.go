package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulearn/backend/internal/app/models"
	"github.com/edulearn/backend/internal/app/models/dto"
	"github.com/edulearn/backend/internal/app/repositories"
	"github.com/edulearn/backend/internal/pkg/apperrors"
)

func ptr(v int64) *int64 { return &v }

func seedSubject(t *testing.T, repos *repositories.Repositories, slug string) *models.Subject {
	t.Helper()
	s := &models.Subject{Name: slug, Slug: slug, Category: models.CategoryOther, Level: models.LevelAll, IsActive: true}
	require.NoError(t, repos.Subjects.Create(context.Background(), s))
	return s
}

func TestSubjectSlugIsUnique(t *testing.T) {
	repos := New()
	seedSubject(t, repos, "js")

	err := repos.Subjects.Create(context.Background(), &models.Subject{Slug: "js"})
	assert.ErrorIs(t, err, apperrors.ErrSubjectSlugExists)
}

func TestTopicSlugScopedToSubject(t *testing.T) {
	ctx := context.Background()
	repos := New()
	js := seedSubject(t, repos, "js")
	py := seedSubject(t, repos, "py")

	require.NoError(t, repos.Topics.Create(ctx, &models.Topic{SubjectID: &js.ID, Slug: "intro", IsActive: true}))
	require.NoError(t, repos.Topics.Create(ctx, &models.Topic{SubjectID: &py.ID, Slug: "intro", IsActive: true}))

	err := repos.Topics.Create(ctx, &models.Topic{SubjectID: &js.ID, Slug: "intro"})
	assert.ErrorIs(t, err, apperrors.ErrTopicAlreadyExists)

	all, err := repos.Topics.ListBySlug(ctx, "intro", true)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Less(t, all[0].ID, all[1].ID)

	err = repos.Topics.Create(ctx, &models.Topic{SubjectID: ptr(999), Slug: "x"})
	assert.ErrorIs(t, err, apperrors.ErrSubjectNotFound)
}

func TestSubjectDeleteDetachesTopics(t *testing.T) {
	ctx := context.Background()
	repos := New()
	js := seedSubject(t, repos, "js")
	topic := &models.Topic{SubjectID: &js.ID, Slug: "intro"}
	require.NoError(t, repos.Topics.Create(ctx, topic))

	require.NoError(t, repos.Subjects.Delete(ctx, js.ID))

	got, err := repos.Topics.GetByID(ctx, topic.ID)
	require.NoError(t, err)
	assert.Nil(t, got.SubjectID)
	assert.ErrorIs(t, repos.Subjects.Delete(ctx, js.ID), apperrors.ErrSubjectNotFound)
}

func TestReturnedRowsDoNotAliasStore(t *testing.T) {
	ctx := context.Background()
	repos := New()
	s := seedSubject(t, repos, "js")

	got, err := repos.Subjects.GetByID(ctx, s.ID)
	require.NoError(t, err)
	got.Name = "changed"

	again, err := repos.Subjects.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "js", again.Name)
}

func TestProgressUpsertKeepsOneEntry(t *testing.T) {
	ctx := context.Background()
	repos := New()
	js := seedSubject(t, repos, "js")
	topic := &models.Topic{SubjectID: &js.ID, Slug: "intro"}
	require.NoError(t, repos.Topics.Create(ctx, topic))

	require.NoError(t, repos.Progress.Upsert(ctx, 1, topic.ID, false, time.Now()))
	require.NoError(t, repos.Progress.Upsert(ctx, 1, topic.ID, true, time.Now()))

	entries, err := repos.Progress.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Completed)

	assert.ErrorIs(t, repos.Progress.Upsert(ctx, 1, 999, true, time.Now()), apperrors.ErrTopicNotFound)
}

func TestConcurrentProgressUpsert(t *testing.T) {
	ctx := context.Background()
	repos := New()
	js := seedSubject(t, repos, "js")
	topic := &models.Topic{SubjectID: &js.ID, Slug: "intro"}
	require.NoError(t, repos.Topics.Create(ctx, topic))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(done bool) {
			defer wg.Done()
			_ = repos.Progress.Upsert(ctx, 1, topic.ID, done, time.Now())
		}(i%2 == 0)
	}
	wg.Wait()

	entries, err := repos.Progress.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	repos := New()
	seedSubject(t, repos, "keep")

	boom := errors.New("boom")
	err := repos.WithinTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		require.NoError(t, tx.Subjects.Create(ctx, &models.Subject{Slug: "gone"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	n, err := repos.Subjects.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, err = repos.Subjects.GetBySlug(ctx, "gone")
	assert.ErrorIs(t, err, apperrors.ErrSubjectNotFound)
}

func TestTransactionCommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	repos := New()

	err := repos.WithinTransaction(ctx, func(ctx context.Context, tx *repositories.Repositories) error {
		return tx.Subjects.Create(ctx, &models.Subject{Slug: "kept"})
	})
	require.NoError(t, err)

	_, err = repos.Subjects.GetBySlug(ctx, "kept")
	assert.NoError(t, err)
}

func TestNotesNewestFirstWithUploader(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time { tick++; return base.Add(time.Duration(tick) * time.Minute) }
	repos := store.Repositories()

	admin := &models.Admin{Username: "root", Email: "root@example.com"}
	require.NoError(t, repos.Admins.Create(ctx, admin))

	first := &models.Note{Title: "a", Subject: "Math", UploaderID: admin.ID, UploaderKind: "admin"}
	second := &models.Note{Title: "b", Subject: "Physics", UploaderID: admin.ID, UploaderKind: "admin"}
	require.NoError(t, repos.Notes.Create(ctx, first))
	require.NoError(t, repos.Notes.Create(ctx, second))

	list, err := repos.Notes.List(ctx, dto.NoteFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].Title)
	assert.Equal(t, "root", list[0].UploadedBy.Username)

	list, err = repos.Notes.List(ctx, dto.NoteFilter{Subject: "Math"})
	require.NoError(t, err)
	require.Len(t, list, 1)

	n, err := repos.Notes.IncrementDownloads(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	total, err := repos.Notes.TotalDownloads(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	subjects, err := repos.Notes.DistinctSubjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Math", "Physics"}, subjects)
}

func TestBookmarksIdempotentAndCascade(t *testing.T) {
	ctx := context.Background()
	repos := New()
	user := &models.User{Name: "Jane", Email: "Jane@Example.com"}
	require.NoError(t, repos.Users.Create(ctx, user))
	assert.Equal(t, "jane@example.com", user.Email)

	c := &models.Content{Title: "x", Type: models.ContentTypeText}
	require.NoError(t, repos.Contents.Create(ctx, c))

	require.NoError(t, repos.Users.AddBookmark(ctx, user.ID, c.ID))
	require.NoError(t, repos.Users.AddBookmark(ctx, user.ID, c.ID))
	ids, err := repos.Users.ListBookmarks(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{c.ID}, ids)

	assert.ErrorIs(t, repos.Users.AddBookmark(ctx, user.ID, 999), apperrors.ErrContentNotFound)

	_, err = repos.Contents.DeleteAll(ctx)
	require.NoError(t, err)
	ids, err = repos.Users.ListBookmarks(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
