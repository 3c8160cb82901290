package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulearn/backend/internal/app/models"
	"github.com/edulearn/backend/internal/app/models/dto"
	"github.com/edulearn/backend/internal/pkg/apperrors"
)

const singleSubjectPayload = `{"subjects":[{"slug":"js","topics":[{"slug":"intro","contents":[{"title":"Hello"}]}]}]}`

const twoSubjectPayload = `{
  "subjects": [
    {"name": "JavaScript", "slug": "js", "category": "programming",
     "topics": [{"title": "Intro", "slug": "intro", "contents": [{"title": "Hello", "type": "code", "content": "console.log(1)"}]}]},
    {"name": "Python", "slug": "py",
     "topics": [{"title": "Intro", "slug": "intro", "contents": [{"title": "Hi"}]}]}
  ]
}`

func TestBulkUploadIsIdempotentForSubjectsAndTopics(t *testing.T) {
	ctx := context.Background()
	repos := newMemRepos()
	svc := NewBulkUploadService(repos, false, nopLogger())

	resp, err := svc.Upload(ctx, []byte(singleSubjectPayload))
	require.NoError(t, err)
	assert.Equal(t, BulkUploadMessage, resp.Msg)
	assert.Equal(t, counts{1, 1, 1}, countAll(t, repos))

	_, err = svc.Upload(ctx, []byte(singleSubjectPayload))
	require.NoError(t, err)
	assert.Equal(t, counts{1, 1, 2}, countAll(t, repos), "contents are never deduplicated")
}

func TestBulkUploadResultsFollowPayloadOrder(t *testing.T) {
	svc := NewBulkUploadService(newMemRepos(), false, nopLogger())

	resp, err := svc.Upload(context.Background(), []byte(twoSubjectPayload))
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "JavaScript", resp.Results[0].Subject)
	assert.Equal(t, "js", resp.Results[0].Slug)
	assert.Equal(t, "py", resp.Results[1].Slug)
	require.Len(t, resp.Results[1].Topics, 1)
	assert.Equal(t, "Intro", resp.Results[1].Topics[0].Topic)
	assert.Equal(t, "intro", resp.Results[1].Topics[0].Slug)
}

func TestBulkUploadAppliesDefaults(t *testing.T) {
	ctx := context.Background()
	repos := newMemRepos()
	svc := NewBulkUploadService(repos, false, nopLogger())

	_, err := svc.Upload(ctx, []byte(singleSubjectPayload))
	require.NoError(t, err)

	subject, err := repos.Subjects.GetBySlug(ctx, "js")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryOther, subject.Category)
	assert.Equal(t, "js", subject.Name)
	assert.True(t, subject.IsActive)

	topic, err := repos.Topics.FindBySubjectAndSlug(ctx, subject.ID, "intro")
	require.NoError(t, err)
	contents, err := repos.Contents.ListByTopic(ctx, topic.ID)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.Equal(t, models.ContentTypeText, contents[0].Type)
}

func TestBulkUploadKeepsExistingSubjectFields(t *testing.T) {
	ctx := context.Background()
	repos := newMemRepos()
	svc := NewBulkUploadService(repos, false, nopLogger())

	require.NoError(t, repos.Subjects.Create(ctx, &models.Subject{
		Name: "Original", Slug: "js", Category: models.CategoryProgramming, Level: models.LevelAll, IsActive: true,
	}))

	resp, err := svc.Upload(ctx, []byte(`{"subjects":[{"name":"Renamed","slug":"js"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "Original", resp.Results[0].Subject)

	subject, err := repos.Subjects.GetBySlug(ctx, "js")
	require.NoError(t, err)
	assert.Equal(t, "Original", subject.Name)
}

func TestBulkUploadRejectsInvalidPayloadBeforeWriting(t *testing.T) {
	ctx := context.Background()
	repos := newMemRepos()
	svc := NewBulkUploadService(repos, false, nopLogger())

	cases := map[string]string{
		"missing subjects":   `{}`,
		"missing slug":       `{"subjects":[{"name":"JS"}]}`,
		"bad category":       `{"subjects":[{"slug":"js","category":"cooking"}]}`,
		"content no title":   `{"subjects":[{"slug":"js","topics":[{"slug":"a","contents":[{"type":"text"}]}]}]}`,
		"bad content type":   `{"subjects":[{"slug":"js","topics":[{"slug":"a","contents":[{"title":"x","type":"video"}]}]}]}`,
		"subjects not list":  `{"subjects":{"slug":"js"}}`,
		"blank subject slug": `{"subjects":[{"slug":"   ","topics":[{"slug":"intro","contents":[{"title":"x"}]}]}]}`,
		"blank topic slug":   `{"subjects":[{"slug":"js","topics":[{"slug":" ","contents":[{"title":"x"}]}]}]}`,
		"uppercase slug":     `{"subjects":[{"slug":"JavaScript"}]}`,
	}
	for name, payload := range cases {
		_, err := svc.Upload(ctx, []byte(payload))
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed, name)
	}

	_, err := svc.Upload(ctx, []byte(`{"subjects":`))
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	assert.Equal(t, counts{}, countAll(t, repos))
}

func TestBulkIngestRejectsUnreachableSlugs(t *testing.T) {
	ctx := context.Background()
	repos := newMemRepos()
	svc := NewBulkUploadService(repos, false, nopLogger())

	_, err := svc.Ingest(ctx, &dto.BulkUploadRequest{Subjects: []dto.SubjectImport{
		{Slug: "js", Topics: []dto.TopicImport{{Slug: "intro"}}},
		{Slug: "   ", Topics: []dto.TopicImport{{Slug: " "}}},
	}})
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)

	var custom *apperrors.CustomError
	require.ErrorAs(t, err, &custom)
	assert.Contains(t, custom.Details, "subjects.1.slug")
	assert.Contains(t, custom.Details, "subjects.1.topics.0.slug")

	assert.Equal(t, counts{}, countAll(t, repos), "nothing is written when any slug is invalid")
}

func TestBulkIngestTrimsSlugs(t *testing.T) {
	ctx := context.Background()
	repos := newMemRepos()
	svc := NewBulkUploadService(repos, false, nopLogger())

	_, err := svc.Ingest(ctx, &dto.BulkUploadRequest{Subjects: []dto.SubjectImport{
		{Slug: " js ", Topics: []dto.TopicImport{{Slug: "intro "}}},
	}})
	require.NoError(t, err)

	subject, err := repos.Subjects.GetBySlug(ctx, "js")
	require.NoError(t, err)
	_, err = repos.Topics.FindBySubjectAndSlug(ctx, subject.ID, "intro")
	assert.NoError(t, err)
}

func TestBulkUploadPartialFailureKeepsProcessedRows(t *testing.T) {
	repos := newMemRepos()
	repos.Contents = &failingContents{ContentRepository: repos.Contents, allow: 1}
	svc := NewBulkUploadService(repos, false, nopLogger())

	_, err := svc.Upload(context.Background(), []byte(twoSubjectPayload))
	require.ErrorIs(t, err, errInjected)

	assert.Equal(t, counts{2, 2, 1}, countAll(t, repos))
}

func TestBulkUploadAtomicRollsBackEverything(t *testing.T) {
	repos := newMemRepos()
	repos.Contents = &failingContents{ContentRepository: repos.Contents, allow: 1}
	svc := NewBulkUploadService(repos, true, nopLogger())

	_, err := svc.Upload(context.Background(), []byte(twoSubjectPayload))
	require.ErrorIs(t, err, errInjected)

	assert.Equal(t, counts{}, countAll(t, repos))
}

func TestBulkUploadAtomicCommitsOnSuccess(t *testing.T) {
	repos := newMemRepos()
	svc := NewBulkUploadService(repos, true, nopLogger())

	_, err := svc.Upload(context.Background(), []byte(twoSubjectPayload))
	require.NoError(t, err)
	assert.Equal(t, counts{2, 2, 2}, countAll(t, repos))
}
