package services

import (
	"context"
	"fmt"
	"time"

	"github.com/edulearn/backend/internal/app/models/dto"
	"github.com/edulearn/backend/internal/app/repositories"
	"github.com/edulearn/backend/internal/pkg/report"
)

// StatsService aggregates dashboard counts
type StatsService struct {
	repos *repositories.Repositories
	now   func() time.Time
}

// NewStatsService creates a new StatsService
func NewStatsService(repos *repositories.Repositories) *StatsService {
	return &StatsService{repos: repos, now: time.Now}
}

// Stats returns the catalog and notes totals
func (s *StatsService) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	var stats dto.StatsResponse
	var err error

	if stats.Subjects, err = s.repos.Subjects.Count(ctx); err != nil {
		return nil, fmt.Errorf("error counting subjects: %w", err)
	}
	if stats.Topics, err = s.repos.Topics.Count(ctx); err != nil {
		return nil, fmt.Errorf("error counting topics: %w", err)
	}
	if stats.Contents, err = s.repos.Contents.Count(ctx); err != nil {
		return nil, fmt.Errorf("error counting contents: %w", err)
	}
	if stats.Notes, err = s.repos.Notes.Count(ctx); err != nil {
		return nil, fmt.Errorf("error counting notes: %w", err)
	}
	if stats.TotalDownloads, err = s.repos.Notes.TotalDownloads(ctx); err != nil {
		return nil, fmt.Errorf("error summing downloads: %w", err)
	}
	return &stats, nil
}

// Export renders the stats and per-note downloads as an xlsx workbook
func (s *StatsService) Export(ctx context.Context) ([]byte, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}
	notes, err := s.repos.Notes.List(ctx, dto.NoteFilter{})
	if err != nil {
		return nil, fmt.Errorf("error listing notes: %w", err)
	}

	metrics := []report.Metric{
		{Label: "Subjects", Value: stats.Subjects},
		{Label: "Topics", Value: stats.Topics},
		{Label: "Contents", Value: stats.Contents},
		{Label: "Notes", Value: stats.Notes},
		{Label: "Total downloads", Value: stats.TotalDownloads},
	}
	rows := make([]report.NoteRow, 0, len(notes))
	for _, n := range notes {
		rows = append(rows, report.NoteRow{
			ID:        n.ID,
			Title:     n.Title,
			Subject:   n.Subject,
			FileName:  n.FileName,
			FileSize:  n.FileSize,
			Downloads: n.Downloads,
			CreatedAt: n.CreatedAt,
		})
	}
	return report.StatsWorkbook(metrics, rows, s.now())
}
