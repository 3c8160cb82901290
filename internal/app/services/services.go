package services

import (
	"github.com/rs/zerolog"

	"github.com/edulearn/backend/internal/app/repositories"
	"github.com/edulearn/backend/internal/pkg/auth"
	"github.com/edulearn/backend/internal/pkg/filestorage"
)

// Options carries the behavior switches read from configuration
type Options struct {
	CascadeSubjectDelete bool
	AtomicBulkUpload     bool
	MaxUploadBytes       int64
}

// Services holds all the service instances
type Services struct {
	Auth        *AuthService
	Catalog     CatalogService
	Bulk        BulkUploadService
	Progress    ProgressService
	Notes       NoteService
	Stats       *StatsService
	Bookmarks   *BookmarkService
	Maintenance *MaintenanceService
}

// NewServices wires every service against one repository set
func NewServices(
	repos *repositories.Repositories,
	jwtService *auth.JWTService,
	storage filestorage.FileStorage,
	opts Options,
	logger zerolog.Logger,
) *Services {
	bulk := NewBulkUploadService(repos, opts.AtomicBulkUpload, logger)
	return &Services{
		Auth:        NewAuthService(repos, jwtService, logger),
		Catalog:     NewCatalogService(repos, opts.CascadeSubjectDelete, logger),
		Bulk:        bulk,
		Progress:    NewProgressService(repos),
		Notes:       NewNoteService(repos, storage, opts.MaxUploadBytes, logger),
		Stats:       NewStatsService(repos),
		Bookmarks:   NewBookmarkService(repos),
		Maintenance: NewMaintenanceService(repos, bulk, logger),
	}
}
