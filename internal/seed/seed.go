package seed

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/edulearn/backend/internal/app/models"
	"github.com/edulearn/backend/internal/app/services"
	"github.com/edulearn/backend/internal/config"
)

// CreateDefaultData makes sure the configured superadmin exists so a fresh
// installation can log into the admin console.
func CreateDefaultData(ctx context.Context, cfg *config.Config, maintenance *services.MaintenanceService, lgr zerolog.Logger) error {
	if !cfg.Seed.Enabled {
		lgr.Debug().Msg("Default data seeding disabled")
		return nil
	}

	lgr.Info().Msg("Checking/Creating default admin...")
	created, err := maintenance.EnsureAdmin(ctx, services.AdminAccount{
		Username: cfg.Seed.AdminUsername,
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
		Role:     models.AdminRole(cfg.Seed.AdminRole),
	})
	if err != nil {
		lgr.Error().Err(err).Str("email", cfg.Seed.AdminEmail).Msg("Error creating default admin")
		return err
	}

	if created {
		lgr.Info().Str("email", cfg.Seed.AdminEmail).Msg("Default admin created")
	} else {
		lgr.Info().Str("email", cfg.Seed.AdminEmail).Msg("Default admin already exists")
	}
	return nil
}
