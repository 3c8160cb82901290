package main

import (
	"os"

	"github.com/edulearn/backend/internal/pkg/logger"
	"github.com/edulearn/backend/internal/server"
)

// @title EduLearn API
// @version 1.0
// @description Educational content platform: subjects, topics, content sections, notes and learner progress.

// @contact.name API Support
// @contact.email support@edulearn.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:5000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-auth-token
// @description User or admin token; "Bearer <token>" is accepted too

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
