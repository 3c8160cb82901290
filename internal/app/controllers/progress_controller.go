package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edulearn/backend/internal/app/models/dto"
	"github.com/edulearn/backend/internal/app/services"
	"github.com/edulearn/backend/internal/middleware"
	"github.com/edulearn/backend/internal/pkg/apperrors"
)

// ProgressController handles per-learner topic progress
type ProgressController struct {
	progressService services.ProgressService
}

// NewProgressController creates a new ProgressController
func NewProgressController(progressService services.ProgressService) *ProgressController {
	return &ProgressController{progressService: progressService}
}

// UpdateProgress godoc
// @Summary Record progress on a topic
// @Description Creates or updates the caller's entry for the topic and returns the full list
// @Tags progress
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.UpdateProgressRequest true "Progress"
// @Success 200 {array} models.ProgressEntry
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /progress [post]
func (c *ProgressController) UpdateProgress(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	var req dto.UpdateProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	entries, err := c.progressService.UpsertProgress(ctx, identity.ID, req.TopicID, req.Completed)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, entries)
}

// GetProgress godoc
// @Summary List the caller's progress
// @Tags progress
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.ProgressEntry
// @Failure 401 {object} dto.ErrorResponse
// @Router /progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	entries, err := c.progressService.GetProgress(ctx, identity.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, entries)
}
