package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edulearn/backend/internal/app/models/dto"
	"github.com/edulearn/backend/internal/app/services"
	"github.com/edulearn/backend/internal/middleware"
	"github.com/edulearn/backend/internal/pkg/apperrors"
	"github.com/edulearn/backend/internal/pkg/report"
)

// AdminController handles the admin console: subject CRUD, bulk ingestion and stats
type AdminController struct {
	catalogService services.CatalogService
	bulkService    services.BulkUploadService
	statsService   *services.StatsService
}

// NewAdminController creates a new AdminController
func NewAdminController(
	catalogService services.CatalogService,
	bulkService services.BulkUploadService,
	statsService *services.StatsService,
) *AdminController {
	return &AdminController{
		catalogService: catalogService,
		bulkService:    bulkService,
		statsService:   statsService,
	}
}

// ListSubjects godoc
// @Summary List all subjects
// @Description Every subject, inactive ones included
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.Subject
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /admin/subjects [get]
func (c *AdminController) ListSubjects(ctx *gin.Context) {
	subjects, err := c.catalogService.ListAllSubjects(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, subjects)
}

// CreateSubject godoc
// @Summary Create a subject
// @Description The slug is derived from the name when omitted
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.CreateSubjectRequest true "Subject"
// @Success 201 {object} models.Subject
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /admin/subjects [post]
func (c *AdminController) CreateSubject(ctx *gin.Context) {
	var req dto.CreateSubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	subject, err := c.catalogService.CreateSubject(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, subject)
}

// UpdateSubject godoc
// @Summary Update a subject
// @Description Only the provided fields change
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Subject ID"
// @Param request body dto.UpdateSubjectRequest true "Changes"
// @Success 200 {object} models.Subject
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /admin/subjects/{id} [put]
func (c *AdminController) UpdateSubject(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateSubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	subject, err := c.catalogService.UpdateSubject(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, subject)
}

// DeleteSubject godoc
// @Summary Delete a subject
// @Description Depending on configuration the subject's topics and contents are removed too
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Subject ID"
// @Success 200 {object} dto.MsgResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/subjects/{id} [delete]
func (c *AdminController) DeleteSubject(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.catalogService.DeleteSubject(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MsgResponse{Msg: "Subject deleted"})
}

// BulkUpload godoc
// @Summary Bulk upload subjects, topics and contents
// @Description Subjects and topics are matched by slug and reused; contents are always appended.
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.BulkUploadRequest true "Content tree"
// @Success 200 {object} dto.BulkUploadResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 413 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/bulk-upload [post]
func (c *AdminController) BulkUpload(ctx *gin.Context) {
	raw, err := ctx.GetRawData()
	if err != nil {
		if !middleware.IsBodyTooLarge(err) {
			err = apperrors.NewBadRequestError("Could not read request body")
		}
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.bulkService.Upload(ctx, raw)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Stats godoc
// @Summary Platform statistics
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.StatsResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /admin/stats [get]
func (c *AdminController) Stats(ctx *gin.Context) {
	stats, err := c.statsService.Stats(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

// ExportStats godoc
// @Summary Export statistics as a spreadsheet
// @Description Summary counts plus per-note downloads as an XLSX workbook
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security ApiKeyAuth
// @Success 200 {file} binary
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /admin/stats/export [get]
func (c *AdminController) ExportStats(ctx *gin.Context) {
	data, err := c.statsService.Export(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	filename := fmt.Sprintf("edulearn-stats-%s.xlsx", time.Now().UTC().Format("20060102"))
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, report.ContentType, data)
}
