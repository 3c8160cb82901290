package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edulearn/backend/internal/app/models/dto"
	"github.com/edulearn/backend/internal/app/services"
	"github.com/edulearn/backend/internal/middleware"
	"github.com/edulearn/backend/internal/pkg/apperrors"
	"github.com/edulearn/backend/internal/pkg/helpers"
)

// NoteFormField is the multipart field carrying the PDF
const NoteFormField = "pdf"

// NoteController handles the notes library
type NoteController struct {
	noteService services.NoteService
}

// NewNoteController creates a new NoteController
func NewNoteController(noteService services.NoteService) *NoteController {
	return &NoteController{noteService: noteService}
}

// ListNotes godoc
// @Summary List notes
// @Description Newest first, optionally filtered by subject label
// @Tags notes
// @Produce json
// @Param subject query string false "Subject label"
// @Param limit query int false "Maximum number of notes (max 100)"
// @Success 200 {array} models.Note
// @Failure 500 {object} dto.ErrorResponse
// @Router /notes [get]
func (c *NoteController) ListNotes(ctx *gin.Context) {
	filter := dto.NoteFilter{
		Subject: strings.TrimSpace(ctx.Query("subject")),
		Limit:   helpers.ParseLimitParam(ctx),
	}

	notes, err := c.noteService.List(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, notes)
}

// GetNote godoc
// @Summary Get a note
// @Tags notes
// @Produce json
// @Param id path int true "Note ID"
// @Success 200 {object} models.Note
// @Failure 404 {object} dto.ErrorResponse
// @Router /notes/{id} [get]
func (c *NoteController) GetNote(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	note, err := c.noteService.Get(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, note)
}

// ListSubjects godoc
// @Summary Distinct note subject labels
// @Tags notes
// @Produce json
// @Success 200 {array} string
// @Router /notes/filters/subjects [get]
func (c *NoteController) ListSubjects(ctx *gin.Context) {
	subjects, err := c.noteService.Subjects(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, subjects)
}

// UploadNote godoc
// @Summary Upload a note
// @Description Multipart upload of a single PDF (admin only)
// @Tags notes
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param subject formData string true "Subject label"
// @Param pdf formData file true "PDF file"
// @Success 201 {object} dto.NoteUploadResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 413 {object} dto.ErrorResponse
// @Router /notes/upload [post]
func (c *NoteController) UploadNote(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	var req dto.UploadNoteRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	file, err := ctx.FormFile(NoteFormField)
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		if !middleware.IsBodyTooLarge(err) {
			err = apperrors.NewBadRequestError("Invalid multipart form")
		}
		middleware.HandleAPIError(ctx, err)
		return
	}

	note, err := c.noteService.Upload(ctx, identity, &req, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NoteUploadResponse{
		Message: "Note uploaded successfully",
		Note:    note,
	})
}

// DownloadNote godoc
// @Summary Download a note
// @Description Streams the PDF and increments the download counter
// @Tags notes
// @Produce application/pdf
// @Param id path int true "Note ID"
// @Success 200 {file} binary
// @Failure 404 {object} dto.ErrorResponse
// @Router /notes/{id}/download [get]
func (c *NoteController) DownloadNote(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	note, path, err := c.noteService.Download(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.FileAttachment(path, note.FileName)
}

// DeleteNote godoc
// @Summary Delete a note
// @Description Removes the stored file and the record (admin only)
// @Tags notes
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Note ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /notes/{id} [delete]
func (c *NoteController) DeleteNote(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.noteService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Note deleted successfully"})
}
