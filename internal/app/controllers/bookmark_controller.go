package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edulearn/backend/internal/app/models/dto"
	"github.com/edulearn/backend/internal/app/services"
	"github.com/edulearn/backend/internal/middleware"
	"github.com/edulearn/backend/internal/pkg/apperrors"
)

// BookmarkController handles a learner's saved content sections
type BookmarkController struct {
	bookmarkService *services.BookmarkService
}

// NewBookmarkController creates a new BookmarkController
func NewBookmarkController(bookmarkService *services.BookmarkService) *BookmarkController {
	return &BookmarkController{bookmarkService: bookmarkService}
}

// ListBookmarks godoc
// @Summary List bookmarked content
// @Tags bookmarks
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.Content
// @Failure 401 {object} dto.ErrorResponse
// @Router /bookmarks [get]
func (c *BookmarkController) ListBookmarks(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	contents, err := c.bookmarkService.List(ctx, identity.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, contents)
}

// AddBookmark godoc
// @Summary Bookmark a content section
// @Tags bookmarks
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.BookmarkRequest true "Content to bookmark"
// @Success 200 {array} int
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /bookmarks [post]
func (c *BookmarkController) AddBookmark(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	var req dto.BookmarkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	ids, err := c.bookmarkService.Add(ctx, identity.ID, req.ContentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, ids)
}

// RemoveBookmark godoc
// @Summary Remove a bookmark
// @Tags bookmarks
// @Produce json
// @Security ApiKeyAuth
// @Param contentId path int true "Content ID"
// @Success 200 {array} int
// @Failure 400 {object} dto.ErrorResponse
// @Router /bookmarks/{contentId} [delete]
func (c *BookmarkController) RemoveBookmark(ctx *gin.Context) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	contentID, err := parseIDParam(ctx, "contentId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ids, err := c.bookmarkService.Remove(ctx, identity.ID, contentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, ids)
}
