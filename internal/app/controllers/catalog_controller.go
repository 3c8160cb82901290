package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edulearn/backend/internal/app/services"
	"github.com/edulearn/backend/internal/middleware"
)

// CatalogController serves the public subject, topic and content reads
type CatalogController struct {
	catalogService services.CatalogService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalogService services.CatalogService) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

// ListSubjects godoc
// @Summary List active subjects
// @Description Active subjects ordered by their display order
// @Tags catalog
// @Produce json
// @Success 200 {array} models.Subject
// @Failure 500 {object} dto.ErrorResponse
// @Router /subjects [get]
func (c *CatalogController) ListSubjects(ctx *gin.Context) {
	subjects, err := c.catalogService.ListSubjects(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, subjects)
}

// GetSubject godoc
// @Summary Get a subject by slug
// @Tags catalog
// @Produce json
// @Param slug path string true "Subject slug"
// @Success 200 {object} models.Subject
// @Failure 404 {object} dto.ErrorResponse
// @Router /subjects/{slug} [get]
func (c *CatalogController) GetSubject(ctx *gin.Context) {
	subject, err := c.catalogService.GetSubjectBySlug(ctx, ctx.Param("slug"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, subject)
}

// ListTopicsBySubject godoc
// @Summary List the active topics of a subject
// @Tags catalog
// @Produce json
// @Param subjectId path int true "Subject ID"
// @Success 200 {array} models.Topic
// @Failure 400 {object} dto.ErrorResponse
// @Router /topics/subject/{subjectId} [get]
func (c *CatalogController) ListTopicsBySubject(ctx *gin.Context) {
	subjectID, err := parseIDParam(ctx, "subjectId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	topics, err := c.catalogService.ListTopicsBySubject(ctx, subjectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, topics)
}

// GetTopic godoc
// @Summary Get a topic by slug
// @Description Topic slugs are unique per subject only; pass ?subject=<subject slug> to pick one.
// @Description Without it the earliest created matching topic is returned.
// @Tags catalog
// @Produce json
// @Param slug path string true "Topic slug"
// @Param subject query string false "Subject slug"
// @Success 200 {object} models.Topic
// @Failure 404 {object} dto.ErrorResponse
// @Router /topics/{slug} [get]
func (c *CatalogController) GetTopic(ctx *gin.Context) {
	topic, err := c.catalogService.GetTopicBySlug(ctx, ctx.Param("slug"), strings.TrimSpace(ctx.Query("subject")))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, topic)
}

// ListContentByTopic godoc
// @Summary List the content sections of a topic
// @Tags catalog
// @Produce json
// @Param topicId path int true "Topic ID"
// @Success 200 {array} models.Content
// @Failure 400 {object} dto.ErrorResponse
// @Router /content/topic/{topicId} [get]
func (c *CatalogController) ListContentByTopic(ctx *gin.Context) {
	topicID, err := parseIDParam(ctx, "topicId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	contents, err := c.catalogService.ListContentByTopic(ctx, topicID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, contents)
}
