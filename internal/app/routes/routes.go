package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/edulearn/backend/internal/app/controllers"
	"github.com/edulearn/backend/internal/middleware"
)

// Controllers groups the HTTP handlers mounted under /api
type Controllers struct {
	Auth     *controllers.AuthController
	Catalog  *controllers.CatalogController
	Admin    *controllers.AdminController
	Notes    *controllers.NoteController
	Progress *controllers.ProgressController
	Bookmark *controllers.BookmarkController
	Health   *controllers.HealthController
}

// BodyLimits caps request bodies on the upload routes, in bytes
type BodyLimits struct {
	NoteUpload int64
	BulkUpload int64
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	ctrl *Controllers,
	authMiddleware *middleware.AuthMiddleware,
	loginLimiter *middleware.LoginRateLimiter,
	limits BodyLimits,
) {
	api := router.Group("/api")

	api.GET("/health", ctrl.Health.Health)

	// --- Public catalog ---
	subjects := api.Group("/subjects")
	{
		subjects.GET("", ctrl.Catalog.ListSubjects)
		subjects.GET("/:slug", ctrl.Catalog.GetSubject)
	}

	topics := api.Group("/topics")
	{
		topics.GET("/subject/:subjectId", ctrl.Catalog.ListTopicsBySubject)
		topics.GET("/:slug", ctrl.Catalog.GetTopic)
	}

	api.GET("/content/topic/:topicId", ctrl.Catalog.ListContentByTopic)

	// --- Learner accounts ---
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", ctrl.Auth.Register)
		authGroup.POST("/login", loginLimiter.Middleware(), ctrl.Auth.Login)
		authGroup.GET("/me", append(authMiddleware.UserOnly(), ctrl.Auth.Me)...)
	}

	progress := api.Group("/progress")
	progress.Use(authMiddleware.UserOnly()...)
	{
		progress.POST("", ctrl.Progress.UpdateProgress)
		progress.GET("", ctrl.Progress.GetProgress)
	}

	bookmarks := api.Group("/bookmarks")
	bookmarks.Use(authMiddleware.UserOnly()...)
	{
		bookmarks.GET("", ctrl.Bookmark.ListBookmarks)
		bookmarks.POST("", ctrl.Bookmark.AddBookmark)
		bookmarks.DELETE("/:contentId", ctrl.Bookmark.RemoveBookmark)
	}

	// --- Notes: reads are public, writes are admin only ---
	notes := api.Group("/notes")
	{
		notes.GET("", ctrl.Notes.ListNotes)
		notes.GET("/filters/subjects", ctrl.Notes.ListSubjects)
		notes.GET("/:id", ctrl.Notes.GetNote)
		notes.GET("/:id/download", ctrl.Notes.DownloadNote)
		notes.POST("/upload", append(authMiddleware.AdminOnly(), middleware.BodyLimit(limits.NoteUpload), ctrl.Notes.UploadNote)...)
		notes.DELETE("/:id", append(authMiddleware.AdminOnly(), ctrl.Notes.DeleteNote)...)
	}

	// --- Admin console ---
	api.POST("/admin/login", loginLimiter.Middleware(), ctrl.Auth.AdminLogin)

	admin := api.Group("/admin")
	admin.Use(authMiddleware.AdminOnly()...)
	{
		admin.POST("/create", ctrl.Auth.CreateAdmin)

		admin.GET("/subjects", ctrl.Admin.ListSubjects)
		admin.POST("/subjects", ctrl.Admin.CreateSubject)
		admin.PUT("/subjects/:id", ctrl.Admin.UpdateSubject)
		admin.DELETE("/subjects/:id", ctrl.Admin.DeleteSubject)

		admin.POST("/bulk-upload", middleware.BodyLimit(limits.BulkUpload), ctrl.Admin.BulkUpload)

		admin.GET("/stats", ctrl.Admin.Stats)
		admin.GET("/stats/export", ctrl.Admin.ExportStats)
	}
}
