package handler

import (
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-console/internal/service"
)

// Routes groups the handlers mounted on the engine.
type Routes struct {
	APIPrefix string

	Views      *CourseViewHandler
	Sessions   *SessionHandler
	Validation *ValidationHandler
	Metrics    *MetricsHandler
	// Export is optional.
	Export *ExportHandler
	// MetricsEnabled mounts /metrics.
	MetricsEnabled bool
}

// Register mounts the console on r using templates for the HTML views.
func Register(r *gin.Engine, templates *template.Template, routes Routes) {
	r.SetHTMLTemplate(templates)

	r.GET("/health", routes.Metrics.Health)
	r.GET("/ready", routes.Metrics.Ready)
	if routes.MetricsEnabled {
		r.GET("/metrics", routes.Metrics.Prometheus)
	}

	views := routes.Views
	r.GET("/", views.List)
	r.GET("/list", views.List)
	r.POST("/list/:id/edit", views.Edit)
	r.GET("/list/:id/delete", views.ConfirmDelete)
	r.POST("/list/:id/delete", views.Delete)
	r.GET("/create", views.NewForm)
	r.POST("/create", views.Create)
	r.GET("/detail/:id", views.Detail)
	r.GET("/update/:id", views.UpdatePage)

	if routes.Export != nil {
		r.GET("/list/export.csv", routes.Export.Download(service.FormatCSV))
		r.GET("/list/export.pdf", routes.Export.Download(service.FormatPDF))
	}

	api := r.Group(routes.APIPrefix)
	api.POST("/validate", routes.Validation.Validate)

	sessions := api.Group("/sessions")
	sessions.POST("", routes.Sessions.Open)
	sessions.GET("/:sid", routes.Sessions.State)
	sessions.PATCH("/:sid/fields", routes.Sessions.Apply)
	sessions.POST("/:sid/validate", routes.Sessions.Validate)
	sessions.DELETE("/:sid", routes.Sessions.Close)
	sessions.POST("/:sid/close", routes.Sessions.Close)
}
