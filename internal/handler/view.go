package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-console/internal/models"
	"github.com/noah-isme/course-console/internal/validation"
	"github.com/noah-isme/course-console/pkg/flash"
)

// User-facing notifications.
const (
	msgCreated      = "course created"
	msgUpdated      = "course updated"
	msgDeleted      = "course deleted"
	msgLoadFailed   = "failed to load course"
	msgCreateFailed = "failed to create course"
	msgUpdateFailed = "failed to save course"
	msgDeleteFailed = "failed to delete course"
	msgExportFailed = "failed to export courses"
	msgFixErrors    = "please fix the highlighted fields"
)

type notifier interface {
	Info(c *gin.Context, text string)
	Error(c *gin.Context, text string)
	Pop(c *gin.Context) []flash.Message
}

// Page carries what every HTML view renders in its header.
type Page struct {
	Title     string
	APIPrefix string
	Flashes   []flash.Message
}

// FormView is a course form as rendered by the create view, the edit modal
// and the update view.
type FormView struct {
	Values models.CourseForm
	Result *validation.Result
	Alert  string
}

func render(c *gin.Context, status int, name string, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.HTML(status, name, data)
}

// seeOther redirects after a form post so a reload does not resubmit it.
func seeOther(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}
