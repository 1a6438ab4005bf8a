package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-console/internal/form"
	"github.com/noah-isme/course-console/internal/models"
	"github.com/noah-isme/course-console/internal/validation"
	appErrors "github.com/noah-isme/course-console/pkg/errors"
)

type courseService interface {
	List(ctx context.Context) ([]models.Course, error)
	Get(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, draft models.CourseDraft) (*models.Course, error)
	Update(ctx context.Context, id string, draft models.CourseDraft) (*models.Course, error)
	Delete(ctx context.Context, id string) error
}

// ListView is the data of list.html.
type ListView struct {
	Page
	Courses       []models.Course
	Modal         *ModalView
	ExportEnabled bool
}

// ModalView is the edit modal laid over the list.
type ModalView struct {
	CourseID string
	Form     FormView
}

// CreateView is the data of create.html.
type CreateView struct {
	Page
	Form FormView
}

// DetailView is the data of detail.html and confirm_delete.html.
type DetailView struct {
	Page
	Course models.Course
}

// UpdateView is the data of update.html. Field values arrive from the edit
// session once the page has loaded.
type UpdateView struct {
	Page
	CourseID string
	Form     FormView
}

// CourseViewHandler serves the HTML views of the console.
type CourseViewHandler struct {
	courses       courseService
	validator     *validation.Validator
	flash         notifier
	apiPrefix     string
	exportEnabled bool
}

// NewCourseViewHandler builds the view handler.
func NewCourseViewHandler(courses courseService, v *validation.Validator, flash notifier, apiPrefix string, exportEnabled bool) *CourseViewHandler {
	if v == nil {
		v = validation.New()
	}
	return &CourseViewHandler{courses: courses, validator: v, flash: flash, apiPrefix: apiPrefix, exportEnabled: exportEnabled}
}

func (h *CourseViewHandler) page(c *gin.Context, title string) Page {
	return Page{Title: title, APIPrefix: h.apiPrefix, Flashes: h.flash.Pop(c)}
}

// List renders every course. A failed fetch renders the empty state. The
// optional edit query parameter opens the edit modal for that course.
func (h *CourseViewHandler) List(c *gin.Context) {
	courses, _ := h.courses.List(c.Request.Context())

	var modal *ModalView
	if id := c.Query("edit"); id != "" {
		for _, course := range courses {
			if course.ID == id {
				modal = &ModalView{CourseID: id, Form: FormView{Values: models.FormFromCourse(course)}}
				break
			}
		}
	}
	h.renderList(c, http.StatusOK, courses, modal)
}

func (h *CourseViewHandler) renderList(c *gin.Context, status int, courses []models.Course, modal *ModalView) {
	render(c, status, "list.html", ListView{
		Page:          h.page(c, "Courses"),
		Courses:       courses,
		Modal:         modal,
		ExportEnabled: h.exportEnabled,
	})
}

// NewForm renders the empty create form.
func (h *CourseViewHandler) NewForm(c *gin.Context) {
	render(c, http.StatusOK, "create.html", CreateView{
		Page: h.page(c, "New course"),
		Form: FormView{Values: models.NewCourseForm()},
	})
}

// Create validates and submits a new course.
func (h *CourseViewHandler) Create(c *gin.Context) {
	values, ok := bindCourseForm(c)
	if !ok {
		h.renderCreate(c, http.StatusBadRequest, FormView{Values: values, Alert: msgFixErrors})
		return
	}

	f := form.New(h.validator, values, form.NewImmediate(h.courses.Create))
	outcome := f.Submit(c.Request.Context())
	switch outcome.State {
	case form.StateSaved:
		h.flash.Info(c, msgCreated)
		seeOther(c, "/list")
	case form.StateInvalid:
		h.renderCreate(c, http.StatusUnprocessableEntity, FormView{Values: values, Result: &outcome.Result, Alert: msgFixErrors})
	default:
		_ = c.Error(outcome.Err)
		h.renderCreate(c, appErrors.FromError(outcome.Err).Status, FormView{Values: values, Alert: msgCreateFailed})
	}
}

func (h *CourseViewHandler) renderCreate(c *gin.Context, status int, fv FormView) {
	render(c, status, "create.html", CreateView{Page: h.page(c, "New course"), Form: fv})
}

// Edit saves the edit modal. The modal stays open with the entered values when
// the input is invalid or the save fails.
func (h *CourseViewHandler) Edit(c *gin.Context) {
	id := c.Param("id")
	values, ok := bindCourseForm(c)
	if !ok {
		h.renderModal(c, http.StatusBadRequest, id, FormView{Values: values, Alert: msgFixErrors})
		return
	}

	save := func(ctx context.Context, draft models.CourseDraft) (*models.Course, error) {
		return h.courses.Update(ctx, id, draft)
	}
	f := form.New(h.validator, values, form.NewImmediate(save))
	outcome := f.Submit(c.Request.Context())
	switch outcome.State {
	case form.StateSaved:
		h.flash.Info(c, msgUpdated)
		seeOther(c, "/list")
	case form.StateInvalid:
		h.renderModal(c, http.StatusUnprocessableEntity, id, FormView{Values: values, Result: &outcome.Result, Alert: msgFixErrors})
	default:
		_ = c.Error(outcome.Err)
		h.renderModal(c, appErrors.FromError(outcome.Err).Status, id, FormView{Values: values, Alert: msgUpdateFailed})
	}
}

func (h *CourseViewHandler) renderModal(c *gin.Context, status int, id string, fv FormView) {
	courses, _ := h.courses.List(c.Request.Context())
	h.renderList(c, status, courses, &ModalView{CourseID: id, Form: fv})
}

// Detail renders one course read-only.
func (h *CourseViewHandler) Detail(c *gin.Context) {
	course, ok := h.load(c)
	if !ok {
		return
	}
	render(c, http.StatusOK, "detail.html", DetailView{Page: h.page(c, course.Name), Course: *course})
}

// UpdatePage renders the update view shell. The page opens an edit session
// through the JSON API and shows a loading indicator until it is ready.
func (h *CourseViewHandler) UpdatePage(c *gin.Context) {
	render(c, http.StatusOK, "update.html", UpdateView{
		Page:     h.page(c, "Edit course"),
		CourseID: c.Param("id"),
	})
}

// ConfirmDelete renders the confirmation step for browsers without scripts.
func (h *CourseViewHandler) ConfirmDelete(c *gin.Context) {
	course, ok := h.load(c)
	if !ok {
		return
	}
	render(c, http.StatusOK, "confirm_delete.html", DetailView{Page: h.page(c, "Delete course"), Course: *course})
}

// Delete removes a course once the user confirmed it, then returns to the
// list which fetches the remaining courses again.
func (h *CourseViewHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if c.PostForm("confirmed") != "true" {
		seeOther(c, "/list/"+id+"/delete")
		return
	}
	if err := h.courses.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		h.flash.Error(c, msgDeleteFailed)
	} else {
		h.flash.Info(c, msgDeleted)
	}
	seeOther(c, "/list")
}

// load fetches the course named by the id parameter. On failure the user is
// notified and sent back to the list.
func (h *CourseViewHandler) load(c *gin.Context) (*models.Course, bool) {
	course, err := h.courses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		h.flash.Error(c, msgLoadFailed)
		seeOther(c, "/list")
		return nil, false
	}
	return course, true
}

func bindCourseForm(c *gin.Context) (models.CourseForm, bool) {
	var values models.CourseForm
	if err := c.ShouldBind(&values); err != nil {
		_ = c.Error(appErrors.Wrap(err, appErrors.ErrBadRequest.Code, appErrors.ErrBadRequest.Status, "invalid course form"))
		return values, false
	}
	return values, true
}
