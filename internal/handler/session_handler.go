package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-console/internal/dto"
	"github.com/noah-isme/course-console/internal/models"
	"github.com/noah-isme/course-console/internal/session"
	appErrors "github.com/noah-isme/course-console/pkg/errors"
	"github.com/noah-isme/course-console/pkg/response"
)

type sessionManager interface {
	Open(ctx context.Context, courseID string) (*session.Session, error)
	Get(id string) (*session.Session, error)
	Close(id string)
}

// SessionHandler exposes update-form edit sessions.
type SessionHandler struct {
	sessions sessionManager
	flash    notifier
}

// NewSessionHandler builds a session handler.
func NewSessionHandler(sessions sessionManager, flash notifier) *SessionHandler {
	return &SessionHandler{sessions: sessions, flash: flash}
}

// Open godoc
// @Summary Open an edit session
// @Description Fetches the course and snapshots it as the autosave baseline. On failure meta.redirect names the page to go back to.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body dto.OpenSessionRequest true "Course to edit"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /sessions [post]
func (h *SessionHandler) Open(c *gin.Context) {
	var req dto.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrBadRequest.Code, appErrors.ErrBadRequest.Status, "course_id is required"))
		return
	}
	s, err := h.sessions.Open(c.Request.Context(), req.CourseID)
	if err != nil {
		h.flash.Error(c, msgLoadFailed)
		response.Error(c, err, map[string]interface{}{"redirect": "/list"})
		return
	}
	response.Created(c, s.State())
}

// State godoc
// @Summary Get edit session state
// @Description Returns field values, validation, the change counter and queued notices. Notices are delivered once.
// @Tags Sessions
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sessions/{sid} [get]
func (h *SessionHandler) State(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("sid"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if s.Closed() {
		response.Error(c, appErrors.ErrSessionClosed)
		return
	}
	response.JSON(c, http.StatusOK, s.State())
}

// Apply godoc
// @Summary Apply a field change
// @Description Stores the value and re-arms the autosave timer.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param sid path string true "Session ID"
// @Param payload body dto.FieldChangeRequest true "Field change"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 410 {object} response.Envelope
// @Router /sessions/{sid}/fields [patch]
func (h *SessionHandler) Apply(c *gin.Context) {
	var req dto.FieldChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrBadRequest.Code, appErrors.ErrBadRequest.Status, "invalid field change"))
		return
	}
	s, err := h.sessions.Get(c.Param("sid"))
	if err != nil {
		response.Error(c, err)
		return
	}
	state, err := s.Apply(models.CourseField(req.Field), req.Value)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state)
}

// Validate godoc
// @Summary Validate the session's current values
// @Tags Sessions
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 410 {object} response.Envelope
// @Router /sessions/{sid}/validate [post]
func (h *SessionHandler) Validate(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("sid"))
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := s.Validate()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Close godoc
// @Summary Close an edit session
// @Description Cancels the pending autosave. Also served as POST .../close for navigator.sendBeacon.
// @Tags Sessions
// @Param sid path string true "Session ID"
// @Success 204
// @Router /sessions/{sid} [delete]
func (h *SessionHandler) Close(c *gin.Context) {
	h.sessions.Close(c.Param("sid"))
	response.NoContent(c)
}
