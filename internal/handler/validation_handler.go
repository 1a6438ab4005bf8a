package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-console/internal/models"
	"github.com/noah-isme/course-console/internal/validation"
	appErrors "github.com/noah-isme/course-console/pkg/errors"
	"github.com/noah-isme/course-console/pkg/response"
)

// ValidationHandler exposes the course form rules to the browser so fields
// can be flagged on blur.
type ValidationHandler struct {
	validator *validation.Validator
}

// NewValidationHandler builds a validation handler.
func NewValidationHandler(v *validation.Validator) *ValidationHandler {
	if v == nil {
		v = validation.New()
	}
	return &ValidationHandler{validator: v}
}

// Validate godoc
// @Summary Validate course form values
// @Tags Validation
// @Accept json
// @Produce json
// @Param payload body models.CourseForm true "Raw form values"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /validate [post]
func (h *ValidationHandler) Validate(c *gin.Context) {
	var form models.CourseForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrBadRequest.Code, appErrors.ErrBadRequest.Status, "invalid form payload"))
		return
	}
	response.JSON(c, http.StatusOK, h.validator.Validate(form))
}
