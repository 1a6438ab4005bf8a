// Package validation checks course form input before anything is sent to the
// course API. The same rules back the create form, the edit modal and the
// update form's autosave.
package validation

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/course-console/internal/models"
)

// Reasons shown next to an invalid field.
const (
	ReasonNameRequired  = "name required"
	ReasonMajorRequired = "major required"
	ReasonCreditRange   = "credit must be an integer 1–5"
)

const (
	minCredit = 1
	maxCredit = 5
)

// Fields lists the validated fields in display order.
var Fields = []models.CourseField{models.FieldName, models.FieldMajor, models.FieldCredit}

// FieldStatus is the verdict for one field.
type FieldStatus struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// Result is the verdict for a whole form.
type Result struct {
	Valid  bool                               `json:"valid"`
	Fields map[models.CourseField]FieldStatus `json:"fields"`
}

// Field returns the status of f. Unknown fields read as valid.
func (r Result) Field(f models.CourseField) FieldStatus {
	if status, ok := r.Fields[f]; ok {
		return status
	}
	return FieldStatus{Valid: true}
}

// Reasons returns the failure reasons in display order.
func (r Result) Reasons() []string {
	var reasons []string
	for _, f := range Fields {
		if status := r.Field(f); !status.Valid {
			reasons = append(reasons, status.Reason)
		}
	}
	return reasons
}

type trimmedForm struct {
	Name   string `validate:"required"`
	Major  string `validate:"required"`
	Credit string `validate:"required,credit"`
}

// Validator runs the course form rules.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator with the credit rule registered.
func New() *Validator {
	v := validator.New()
	if err := v.RegisterValidation("credit", validCredit); err != nil {
		panic(err)
	}
	return &Validator{validate: v}
}

func validCredit(fl validator.FieldLevel) bool {
	_, ok := ParseCredit(fl.Field().String())
	return ok
}

// ParseCredit parses a trimmed base-10 integer within the credit range.
func ParseCredit(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < minCredit || n > maxCredit {
		return 0, false
	}
	return n, true
}

// Validate checks name, major and credit of form.
func (v *Validator) Validate(form models.CourseForm) Result {
	result := Result{
		Valid: true,
		Fields: map[models.CourseField]FieldStatus{
			models.FieldName:   {Valid: true},
			models.FieldMajor:  {Valid: true},
			models.FieldCredit: {Valid: true},
		},
	}

	err := v.validate.Struct(trimmedForm{
		Name:   strings.TrimSpace(form.Name),
		Major:  strings.TrimSpace(form.Major),
		Credit: strings.TrimSpace(form.Credit),
	})
	if err == nil {
		return result
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		result.Valid = false
		return result
	}
	for _, fe := range fieldErrs {
		switch fe.StructField() {
		case "Name":
			result.Fields[models.FieldName] = FieldStatus{Reason: ReasonNameRequired}
		case "Major":
			result.Fields[models.FieldMajor] = FieldStatus{Reason: ReasonMajorRequired}
		case "Credit":
			result.Fields[models.FieldCredit] = FieldStatus{Reason: ReasonCreditRange}
		}
	}
	result.Valid = false
	return result
}

// Draft normalizes a form into the record sent upstream: strings trimmed,
// credit parsed. Only meaningful for forms that passed Validate.
func Draft(form models.CourseForm) models.CourseDraft {
	credit, _ := ParseCredit(form.Credit)
	return models.CourseDraft{
		Name:      strings.TrimSpace(form.Name),
		Major:     strings.TrimSpace(form.Major),
		Credit:    credit,
		Mandatory: form.Mandatory,
	}
}
