package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// CourseField names an editable course attribute.
type CourseField string

const (
	FieldName      CourseField = "name"
	FieldMajor     CourseField = "major"
	FieldCredit    CourseField = "credit"
	FieldMandatory CourseField = "mandatory"
)

// Course is a course record as stored by the remote course API.
type Course struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Major     string `json:"major"`
	Credit    int    `json:"credit"`
	Mandatory bool   `json:"mandatory"`
}

// CourseDraft is the full body sent on create and update. It never carries an id.
type CourseDraft struct {
	Name      string `json:"name" validate:"required"`
	Major     string `json:"major" validate:"required"`
	Credit    int    `json:"credit" validate:"min=1,max=5"`
	Mandatory bool   `json:"mandatory"`
}

// CourseForm holds raw input values as typed by the user.
type CourseForm struct {
	Name      string `json:"name" form:"name"`
	Major     string `json:"major" form:"major"`
	Credit    string `json:"credit" form:"credit"`
	Mandatory bool   `json:"mandatory" form:"mandatory"`
}

// Draft projects the course onto its editable fields.
func (c Course) Draft() CourseDraft {
	return CourseDraft{Name: c.Name, Major: c.Major, Credit: c.Credit, Mandatory: c.Mandatory}
}

// FormFromCourse pre-populates a form from a stored record.
func FormFromCourse(c Course) CourseForm {
	form := CourseForm{Name: c.Name, Major: c.Major, Mandatory: c.Mandatory}
	if c.Credit != 0 {
		form.Credit = strconv.Itoa(c.Credit)
	}
	return form
}

// NewCourseForm returns the empty form shown by the create view.
func NewCourseForm() CourseForm {
	return CourseForm{Mandatory: true}
}

// UnmarshalJSON tolerates records written by other clients: a missing
// mandatory flag reads as true, and credit may arrive as a quoted number.
func (c *Course) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        json.RawMessage `json:"id"`
		Name      string          `json:"name"`
		Major     string          `json:"major"`
		Credit    json.RawMessage `json:"credit"`
		Mandatory *bool           `json:"mandatory"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := decodeID(raw.ID)
	if err != nil {
		return err
	}
	credit, err := decodeCredit(raw.Credit)
	if err != nil {
		return err
	}

	*c = Course{ID: id, Name: raw.Name, Major: raw.Major, Credit: credit, Mandatory: true}
	if raw.Mandatory != nil {
		c.Mandatory = *raw.Mandatory
	}
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("decode course id: %w", err)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("decode course id: %w", err)
	}
	return n.String(), nil
}

func decodeCredit(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("decode course credit: %w", err)
		}
		if s == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("decode course credit %q: %w", s, err)
		}
		return n, nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("decode course credit: %w", err)
	}
	return n, nil
}
