package dto

// OpenSessionRequest starts an edit session for a course.
type OpenSessionRequest struct {
	CourseID string `json:"course_id" binding:"required"`
}

// FieldChangeRequest is one edit made in the update view. Mandatory travels
// as "true" or "false".
type FieldChangeRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}
