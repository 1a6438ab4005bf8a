// Package web holds the HTML templates of the console.
package web

import (
	"embed"
	"html/template"

	"github.com/noah-isme/course-console/internal/models"
	"github.com/noah-isme/course-console/internal/validation"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses the embedded templates. Pages are addressed by file name,
// e.g. "list.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(files, "templates/*.html")
}

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"fieldClass": fieldClass,
		"fieldTitle": fieldTitle,
		"reasons":    reasons,
	}
}

// fieldClass renders the validation state of one field as a CSS class.
func fieldClass(result *validation.Result, field string) string {
	if result == nil || result.Field(models.CourseField(field)).Valid {
		return "field"
	}
	return "field invalid"
}

func fieldTitle(result *validation.Result, field string) string {
	if result == nil {
		return ""
	}
	return result.Field(models.CourseField(field)).Reason
}

func reasons(result *validation.Result) []string {
	if result == nil {
		return nil
	}
	return result.Reasons()
}
