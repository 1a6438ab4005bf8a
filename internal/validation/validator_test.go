package validation

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/course-console/internal/models"
)

func TestValidateAcceptsWellFormedInput(t *testing.T) {
	v := New()
	result := v.Validate(models.CourseForm{Name: " Algorithms ", Major: "CS", Credit: " 3 "})

	assert.True(t, result.Valid)
	assert.Empty(t, result.Reasons())
	for _, f := range Fields {
		assert.True(t, result.Field(f).Valid, f)
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	v := New()
	result := v.Validate(models.CourseForm{Name: "   ", Major: "\t", Credit: ""})

	assert.False(t, result.Valid)
	assert.Equal(t, FieldStatus{Reason: ReasonNameRequired}, result.Field(models.FieldName))
	assert.Equal(t, FieldStatus{Reason: ReasonMajorRequired}, result.Field(models.FieldMajor))
	assert.Equal(t, FieldStatus{Reason: ReasonCreditRange}, result.Field(models.FieldCredit))
	assert.Equal(t, []string{ReasonNameRequired, ReasonMajorRequired, ReasonCreditRange}, result.Reasons())
}

func TestValidateCredit(t *testing.T) {
	v := New()
	cases := map[string]bool{
		"1":   true,
		"3":   true,
		"5":   true,
		" 4 ": true,
		"0":   false,
		"6":   false,
		"-1":  false,
		"3.5": false,
		"3ab": false,
		"abc": false,
		"":    false,
	}
	for credit, want := range cases {
		t.Run(fmt.Sprintf("credit=%q", credit), func(t *testing.T) {
			result := v.Validate(models.CourseForm{Name: "n", Major: "m", Credit: credit})
			assert.Equal(t, want, result.Valid)
			if !want {
				assert.Equal(t, ReasonCreditRange, result.Field(models.FieldCredit).Reason)
				assert.True(t, result.Field(models.FieldName).Valid)
			}
		})
	}
}

func TestValidityMatchesRules(t *testing.T) {
	v := New()
	names := []string{"", " ", "Algorithms", " OS "}
	majors := []string{"", "  ", "CS"}
	credits := []string{"", "0", "1", "5", "6", "x", " 2 "}

	for _, name := range names {
		for _, major := range majors {
			for _, credit := range credits {
				_, creditOK := ParseCredit(credit)
				want := strings.TrimSpace(name) != "" && strings.TrimSpace(major) != "" && creditOK
				got := v.Validate(models.CourseForm{Name: name, Major: major, Credit: credit}).Valid
				assert.Equal(t, want, got, "name=%q major=%q credit=%q", name, major, credit)
			}
		}
	}
}

func TestDraftNormalizes(t *testing.T) {
	draft := Draft(models.CourseForm{Name: " Algorithms ", Major: " CS", Credit: "3 ", Mandatory: true})
	assert.Equal(t, models.CourseDraft{Name: "Algorithms", Major: "CS", Credit: 3, Mandatory: true}, draft)
}
