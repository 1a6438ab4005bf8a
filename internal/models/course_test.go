package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseUnmarshalDefaults(t *testing.T) {
	var c Course
	require.NoError(t, json.Unmarshal([]byte(`{"id":"7","name":"Algorithms","major":"CS","credit":3}`), &c))
	assert.Equal(t, Course{ID: "7", Name: "Algorithms", Major: "CS", Credit: 3, Mandatory: true}, c)
}

func TestCourseUnmarshalLenientTypes(t *testing.T) {
	var c Course
	require.NoError(t, json.Unmarshal([]byte(`{"id":12,"name":"OS","major":"CS","credit":"4","mandatory":false}`), &c))
	assert.Equal(t, "12", c.ID)
	assert.Equal(t, 4, c.Credit)
	assert.False(t, c.Mandatory)
}

func TestCourseUnmarshalRejectsGarbageCredit(t *testing.T) {
	var c Course
	assert.Error(t, json.Unmarshal([]byte(`{"id":"1","credit":"three"}`), &c))
}

func TestCourseListUnmarshal(t *testing.T) {
	var list []Course
	require.NoError(t, json.Unmarshal([]byte(`[{"id":"1","name":"A","major":"M","credit":1,"mandatory":true},{"id":"2","name":"B","major":"M","credit":5,"mandatory":false}]`), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "2", list[1].ID)
}

func TestDraftMarshalsWithoutID(t *testing.T) {
	body, err := json.Marshal(CourseDraft{Name: "Algorithms", Major: "CS", Credit: 3, Mandatory: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Algorithms","major":"CS","credit":3,"mandatory":true}`, string(body))
}

func TestFormFromCourse(t *testing.T) {
	form := FormFromCourse(Course{ID: "1", Name: "A", Major: "B", Credit: 2})
	assert.Equal(t, CourseForm{Name: "A", Major: "B", Credit: "2"}, form)
	assert.True(t, NewCourseForm().Mandatory)
}
