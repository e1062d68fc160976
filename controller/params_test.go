package controller_test

import (
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-campus/controller"
)

func violationKeys(t *testing.T, err error) []string {
	t.Helper()
	require.Error(t, err)
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	return keys
}

func TestPageQuery(t *testing.T) {
	var q controller.PageQuery
	q.Defaults()
	assert.NoError(t, q.Validate())
	assert.Equal(t, 1, q.Page().Index)
	assert.Equal(t, 20, q.Page().Size)

	q.PageSize = 4
	q.PageIndex = -1
	assert.ElementsMatch(t, []string{"page_index", "page_size"}, violationKeys(t, q.Validate()))

	q = controller.PageQuery{PageIndex: 1, PageSize: 101}
	assert.ElementsMatch(t, []string{"page_size"}, violationKeys(t, q.Validate()))
}

func TestScoreQuery(t *testing.T) {
	var q controller.ScoreQuery
	q.Defaults()
	assert.NoError(t, q.Validate())
	assert.Equal(t, 50, q.PageSize)

	q.PageSize = 1
	assert.NoError(t, q.Validate())

	q.Student, q.Course = "Ali", "Alg"
	assert.Equal(t, "Ali", q.Filter().Student)
	assert.Equal(t, "Alg", q.Filter().Course)
}

func TestStudentRequest(t *testing.T) {
	ok := controller.StudentRequest{ID: "S1", Name: "Alice", Sex: "F", Age: 0, Email: "alice@example.com"}
	assert.NoError(t, ok.Validate())

	bad := controller.StudentRequest{ID: "1234567", Name: "", Sex: "FFF", Age: -2, Email: "x", DepartmentID: "ABC"}
	assert.ElementsMatch(t,
		[]string{"id", "name", "sex", "age", "email", "department_id"},
		violationKeys(t, bad.Validate()),
	)
}

func TestCourseRequest(t *testing.T) {
	assert.NoError(t, controller.CourseRequest{ID: "C1", Name: "Algebra", Credit: 20}.Validate())
	assert.ElementsMatch(t, []string{"credit"},
		violationKeys(t, controller.CourseRequest{ID: "C1", Name: "Algebra", Credit: 21}.Validate()))
	assert.ElementsMatch(t, []string{"credit"},
		violationKeys(t, controller.CourseRequest{ID: "C1", Name: "Algebra", Credit: -1}.Validate()))
}

func TestScoreRequest(t *testing.T) {
	score := 100
	req := controller.ScoreRequest{StuID: "S1", CourseID: "C1", Score: &score, RecordDate: "2024-02-29"}
	require.NoError(t, req.Validate())

	m := req.Model()
	require.NotNil(t, m.RecordDate)
	assert.Equal(t, "2024-02-29", m.RecordDate.String())
	assert.Equal(t, 100, *m.Score)

	assert.Nil(t, controller.ScoreRequest{StuID: "S1", CourseID: "C1"}.Model().RecordDate)

	over := 101
	bad := controller.ScoreRequest{StuID: "", CourseID: "C1", Score: &over, RecordDate: "2024-02-30"}
	assert.ElementsMatch(t, []string{"stu_id", "score", "record_date"}, violationKeys(t, bad.Validate()))
}

func TestLoginRequest(t *testing.T) {
	assert.NoError(t, controller.LoginRequest{ID: "admin", Password: "x"}.Validate())
	assert.ElementsMatch(t, []string{"id", "password"}, violationKeys(t, controller.LoginRequest{}.Validate()))
}

func TestNew_RequiresDependencies(t *testing.T) {
	assert.Panics(t, func() { controller.New() })
}
