package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"

	"github.com/goliatone/go-campus"
	"github.com/goliatone/go-campus/repository"
)

func TestMain(m *testing.M) {
	campus.PasswordHashCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	ctx := context.Background()

	db, err := repository.Open(ctx, repository.Options{
		Driver: repository.DriverSQLite,
		DSN:    "file::memory:",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	applied, err := repository.Migrate(ctx, db, nil)
	require.NoError(t, err)
	require.NotEmpty(t, applied)
	return db
}

func seed(t *testing.T, m repository.Manager) {
	t.Helper()
	ctx := context.Background()

	for _, d := range []*repository.Department{{ID: "CS", Name: "Computer Science"}, {ID: "MA", Name: "Mathematics"}} {
		_, err := m.Departments().Insert(ctx, d)
		require.NoError(t, err)
	}
	for _, s := range []*repository.Student{
		{ID: "S1", Name: "Alice", Sex: "F", Age: 20, Email: "alice@example.com", DepartmentID: "CS"},
		{ID: "S2", Name: "Bob", Sex: "M", Age: 21, Email: "bob@example.com", DepartmentID: "MA"},
		{ID: "S3", Name: "Alicia", Sex: "F", Age: 22, Email: "alicia@example.com", DepartmentID: "CS"},
	} {
		_, err := m.Students().Insert(ctx, s)
		require.NoError(t, err)
	}
	for _, c := range []*repository.Course{
		{ID: "C1", Name: "Algebra", Credit: 4, DepartmentID: "MA"},
		{ID: "C2", Name: "Compilers", Credit: 5, DepartmentID: "CS"},
	} {
		_, err := m.Courses().Insert(ctx, c)
		require.NoError(t, err)
	}
}

func TestMigrate_IsIdempotent(t *testing.T) {
	db := newTestDB(t)

	applied, err := repository.Migrate(context.Background(), db, nil)
	require.NoError(t, err)
	assert.Empty(t, applied)

	version, err := repository.ServerVersion(context.Background(), db)
	require.NoError(t, err)
	assert.NotEmpty(t, version)
}

func TestStudents_CRUD(t *testing.T) {
	ctx := context.Background()
	m := repository.NewManager(newTestDB(t))
	require.NoError(t, m.Validate())
	seed(t, m)

	got, err := m.Students().FindByID(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)

	got.Age = 30
	_, err = m.Students().Update(ctx, got)
	require.NoError(t, err)

	got, err = m.Students().FindByID(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, 30, got.Age)

	require.NoError(t, m.Students().Delete(ctx, &repository.Student{ID: "S1"}))

	_, err = m.Students().FindByID(ctx, "S1")
	require.Error(t, err)
	assert.Equal(t, campus.KindNotFound, campus.KindOf(err))
}

func TestStore_MissingRows(t *testing.T) {
	ctx := context.Background()
	m := repository.NewManager(newTestDB(t))

	_, err := m.Courses().FindByID(ctx, "nope")
	assert.Equal(t, campus.KindNotFound, campus.KindOf(err))

	_, err = m.Courses().Update(ctx, &repository.Course{ID: "nope", Name: "x"})
	assert.Equal(t, campus.KindNotFound, campus.KindOf(err))

	err = m.Courses().Delete(ctx, &repository.Course{ID: "nope"})
	assert.Equal(t, campus.KindNotFound, campus.KindOf(err))
}

func TestStore_DuplicateInsertIsDatabaseError(t *testing.T) {
	ctx := context.Background()
	m := repository.NewManager(newTestDB(t))
	seed(t, m)

	_, err := m.Departments().Insert(ctx, &repository.Department{ID: "CS", Name: "again"})
	require.Error(t, err)
	assert.Equal(t, campus.KindDatabase, campus.KindOf(err))
}

func TestStore_UpdateWritesZeroValues(t *testing.T) {
	ctx := context.Background()
	m := repository.NewManager(newTestDB(t))
	seed(t, m)

	_, err := m.Students().Update(ctx, &repository.Student{ID: "S2", Name: "Bob", Sex: "M", Email: "bob@example.com"})
	require.NoError(t, err)

	got, err := m.Students().FindByID(ctx, "S2")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Age)
	assert.Empty(t, got.DepartmentID)

	mark := 70
	_, err = m.Scores().Insert(ctx, &repository.Score{StuID: "S1", CourseID: "C1", Score: &mark})
	require.NoError(t, err)

	_, err = m.Scores().Update(ctx, &repository.Score{StuID: "S1", CourseID: "C1"})
	require.NoError(t, err)

	score, err := m.Scores().FindByKey(ctx, "S1", "C1")
	require.NoError(t, err)
	assert.Nil(t, score.Score)
}

func TestDepartments_AllIsUnbounded(t *testing.T) {
	ctx := context.Background()
	m := repository.NewManager(newTestDB(t))

	for i := 0; i < 30; i++ {
		_, err := m.Departments().Insert(ctx, &repository.Department{ID: fmt.Sprintf("%02d", i), Name: fmt.Sprintf("Department %d", i)})
		require.NoError(t, err)
	}

	all, err := m.Departments().All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 30)
	assert.Equal(t, "00", all[0].ID)
	assert.Equal(t, "29", all[29].ID)
}

func TestStudents_Search(t *testing.T) {
	ctx := context.Background()
	m := repository.NewManager(newTestDB(t))
	seed(t, m)

	page, err := m.Students().Search(ctx, "Ali", repository.PageRequest{Index: 1, Size: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 1, page.TotalPages)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "S1", page.Items[0].ID)
	assert.Equal(t, "S3", page.Items[1].ID)

	page, err = m.Students().Search(ctx, "", repository.PageRequest{Index: 2, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "S3", page.Items[0].ID)

	page, err = m.Students().Search(ctx, "100%_", repository.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
	assert.NotNil(t, page.Items)
}

func TestScores_SearchJoinsNames(t *testing.T) {
	ctx := context.Background()
	m := repository.NewManager(newTestDB(t))
	seed(t, m)

	ninety := 90
	date := repository.NewDate(time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC))
	for _, s := range []*repository.Score{
		{StuID: "S1", CourseID: "C1", Score: &ninety, RecordDate: &date},
		{StuID: "S1", CourseID: "C2"},
		{StuID: "S2", CourseID: "C1"},
	} {
		_, err := m.Scores().Insert(ctx, s)
		require.NoError(t, err)
	}

	page, err := m.Scores().Search(ctx, repository.ScoreFilter{Student: "Alice", Course: "Alg"}, repository.PageRequest{Index: 1, Size: 50})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	row := page.Items[0]
	assert.Equal(t, "Alice", row.StudentName)
	assert.Equal(t, "Algebra", row.CourseName)
	require.NotNil(t, row.Score)
	assert.Equal(t, 90, *row.Score)
	require.NotNil(t, row.RecordDate)
	assert.Equal(t, "2024-06-01", row.RecordDate.String())

	got, err := m.Scores().FindByKey(ctx, "S1", "C2")
	require.NoError(t, err)
	assert.Nil(t, got.Score)
	assert.Nil(t, got.RecordDate)

	page, err = m.Scores().Search(ctx, repository.ScoreFilter{}, repository.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
}

func TestUsers_RegisterAndFindAccount(t *testing.T) {
	ctx := context.Background()
	m := repository.NewManager(newTestDB(t))

	u, err := m.Users().Register(ctx, "admin", "Administrator", "s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", u.PasswordHash)

	acc, err := m.Users().FindAccount(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "Administrator", acc.Name)
	require.NoError(t, campus.ComparePasswordAndHash("s3cret", acc.PasswordHash))

	require.NoError(t, m.Users().ResetPassword(ctx, "admin", "changed"))
	acc, err = m.Users().FindAccount(ctx, "admin")
	require.NoError(t, err)
	assert.Error(t, campus.ComparePasswordAndHash("s3cret", acc.PasswordHash))

	_, err = m.Users().FindAccount(ctx, "ghost")
	assert.Equal(t, campus.KindNotFound, campus.KindOf(err))

	_, err = m.Users().Register(ctx, " ", "x", "pw")
	assert.Equal(t, campus.KindBadRequest, campus.KindOf(err))
}

func TestManager_RunInTx(t *testing.T) {
	ctx := context.Background()
	m := repository.NewManager(newTestDB(t))

	err := m.RunInTx(ctx, nil, func(ctx context.Context, tx repository.Manager) error {
		_, err := tx.Departments().Insert(ctx, &repository.Department{ID: "PH", Name: "Physics"})
		require.NoError(t, err)
		return campus.BadRequest("rollback")
	})
	require.Error(t, err)

	_, err = m.Departments().FindByID(ctx, "PH")
	assert.Equal(t, campus.KindNotFound, campus.KindOf(err))

	err = m.RunInTx(ctx, nil, func(ctx context.Context, tx repository.Manager) error {
		_, err := tx.Departments().Insert(ctx, &repository.Department{ID: "PH", Name: "Physics"})
		return err
	})
	require.NoError(t, err)

	all, err := m.Departments().All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	err = m.RunInTx(ctx, nil, func(ctx context.Context, tx repository.Manager) error {
		return tx.Departments().Delete(ctx, &repository.Department{ID: "PH"})
	})
	require.NoError(t, err)

	all, err = m.Departments().All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, m.Check(ctx))
}

func TestPageRequest(t *testing.T) {
	r := repository.PageRequest{}.Normalize()
	assert.Equal(t, repository.PageRequest{Index: 1, Size: repository.DefaultPageSize}, r)
	assert.Equal(t, 0, r.Offset())

	r = repository.PageRequest{Index: 3, Size: 500}.Normalize()
	assert.Equal(t, repository.MaxPageSize, r.Size)
	assert.Equal(t, 200, r.Offset())

	p := repository.NewPage[repository.Student](repository.PageRequest{Index: 1, Size: 20}, 41, nil)
	assert.Equal(t, 3, p.TotalPages)
	assert.NotNil(t, p.Items)
}

func TestDate(t *testing.T) {
	d, err := repository.ParseDate("2024-02-29")
	require.NoError(t, err)
	b, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2024-02-29"`, string(b))

	var back repository.Date
	require.NoError(t, back.Scan("2024-02-29 00:00:00+00:00"))
	assert.True(t, back.Equal(d.Time))

	require.NoError(t, back.Scan(time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-02-29", back.String())

	_, err = repository.ParseDate("2024-13-01")
	assert.Error(t, err)
}

func TestOptions_ConnectionString(t *testing.T) {
	o := repository.Options{
		Driver:   repository.DriverPostgres,
		Host:     "db",
		Port:     5432,
		User:     "campus",
		Password: "p@ss",
		Database: "campus",
		Schema:   "records",
	}
	assert.Equal(t, "postgres://campus:p%40ss@db:5432/campus?search_path=records", o.ConnectionString())

	o.DSN = "postgres://override"
	assert.Equal(t, "postgres://override", o.ConnectionString())
}
