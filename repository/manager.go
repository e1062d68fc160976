package repository

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-campus"
)

// Manager exposes all repositories
type Manager interface {
	Validate() error
	MustValidate()
	Check(ctx context.Context) error
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx Manager) error) error

	Students() Students
	Courses() Courses
	Departments() Departments
	Scores() Scores
	Users() Users
}

type mngr struct {
	db          *bun.DB
	idb         bun.IDB
	students    Students
	courses     Courses
	departments Departments
	scores      Scores
	users       Users
}

func NewManager(db *bun.DB) Manager {
	return newManager(db, db)
}

func newManager(db *bun.DB, idb bun.IDB) *mngr {
	return &mngr{
		db:          db,
		idb:         idb,
		students:    NewStudentsRepository(idb),
		courses:     NewCoursesRepository(idb),
		departments: NewDepartmentsRepository(idb),
		scores:      NewScoresRepository(idb),
		users:       NewUsersRepository(idb),
	}
}

func (m *mngr) Validate() error {
	if m.db == nil {
		return errors.New("repository manager requires a database")
	}
	if m.students == nil || m.courses == nil || m.departments == nil || m.scores == nil || m.users == nil {
		return errors.New("repositories should be initialized")
	}
	return nil
}

func (m *mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

// Check pings the database.
func (m *mngr) Check(ctx context.Context) error {
	if err := m.db.PingContext(ctx); err != nil {
		return campus.Database(err)
	}
	return nil
}

// RunInTx runs f with a manager bound to a transaction. The transaction
// commits when f returns nil.
func (m *mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx Manager) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	return m.db.RunInTx(ctx, opts, func(ctx context.Context, tx bun.Tx) error {
		return f(ctx, newManager(m.db, tx))
	})
}

func (m *mngr) Students() Students       { return m.students }
func (m *mngr) Courses() Courses         { return m.courses }
func (m *mngr) Departments() Departments { return m.departments }
func (m *mngr) Scores() Scores           { return m.scores }
func (m *mngr) Users() Users             { return m.users }
