package repository

import (
	"context"

	bunrepo "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type Students interface {
	Store[Student]
	FindByID(ctx context.Context, id string) (*Student, error)
	Search(ctx context.Context, keyword string, page PageRequest) (*Page[Student], error)
}

type students struct {
	Store[Student]
}

func NewStudentsRepository(db bun.IDB) Students {
	return &students{Store: NewStore(db, Entity[Student]{
		Name:       "student",
		Identifier: "id",
		Keys: func(s *Student) []SelectCriteria {
			return []SelectCriteria{bunrepo.SelectByID(s.ID)}
		},
		Columns: func(s *Student) []bunrepo.UpdateCriteria {
			return []bunrepo.UpdateCriteria{
				bunrepo.UpdateSetColumn("name", s.Name),
				bunrepo.UpdateSetColumn("sex", s.Sex),
				bunrepo.UpdateSetColumn("age", s.Age),
				bunrepo.UpdateSetColumn("email", s.Email),
				bunrepo.UpdateSetColumn("department_id", nullable(s.DepartmentID)),
			}
		},
	})}
}

func (r *students) FindByID(ctx context.Context, id string) (*Student, error) {
	return r.FindOne(ctx, bunrepo.SelectByID(id))
}

// Search pages students whose name contains keyword, ordered by id.
func (r *students) Search(ctx context.Context, keyword string, page PageRequest) (*Page[Student], error) {
	return r.Paginate(ctx, page, NameContains("stu.name", keyword), bunrepo.OrderBy("stu.id ASC"))
}
