package repository

import (
	"context"

	bunrepo "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type Courses interface {
	Store[Course]
	FindByID(ctx context.Context, id string) (*Course, error)
	Search(ctx context.Context, keyword string, page PageRequest) (*Page[Course], error)
}

type courses struct {
	Store[Course]
}

func NewCoursesRepository(db bun.IDB) Courses {
	return &courses{Store: NewStore(db, Entity[Course]{
		Name:       "course",
		Identifier: "id",
		Keys: func(c *Course) []SelectCriteria {
			return []SelectCriteria{bunrepo.SelectByID(c.ID)}
		},
		Columns: func(c *Course) []bunrepo.UpdateCriteria {
			return []bunrepo.UpdateCriteria{
				bunrepo.UpdateSetColumn("name", c.Name),
				bunrepo.UpdateSetColumn("credit", c.Credit),
				bunrepo.UpdateSetColumn("department_id", nullable(c.DepartmentID)),
			}
		},
	})}
}

func (r *courses) FindByID(ctx context.Context, id string) (*Course, error) {
	return r.FindOne(ctx, bunrepo.SelectByID(id))
}

func (r *courses) Search(ctx context.Context, keyword string, page PageRequest) (*Page[Course], error) {
	return r.Paginate(ctx, page, NameContains("crs.name", keyword), bunrepo.OrderBy("crs.id ASC"))
}
