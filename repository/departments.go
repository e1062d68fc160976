package repository

import (
	"context"

	bunrepo "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type Departments interface {
	Store[Department]
	FindByID(ctx context.Context, id string) (*Department, error)
	All(ctx context.Context) ([]*Department, error)
}

type departments struct {
	Store[Department]
}

func NewDepartmentsRepository(db bun.IDB) Departments {
	return &departments{Store: NewStore(db, Entity[Department]{
		Name:       "department",
		Identifier: "id",
		Keys: func(d *Department) []SelectCriteria {
			return []SelectCriteria{bunrepo.SelectByID(d.ID)}
		},
		Columns: func(d *Department) []bunrepo.UpdateCriteria {
			return []bunrepo.UpdateCriteria{bunrepo.UpdateSetColumn("name", d.Name)}
		},
	})}
}

func (r *departments) FindByID(ctx context.Context, id string) (*Department, error) {
	return r.FindOne(ctx, bunrepo.SelectByID(id))
}

func (r *departments) All(ctx context.Context) ([]*Department, error) {
	return r.FindAll(ctx, bunrepo.OrderBy("dep.id ASC"))
}
