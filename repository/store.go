package repository

import (
	"context"

	bunrepo "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-campus"
)

// SelectCriteria narrows a select query.
type SelectCriteria = bunrepo.SelectCriteria

// Store is the CRUD surface shared by every entity repository. Lookups take
// criteria, writes address records by the primary key fields set on the
// model.
type Store[T any] interface {
	FindOne(ctx context.Context, criteria ...SelectCriteria) (*T, error)
	FindAll(ctx context.Context, criteria ...SelectCriteria) ([]*T, error)
	Paginate(ctx context.Context, req PageRequest, criteria ...SelectCriteria) (*Page[T], error)
	Insert(ctx context.Context, record *T) (*T, error)
	Update(ctx context.Context, record *T) (*T, error)
	Delete(ctx context.Context, key *T) error
}

// Entity describes how a model is addressed and written.
type Entity[T any] struct {
	// Name labels the record in NotFound messages.
	Name string
	// Identifier is the column used for identifier lookups.
	Identifier string
	// Keys selects the row matching the primary key of a record.
	Keys func(*T) []SelectCriteria
	// Columns lists every mutable column with its value. Update writes all
	// of them, zero values included.
	Columns func(*T) []bunrepo.UpdateCriteria
}

type store[T any] struct {
	db     bun.IDB
	repo   bunrepo.Repository[*T]
	entity Entity[T]
}

var _ Store[Student] = (*store[Student])(nil)

// NewStore returns a Store over db.
func NewStore[T any](db bun.IDB, entity Entity[T]) Store[T] {
	handlers := bunrepo.ModelHandlers[*T]{
		NewRecord: func() *T {
			return new(T)
		},
		// keys are natural and supplied by callers
		GetID: func(*T) uuid.UUID {
			return uuid.Nil
		},
		SetID: func(*T, uuid.UUID) {},
		GetIdentifier: func() string {
			return entity.Identifier
		},
	}
	return &store[T]{
		db:     db,
		repo:   bunrepo.NewRepository(db, handlers),
		entity: entity,
	}
}

func (s *store[T]) FindOne(ctx context.Context, criteria ...SelectCriteria) (*T, error) {
	record, err := s.repo.Get(ctx, criteria...)
	if err != nil {
		return nil, s.wrap(err)
	}
	return record, nil
}

func (s *store[T]) FindAll(ctx context.Context, criteria ...SelectCriteria) ([]*T, error) {
	criteria = append(criteria, unbounded)
	records, _, err := s.repo.List(ctx, criteria...)
	if err != nil && !bunrepo.IsNoRowError(err) {
		return nil, campus.Database(err)
	}
	if records == nil {
		records = []*T{}
	}
	return records, nil
}

func (s *store[T]) Paginate(ctx context.Context, req PageRequest, criteria ...SelectCriteria) (*Page[T], error) {
	req = req.Normalize()

	criteria = append(criteria, bunrepo.Paginate(req.Size, req.Offset()))
	records, total, err := s.repo.List(ctx, criteria...)
	if err != nil && !bunrepo.IsNoRowError(err) {
		return nil, campus.Database(err)
	}
	return NewPage(req, total, records), nil
}

func (s *store[T]) Insert(ctx context.Context, record *T) (*T, error) {
	record, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, campus.Database(err)
	}
	return record, nil
}

func (s *store[T]) Update(ctx context.Context, record *T) (*T, error) {
	record, err := s.repo.Update(ctx, record, s.entity.Columns(record)...)
	if err != nil {
		return nil, s.wrap(err)
	}
	return record, nil
}

// Delete removes the row keyed by key. A missing row is NotFound.
func (s *store[T]) Delete(ctx context.Context, key *T) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := s.repo.GetTx(ctx, tx, s.entity.Keys(key)...); err != nil {
			return s.wrap(err)
		}
		if err := s.repo.DeleteTx(ctx, tx, key); err != nil {
			return campus.Database(err)
		}
		return nil
	})
}

func (s *store[T]) wrap(err error) error {
	if bunrepo.IsRecordNotFound(err) {
		return campus.NotFound(s.entity.Name + " not found")
	}
	return campus.Database(err)
}

func unbounded(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Limit(0).Offset(0)
}

// nullable maps an empty optional reference to NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
