package repository

import (
	"context"

	bunrepo "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// ScoreFilter selects scores by student and course name fragments.
type ScoreFilter struct {
	Student string
	Course  string
}

type Scores interface {
	Store[Score]
	FindByKey(ctx context.Context, stuID, courseID string) (*Score, error)
	Search(ctx context.Context, filter ScoreFilter, page PageRequest) (*Page[Score], error)
}

type scores struct {
	Store[Score]
}

func NewScoresRepository(db bun.IDB) Scores {
	return &scores{Store: NewStore(db, Entity[Score]{
		Name:       "score",
		Identifier: "stu_id",
		Keys: func(s *Score) []SelectCriteria {
			return scoreKey(s.StuID, s.CourseID)
		},
		Columns: func(s *Score) []bunrepo.UpdateCriteria {
			return []bunrepo.UpdateCriteria{
				bunrepo.UpdateSetColumn("score", s.Score),
				bunrepo.UpdateSetColumn("record_date", s.RecordDate),
			}
		},
	})}
}

func (r *scores) FindByKey(ctx context.Context, stuID, courseID string) (*Score, error) {
	return r.FindOne(ctx, scoreKey(stuID, courseID)...)
}

// Search pages scores joined with student and course names.
func (r *scores) Search(ctx context.Context, filter ScoreFilter, page PageRequest) (*Page[Score], error) {
	return r.Paginate(ctx, page,
		bunrepo.SelectRawProcessor(withNames),
		NameContains("stu.name", filter.Student),
		NameContains("crs.name", filter.Course),
		bunrepo.OrderBy("sc.stu_id ASC", "sc.course_id ASC"),
	)
}

func scoreKey(stuID, courseID string) []SelectCriteria {
	return []SelectCriteria{
		bunrepo.SelectBy("stu_id", "=", stuID),
		bunrepo.SelectBy("course_id", "=", courseID),
	}
}

func withNames(q *bun.SelectQuery) *bun.SelectQuery {
	return q.
		ColumnExpr("sc.*").
		ColumnExpr("stu.name AS student_name").
		ColumnExpr("crs.name AS course_name").
		Join("LEFT JOIN student AS stu ON stu.id = sc.stu_id").
		Join("LEFT JOIN course AS crs ON crs.id = sc.course_id")
}
