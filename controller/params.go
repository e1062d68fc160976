package controller

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/goliatone/go-campus/repository"
)

type LoginRequest struct {
	ID       string `json:"id" query:"id"`
	Password string `json:"password" query:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID,
			validation.Required.Error("id should be between 1 and 32 characters"),
			validation.RuneLength(1, 32).Error("id should be between 1 and 32 characters"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password should be between 1 and 128 characters"),
			validation.RuneLength(1, 128).Error("password should be between 1 and 128 characters"),
		),
	)
}

// PageQuery is the keyword search with paging used by students and courses.
type PageQuery struct {
	Keyword   string `json:"keyword" query:"keyword"`
	PageIndex int    `json:"page_index" query:"page_index"`
	PageSize  int    `json:"page_size" query:"page_size"`
}

func (q *PageQuery) Defaults() {
	q.PageIndex = repository.DefaultPageIndex
	q.PageSize = repository.DefaultPageSize
}

func (q PageQuery) Validate() error {
	const sizeMsg = "the amount of items in one page should be at least 5 and at most 100"
	return validation.ValidateStruct(&q,
		validation.Field(&q.PageIndex,
			validation.Required.Error("page index should be greater than or equal to 1"),
			validation.Min(1).Error("page index should be greater than or equal to 1"),
		),
		validation.Field(&q.PageSize,
			validation.Required.Error(sizeMsg),
			validation.Min(5).Error(sizeMsg),
			validation.Max(repository.MaxPageSize).Error(sizeMsg),
		),
	)
}

func (q PageQuery) Page() repository.PageRequest {
	return repository.PageRequest{Index: q.PageIndex, Size: q.PageSize}
}

const defaultScorePageSize = 50

type ScoreQuery struct {
	Student   string `json:"student" query:"student"`
	Course    string `json:"course" query:"course"`
	PageIndex int    `json:"page_index" query:"page_index"`
	PageSize  int    `json:"page_size" query:"page_size"`
}

func (q *ScoreQuery) Defaults() {
	q.PageIndex = repository.DefaultPageIndex
	q.PageSize = defaultScorePageSize
}

func (q ScoreQuery) Validate() error {
	const sizeMsg = "the amount of items in one page should be between 1 and 100"
	return validation.ValidateStruct(&q,
		validation.Field(&q.PageIndex,
			validation.Required.Error("page index should be greater than or equal to 1"),
			validation.Min(1).Error("page index should be greater than or equal to 1"),
		),
		validation.Field(&q.PageSize,
			validation.Required.Error(sizeMsg),
			validation.Min(1).Error(sizeMsg),
			validation.Max(repository.MaxPageSize).Error(sizeMsg),
		),
	)
}

func (q ScoreQuery) Filter() repository.ScoreFilter {
	return repository.ScoreFilter{Student: q.Student, Course: q.Course}
}

func (q ScoreQuery) Page() repository.PageRequest {
	return repository.PageRequest{Index: q.PageIndex, Size: q.PageSize}
}

// IDPath addresses students, courses and departments.
type IDPath struct {
	ID string `json:"id" params:"id"`
}

func (p IDPath) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ID, validation.Required, validation.RuneLength(1, 6)),
	)
}

type ScorePath struct {
	StuID    string `json:"stu_id" params:"stu_id"`
	CourseID string `json:"course_id" params:"course_id"`
}

func (p ScorePath) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.StuID, validation.Required, validation.RuneLength(1, 6)),
		validation.Field(&p.CourseID, validation.Required, validation.RuneLength(1, 6)),
	)
}

type StudentRequest struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Sex          string `json:"sex"`
	Age          int    `json:"age"`
	Email        string `json:"email"`
	DepartmentID string `json:"department_id"`
}

func (r StudentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required, validation.RuneLength(1, 6)),
		validation.Field(&r.Name, validation.Required, validation.RuneLength(1, 20)),
		validation.Field(&r.Sex, validation.Required, validation.RuneLength(1, 2)),
		validation.Field(&r.Age, validation.Min(0)),
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.DepartmentID, validation.RuneLength(0, 2)),
	)
}

func (r StudentRequest) Model() *repository.Student {
	return &repository.Student{
		ID:           r.ID,
		Name:         r.Name,
		Sex:          r.Sex,
		Age:          r.Age,
		Email:        r.Email,
		DepartmentID: r.DepartmentID,
	}
}

type CourseRequest struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Credit       int    `json:"credit"`
	DepartmentID string `json:"department_id"`
}

func (r CourseRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required, validation.RuneLength(1, 6)),
		validation.Field(&r.Name, validation.Required, validation.RuneLength(1, 20)),
		validation.Field(&r.Credit, validation.Min(0), validation.Max(20)),
		validation.Field(&r.DepartmentID, validation.RuneLength(0, 2)),
	)
}

func (r CourseRequest) Model() *repository.Course {
	return &repository.Course{
		ID:           r.ID,
		Name:         r.Name,
		Credit:       r.Credit,
		DepartmentID: r.DepartmentID,
	}
}

type ScoreRequest struct {
	StuID      string `json:"stu_id"`
	CourseID   string `json:"course_id"`
	Score      *int   `json:"score"`
	RecordDate string `json:"record_date"`
}

func (r ScoreRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.StuID, validation.Required, validation.RuneLength(1, 6)),
		validation.Field(&r.CourseID, validation.Required, validation.RuneLength(1, 6)),
		validation.Field(&r.Score, validation.Min(0), validation.Max(100)),
		validation.Field(&r.RecordDate, validation.Date(repository.DateLayout).Error("must be a date formatted as YYYY-MM-DD")),
	)
}

// Model converts the request. RecordDate is assumed valid.
func (r ScoreRequest) Model() *repository.Score {
	s := &repository.Score{
		StuID:    r.StuID,
		CourseID: r.CourseID,
		Score:    r.Score,
	}
	if r.RecordDate != "" {
		if d, err := repository.ParseDate(r.RecordDate); err == nil {
			s.RecordDate = &d
		}
	}
	return s
}
