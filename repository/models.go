package repository

import (
	"time"

	"github.com/uptrace/bun"
)

// Department is an academic department.
type Department struct {
	bun.BaseModel `bun:"table:department,alias:dep"`
	ID            string `bun:"id,pk" json:"id"`
	Name          string `bun:"name,notnull" json:"name"`
}

// Student is an enrolled student.
type Student struct {
	bun.BaseModel `bun:"table:student,alias:stu"`
	ID            string `bun:"id,pk" json:"id"`
	Name          string `bun:"name,notnull" json:"name"`
	Sex           string `bun:"sex,notnull" json:"sex"`
	Age           int    `bun:"age,notnull" json:"age"`
	Email         string `bun:"email,notnull" json:"email"`
	DepartmentID  string `bun:"department_id,nullzero" json:"department_id,omitempty"`
}

// Course is a course offered by a department.
type Course struct {
	bun.BaseModel `bun:"table:course,alias:crs"`
	ID            string `bun:"id,pk" json:"id"`
	Name          string `bun:"name,notnull" json:"name"`
	Credit        int    `bun:"credit,notnull" json:"credit"`
	DepartmentID  string `bun:"department_id,nullzero" json:"department_id,omitempty"`
}

// Score is a student's result in a course, keyed by both ids.
type Score struct {
	bun.BaseModel `bun:"table:score,alias:sc"`
	StuID         string `bun:"stu_id,pk" json:"stu_id"`
	CourseID      string `bun:"course_id,pk" json:"course_id"`
	Score         *int   `bun:"score" json:"score"`
	RecordDate    *Date  `bun:"record_date,type:date" json:"record_date"`

	StudentName string `bun:"student_name,scanonly" json:"student_name,omitempty"`
	CourseName  string `bun:"course_name,scanonly" json:"course_name,omitempty"`
}

// User is a login account.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            string    `bun:"id,pk" json:"id"`
	Name          string    `bun:"name,notnull" json:"name"`
	PasswordHash  string    `bun:"password_hash,notnull" json:"-"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}
