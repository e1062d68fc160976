// Package controller holds the HTTP handlers for the campus records API.
package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/goliatone/go-campus"
	"github.com/goliatone/go-campus/repository"
)

const IndexMessage = "Welcome! This is the index page of this site."

type Routes struct {
	Index      string
	Login      string
	Student    string
	Course     string
	Score      string
	Department string
}

type Controller struct {
	Logger campus.Logger
	Repo   repository.Manager
	Auther *campus.Authenticator
	// Gate guards every route except index and login.
	Gate   fiber.Handler
	Routes *Routes
}

type Option func(*Controller) *Controller

func WithLogger(logger campus.Logger) Option {
	return func(c *Controller) *Controller {
		c.Logger = campus.LoggerOrDefault(logger)
		return c
	}
}

func WithRepository(repo repository.Manager) Option {
	return func(c *Controller) *Controller {
		c.Repo = repo
		return c
	}
}

func WithAuthenticator(auther *campus.Authenticator) Option {
	return func(c *Controller) *Controller {
		c.Auther = auther
		return c
	}
}

func WithGate(gate fiber.Handler) Option {
	return func(c *Controller) *Controller {
		c.Gate = gate
		return c
	}
}

func New(opts ...Option) *Controller {
	c := &Controller{
		Logger: campus.DefaultLogger(),
		Routes: &Routes{
			Index:      "/index",
			Login:      "/login",
			Student:    "/student",
			Course:     "/course",
			Score:      "/score",
			Department: "/department",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing repository.Manager in campus controller...")
	}

	if c.Auther == nil {
		panic("Missing Authenticator in campus controller...")
	}

	if c.Gate == nil {
		panic("Missing auth gate in campus controller...")
	}

	return c
}

// Register mounts every route on r.
func Register(r fiber.Router, opts ...Option) *Controller {
	c := New(opts...)

	r.Get("/", c.Index)
	r.Get(c.Routes.Index, c.Index)

	r.Get(c.Routes.Login, c.LoginQuery)
	r.Post(c.Routes.Login, c.LoginPost)
	r.Get(c.Routes.Login+"/me", c.Gate, c.Me)

	students := r.Group(c.Routes.Student, c.Gate)
	students.Get("/", c.StudentList)
	students.Get("/:id", c.StudentGet)
	students.Post("/", c.StudentCreate)
	students.Put("/:id", c.StudentUpdate)
	students.Delete("/:id", c.StudentDelete)

	courses := r.Group(c.Routes.Course, c.Gate)
	courses.Get("/", c.CourseList)
	courses.Get("/:id", c.CourseGet)
	courses.Post("/", c.CourseCreate)
	courses.Put("/:id", c.CourseUpdate)
	courses.Delete("/:id", c.CourseDelete)

	scores := r.Group(c.Routes.Score, c.Gate)
	scores.Get("/", c.ScoreList)
	scores.Get("/:stu_id/:course_id", c.ScoreGet)
	scores.Post("/", c.ScoreCreate)
	scores.Put("/:stu_id/:course_id", c.ScoreUpdate)
	scores.Delete("/:stu_id/:course_id", c.ScoreDelete)

	departments := r.Group(c.Routes.Department, c.Gate)
	departments.Get("/", c.DepartmentList)
	departments.Get("/:id", c.DepartmentGet)

	return c
}

func (a *Controller) Index(c *fiber.Ctx) error {
	a.Logger.Debug("Query index")
	return campus.JSON(c, IndexMessage)
}

func created(c *fiber.Ctx, v any) error {
	return c.Status(fiber.StatusCreated).JSON(v)
}
