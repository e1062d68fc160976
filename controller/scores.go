package controller

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/goliatone/go-campus"
	"github.com/goliatone/go-campus/extract"
	"github.com/goliatone/go-campus/repository"
)

// ScoreList pages scores with student and course names, filtered by name
// fragments.
func (a *Controller) ScoreList(c *fiber.Ctx) error {
	q, err := extract.Query[ScoreQuery](c)
	if err != nil {
		return err
	}
	a.Logger.Debug("Query score", "student", q.Student, "course", q.Course)

	page, err := a.Repo.Scores().Search(c.UserContext(), q.Filter(), q.Page())
	if err != nil {
		return err
	}
	return campus.JSON(c, page)
}

func (a *Controller) ScoreGet(c *fiber.Ctx) error {
	p, err := extract.Path[ScorePath](c)
	if err != nil {
		return err
	}

	record, err := a.Repo.Scores().FindByKey(c.UserContext(), p.StuID, p.CourseID)
	if err != nil {
		return err
	}
	return campus.JSON(c, record)
}

func (a *Controller) ScoreCreate(c *fiber.Ctx) error {
	req, err := extract.Body[ScoreRequest](c)
	if err != nil {
		return err
	}

	record, err := a.Repo.Scores().Insert(c.UserContext(), req.Model())
	if err != nil {
		return err
	}
	a.Logger.Debug("Created score", "stu_id", record.StuID, "course_id", record.CourseID)
	return created(c, record)
}

// ScoreUpdate replaces score and record date. Keys come from the path.
func (a *Controller) ScoreUpdate(c *fiber.Ctx) error {
	p, err := extract.Path[ScorePath](c)
	if err != nil {
		return err
	}

	req, err := extract.Extract[ScoreRequest](c, extract.BodyChannel, func(r ScoreRequest) error {
		r.StuID, r.CourseID = p.StuID, p.CourseID
		return r.Validate()
	})
	if err != nil {
		return err
	}
	req.StuID, req.CourseID = p.StuID, p.CourseID

	record, err := a.Repo.Scores().Update(c.UserContext(), req.Model())
	if err != nil {
		return err
	}
	a.Logger.Debug("Updated score", "stu_id", record.StuID, "course_id", record.CourseID)
	return campus.JSON(c, record)
}

func (a *Controller) ScoreDelete(c *fiber.Ctx) error {
	p, err := extract.Path[ScorePath](c)
	if err != nil {
		return err
	}

	if err := a.Repo.Scores().Delete(c.UserContext(), &repository.Score{StuID: p.StuID, CourseID: p.CourseID}); err != nil {
		return err
	}
	return campus.JSON(c, fmt.Sprintf("Successfully deleted score, student id: %s, course id: %s", p.StuID, p.CourseID))
}
