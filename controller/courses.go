package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/goliatone/go-campus"
	"github.com/goliatone/go-campus/extract"
	"github.com/goliatone/go-campus/repository"
)

func (a *Controller) CourseList(c *fiber.Ctx) error {
	q, err := extract.Query[PageQuery](c)
	if err != nil {
		return err
	}
	a.Logger.Debug("Query course", "keyword", q.Keyword, "page_index", q.PageIndex, "page_size", q.PageSize)

	page, err := a.Repo.Courses().Search(c.UserContext(), q.Keyword, q.Page())
	if err != nil {
		return err
	}
	return campus.JSON(c, page)
}

func (a *Controller) CourseGet(c *fiber.Ctx) error {
	p, err := extract.Path[IDPath](c)
	if err != nil {
		return err
	}

	record, err := a.Repo.Courses().FindByID(c.UserContext(), p.ID)
	if err != nil {
		return err
	}
	return campus.JSON(c, record)
}

func (a *Controller) CourseCreate(c *fiber.Ctx) error {
	req, err := extract.Body[CourseRequest](c)
	if err != nil {
		return err
	}

	record, err := a.Repo.Courses().Insert(c.UserContext(), req.Model())
	if err != nil {
		return err
	}
	a.Logger.Info("created course", "id", record.ID)
	return created(c, record)
}

// CourseUpdate replaces the course addressed by the path. The path id
// takes precedence over any id in the body.
func (a *Controller) CourseUpdate(c *fiber.Ctx) error {
	p, err := extract.Path[IDPath](c)
	if err != nil {
		return err
	}

	req, err := extract.Extract[CourseRequest](c, extract.BodyChannel, func(r CourseRequest) error {
		r.ID = p.ID
		return r.Validate()
	})
	if err != nil {
		return err
	}
	req.ID = p.ID

	record, err := a.Repo.Courses().Update(c.UserContext(), req.Model())
	if err != nil {
		return err
	}
	a.Logger.Info("updated course", "id", record.ID)
	return campus.JSON(c, record)
}

func (a *Controller) CourseDelete(c *fiber.Ctx) error {
	p, err := extract.Path[IDPath](c)
	if err != nil {
		return err
	}

	if err := a.Repo.Courses().Delete(c.UserContext(), &repository.Course{ID: p.ID}); err != nil {
		return err
	}
	a.Logger.Info("deleted course", "id", p.ID)
	return campus.JSON(c, "Successfully deleted "+p.ID)
}
