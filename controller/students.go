package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/goliatone/go-campus"
	"github.com/goliatone/go-campus/extract"
	"github.com/goliatone/go-campus/repository"
)

func (a *Controller) StudentList(c *fiber.Ctx) error {
	q, err := extract.Query[PageQuery](c)
	if err != nil {
		return err
	}
	a.Logger.Debug("Query student", "keyword", q.Keyword, "page_index", q.PageIndex, "page_size", q.PageSize)

	page, err := a.Repo.Students().Search(c.UserContext(), q.Keyword, q.Page())
	if err != nil {
		return err
	}
	return campus.JSON(c, page)
}

func (a *Controller) StudentGet(c *fiber.Ctx) error {
	p, err := extract.Path[IDPath](c)
	if err != nil {
		return err
	}

	record, err := a.Repo.Students().FindByID(c.UserContext(), p.ID)
	if err != nil {
		return err
	}
	return campus.JSON(c, record)
}

func (a *Controller) StudentCreate(c *fiber.Ctx) error {
	req, err := extract.Body[StudentRequest](c)
	if err != nil {
		return err
	}

	record, err := a.Repo.Students().Insert(c.UserContext(), req.Model())
	if err != nil {
		return err
	}
	a.Logger.Info("created student", "id", record.ID)
	return created(c, record)
}

// StudentUpdate replaces the student addressed by the path. The path id
// takes precedence over any id in the body.
func (a *Controller) StudentUpdate(c *fiber.Ctx) error {
	p, err := extract.Path[IDPath](c)
	if err != nil {
		return err
	}

	req, err := extract.Extract[StudentRequest](c, extract.BodyChannel, func(r StudentRequest) error {
		r.ID = p.ID
		return r.Validate()
	})
	if err != nil {
		return err
	}
	req.ID = p.ID

	record, err := a.Repo.Students().Update(c.UserContext(), req.Model())
	if err != nil {
		return err
	}
	a.Logger.Info("updated student", "id", record.ID)
	return campus.JSON(c, record)
}

func (a *Controller) StudentDelete(c *fiber.Ctx) error {
	p, err := extract.Path[IDPath](c)
	if err != nil {
		return err
	}

	if err := a.Repo.Students().Delete(c.UserContext(), &repository.Student{ID: p.ID}); err != nil {
		return err
	}
	a.Logger.Info("deleted student", "id", p.ID)
	return campus.JSON(c, "Successfully deleted "+p.ID)
}
