package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/goliatone/go-campus"
	"github.com/goliatone/go-campus/extract"
)

func (a *Controller) DepartmentList(c *fiber.Ctx) error {
	a.Logger.Debug("Query department")

	records, err := a.Repo.Departments().All(c.UserContext())
	if err != nil {
		return err
	}
	return campus.JSON(c, records)
}

func (a *Controller) DepartmentGet(c *fiber.Ctx) error {
	p, err := extract.Path[IDPath](c)
	if err != nil {
		return err
	}

	record, err := a.Repo.Departments().FindByID(c.UserContext(), p.ID)
	if err != nil {
		return err
	}
	return campus.JSON(c, record)
}
