package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/goliatone/go-campus"
	"github.com/goliatone/go-campus/extract"
)

// LoginQuery authenticates with id and password passed as query parameters.
func (a *Controller) LoginQuery(c *fiber.Ctx) error {
	req, err := extract.Query[LoginRequest](c)
	if err != nil {
		return err
	}
	return a.login(c, req)
}

// LoginPost authenticates with a JSON body.
func (a *Controller) LoginPost(c *fiber.Ctx) error {
	req, err := extract.Body[LoginRequest](c)
	if err != nil {
		return err
	}
	return a.login(c, req)
}

func (a *Controller) login(c *fiber.Ctx, req LoginRequest) error {
	a.Logger.Debug("user trying to login", "id", req.ID)

	res, err := a.Auther.Login(c.UserContext(), req.ID, req.Password)
	if err != nil {
		return err
	}

	return campus.JSON(c, res)
}

// Me returns the identity the gate admitted.
func (a *Controller) Me(c *fiber.Ctx) error {
	identity, ok := campus.IdentityFromLocals(c)
	if !ok {
		return campus.Unauthorized("not authenticated")
	}
	return campus.JSON(c, identity)
}
