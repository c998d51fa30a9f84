package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/classcodehub/codehub/core"
	"github.com/classcodehub/codehub/core/branch"
)

type branchApi struct {
	svc       *branch.Service
	validator *core.Validator
}

func registerBranchAPI(g *echo.Group, svc *branch.Service, validator *core.Validator) {
	api := branchApi{svc: svc, validator: validator}

	g.POST("/create-branch", api.create)
	g.GET("/get-batches", api.query)
}

func (api *branchApi) create(ctx echo.Context) error {
	var data branch.NewBranch
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBranch")
	}
	if err := data.Validate(api.validator); err != nil {
		return err
	}

	if _, err := api.svc.Create(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "creating branch")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (api *branchApi) query(ctx echo.Context) error {
	branches, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying branches")
	}
	if branches == nil {
		branches = []branch.Branch{}
	}
	return ctx.JSON(http.StatusOK, branches)
}
