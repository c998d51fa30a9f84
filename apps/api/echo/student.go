package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/classcodehub/codehub/core"
	"github.com/classcodehub/codehub/core/student"
)

type studentApi struct {
	svc       *student.Service
	validator *core.Validator
	sessions  *sessionManager
}

func registerStudentAPI(g *echo.Group, svc *student.Service, validator *core.Validator, sessions *sessionManager) {
	api := studentApi{
		svc:       svc,
		validator: validator,
		sessions:  sessions,
	}

	g.POST("/signup", api.signup)
	g.POST("/login", api.login)
	g.POST("/logout", api.logout)
	g.GET("/students-by-branch-batch", api.queryByBranchBatch)
}

// Handlers

func (api *studentApi) signup(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validator); err != nil {
		return err
	}

	if _, err := api.svc.Signup(ctx.Request().Context(), data); err != nil {
		if errors.Cause(err) == student.ErrEmailExists {
			return errEmailRegistered
		}
		return errors.Wrap(err, "signing up student")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Signup successful"})
}

func (api *studentApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validator); err != nil {
		return err
	}

	stu, err := api.svc.Authenticate(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		switch errors.Cause(err) {
		case student.ErrNotFound:
			return errStudentNotFound
		case student.ErrInvalidPassword:
			return errInvalidPassword
		}
		return errors.Wrap(err, "authenticating")
	}

	ident := stu.Identity()
	if err = api.sessions.establish(ctx, ident); err != nil {
		return errors.Wrap(err, "establishing session")
	}
	return ctx.JSON(http.StatusOK, LoginResponse(ident))
}

func (api *studentApi) logout(ctx echo.Context) error {
	if err := api.sessions.destroy(ctx); err != nil {
		return errors.Wrap(err, "destroying session")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Logged out"})
}

func (api *studentApi) queryByBranchBatch(ctx echo.Context) error {
	var query StudentsQuery
	if err := ctx.Bind(&query); err != nil {
		return errMissingBranchBatch
	}
	if core.CleanString(query.BranchName) == "" || core.CleanString(query.BatchName) == "" {
		return errMissingBranchBatch
	}

	students, err := api.svc.QueryByBranchBatch(ctx.Request().Context(), query.BranchName, query.BatchName)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}
