package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/classcodehub/codehub/core"
	"github.com/classcodehub/codehub/core/session"
)

// bindPagination reads `page` and `limit`. Bad values fall back to the defaults.
func bindPagination(ctx echo.Context) core.Pagination {
	return core.NewPagination(ctx.QueryParam("page"), ctx.QueryParam("limit"))
}

type (
	LoginRequest struct {
		Email    string `json:"email" form:"email" validate:"required"`
		Password string `json:"password" form:"password" validate:"required"`
	}

	StudentsQuery struct {
		BranchName string `query:"branchname"`
		BatchName  string `query:"batchname"`
	}

	StudentLessonsQuery struct {
		BranchName string `query:"branchname"`
		BatchName  string `query:"batchname"`
		Email      string `query:"email"`
	}

	MessageResponse struct {
		Message string `json:"message"`
	}

	SuccessResponse struct {
		Success bool `json:"success"`
	}

	LoginResponse = session.Identity
)

func (lr *LoginRequest) Validate(v *core.Validator) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return v.Struct(lr, "invalid credentials")
}
