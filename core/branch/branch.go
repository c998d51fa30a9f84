package branch

import (
	"context"
	"time"

	"github.com/classcodehub/codehub/core"
)

var NowFunc = time.Now // mockable

type (
	// Branch is a registered (branch, batch) pair. Pairs are not unique.
	Branch struct {
		ID         string    `json:"id"`
		BranchName string    `json:"branchname"`
		BatchName  string    `json:"batchname"`
		CreatedAt  time.Time `json:"created_at"`
	}

	NewBranch struct {
		BranchName string `json:"branchname" form:"branchname" validate:"required,notblank"`
		BatchName  string `json:"batchname" form:"batchname" validate:"required,notblank"`
	}

	Repository interface {
		CreateBranch(ctx context.Context, b Branch) (Branch, error)
		// QueryAllBranches returns branches in insertion order.
		QueryAllBranches(ctx context.Context) ([]Branch, error)
	}

	Service struct {
		repo Repository
	}
)

func (nb *NewBranch) Validate(v *core.Validator) error {
	nb.BranchName = core.CleanString(nb.BranchName, true /* lower */)
	nb.BatchName = core.CleanString(nb.BatchName)
	return v.Struct(nb, "invalid branch data")
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores `nb` unconditionally. `nb` must have been validated.
func (svc *Service) Create(ctx context.Context, nb NewBranch) (Branch, error) {
	return svc.repo.CreateBranch(ctx, Branch{
		BranchName: nb.BranchName,
		BatchName:  nb.BatchName,
		CreatedAt:  NowFunc().UTC(),
	})
}

func (svc *Service) QueryAll(ctx context.Context) ([]Branch, error) {
	return svc.repo.QueryAllBranches(ctx)
}
