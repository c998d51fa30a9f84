package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/classcodehub/codehub/core/branch"
)

type branchRow struct {
	ID         string    `db:"id"`
	BranchName string    `db:"branchname"`
	BatchName  string    `db:"batchname"`
	CreatedAt  time.Time `db:"created_at"`
}

type branchRepository struct {
	db *sqlx.DB
}

var _ branch.Repository = (*branchRepository)(nil) // interface compliance check

func NewBranchRepository(db *sqlx.DB) *branchRepository {
	return &branchRepository{db: db}
}

func (repo branchRepository) CreateBranch(ctx context.Context, b branch.Branch) (branch.Branch, error) {
	b.ID = uuid.New().String()
	b.CreatedAt = b.CreatedAt.UTC()
	q := `INSERT INTO branch (id, branchname, batchname, created_at)
		VALUES (:id, :branchname, :batchname, :created_at)`
	row := branchRow{ID: b.ID, BranchName: b.BranchName, BatchName: b.BatchName, CreatedAt: b.CreatedAt}
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return branch.Branch{}, errors.Wrap(err, "inserting branch")
	}
	return b, nil
}

func (repo branchRepository) QueryAllBranches(ctx context.Context) ([]branch.Branch, error) {
	var rows []branchRow
	q := `SELECT id, branchname, batchname, created_at FROM branch ORDER BY seq`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying branches")
	}
	branches := make([]branch.Branch, 0, len(rows))
	for _, r := range rows {
		branches = append(branches, branch.Branch{
			ID:         r.ID,
			BranchName: r.BranchName,
			BatchName:  r.BatchName,
			CreatedAt:  r.CreatedAt.UTC(),
		})
	}
	return branches, nil
}
