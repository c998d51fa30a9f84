package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/classcodehub/codehub/core/branch"
)

type branchRepository struct {
	db *branchTable
}

func NewBranchRepository(db *DB) branch.Repository {
	return &branchRepository{db: db.branch}
}

func (repo *branchRepository) CreateBranch(_ context.Context, b branch.Branch) (branch.Branch, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	b.ID = uuid.New().String()
	repo.db.rows = append(repo.db.rows, b)
	return b, nil
}

func (repo *branchRepository) QueryAllBranches(context.Context) ([]branch.Branch, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return append(make([]branch.Branch, 0, len(repo.db.rows)), repo.db.rows...), nil
}
