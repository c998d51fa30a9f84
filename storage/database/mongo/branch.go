package mongorepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/classcodehub/codehub/core/branch"
)

type branchDoc struct {
	ID         string    `bson:"_id"`
	Seq        int64     `bson:"seq"`
	BranchName string    `bson:"branchname"`
	BatchName  string    `bson:"batchname"`
	CreatedAt  time.Time `bson:"created_at"`
}

type branchRepository struct {
	coll *mongo.Collection
}

var _ branch.Repository = (*branchRepository)(nil) // interface compliance check

func NewBranchRepository(db *mongo.Database) *branchRepository {
	return &branchRepository{coll: db.Collection(branchCollection)}
}

func (repo branchRepository) CreateBranch(ctx context.Context, b branch.Branch) (branch.Branch, error) {
	b.ID = uuid.New().String()
	b.CreatedAt = b.CreatedAt.UTC()
	doc := branchDoc{
		ID:         b.ID,
		Seq:        b.CreatedAt.UnixNano(),
		BranchName: b.BranchName,
		BatchName:  b.BatchName,
		CreatedAt:  b.CreatedAt,
	}
	if _, err := repo.coll.InsertOne(ctx, doc); err != nil {
		return branch.Branch{}, errors.Wrap(err, "inserting branch")
	}
	return b, nil
}

func (repo branchRepository) QueryAllBranches(ctx context.Context) ([]branch.Branch, error) {
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})
	cur, err := repo.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "querying branches")
	}
	var docs []branchDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding branches")
	}

	branches := make([]branch.Branch, 0, len(docs))
	for _, d := range docs {
		branches = append(branches, branch.Branch{
			ID:         d.ID,
			BranchName: d.BranchName,
			BatchName:  d.BatchName,
			CreatedAt:  d.CreatedAt.UTC(),
		})
	}
	return branches, nil
}
