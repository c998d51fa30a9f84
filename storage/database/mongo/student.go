package mongorepos

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/classcodehub/codehub/core/student"
)

type studentDoc struct {
	ID         string    `bson:"_id"`
	Name       string    `bson:"name"`
	Email      string    `bson:"email"`
	Password   []byte    `bson:"password"` // null for placeholders
	BranchName string    `bson:"branchname"`
	BatchName  string    `bson:"batchname"`
	CreatedAt  time.Time `bson:"created_at"`
}

func (d studentDoc) student() student.Student {
	return student.Student{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		BranchName:   d.BranchName,
		BatchName:    d.BatchName,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

type studentRepository struct {
	coll *mongo.Collection
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *mongo.Database) *studentRepository {
	return &studentRepository{coll: db.Collection(studentCollection)}
}

func (repo studentRepository) CreateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	s.ID = uuid.New().String()
	s.CreatedAt = s.CreatedAt.UTC()
	// bson stores a nil []byte as null
	doc := studentDoc{
		ID:         s.ID,
		Name:       s.Name,
		Email:      s.Email,
		Password:   s.PasswordHash,
		BranchName: s.BranchName,
		BatchName:  s.BatchName,
		CreatedAt:  s.CreatedAt,
	}
	if _, err := repo.coll.InsertOne(ctx, doc); err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return s, nil
}

func (repo studentRepository) CreateStudentIfAbsent(ctx context.Context, s student.Student) (bool, error) {
	filter := bson.M{"name": s.Name, "branchname": s.BranchName, "batchname": s.BatchName}
	update := bson.M{"$setOnInsert": bson.M{
		"_id":        uuid.New().String(),
		"email":      s.Email,
		"password":   nil,
		"created_at": s.CreatedAt.UTC(),
	}}
	res, err := repo.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		// a concurrent upsert inserted the same placeholder first
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, errors.Wrap(err, "upserting student")
	}
	return res.UpsertedCount > 0, nil
}

func (repo studentRepository) GetStudent(ctx context.Context, filter student.GetFilter) (student.Student, error) {
	var q bson.M
	switch {
	case filter.ID != "":
		q = bson.M{"_id": filter.ID}
	case filter.Email != "":
		q = bson.M{"email": filter.Email}
	default:
		return student.Student{}, student.ErrNotFound
	}

	var doc studentDoc
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	if err := repo.coll.FindOne(ctx, q, opts).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "finding student")
	}
	return doc.student(), nil
}

// exactFold matches `s` literally, ignoring case.
func exactFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s) + "$", Options: "i"}
}

func (repo studentRepository) QueryStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error) {
	q := bson.M{
		"branchname": exactFold(filter.BranchName),
		"batchname":  exactFold(filter.BatchName),
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := repo.coll.Find(ctx, q, opts)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	var docs []studentDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding students")
	}

	students := make([]student.Student, 0, len(docs))
	for _, d := range docs {
		students = append(students, d.student())
	}
	return students, nil
}

func (repo studentRepository) UpdatePassword(ctx context.Context, id string, hash []byte) error {
	res, err := repo.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{"password": hash}})
	if err != nil {
		return errors.Wrap(err, "updating password")
	}
	if res.MatchedCount == 0 {
		return student.ErrNotFound
	}
	return nil
}
