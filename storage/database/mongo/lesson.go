package mongorepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/classcodehub/codehub/core/lesson"
)

type lessonDoc struct {
	ID           string    `bson:"_id"`
	Seq          int64     `bson:"seq"`
	BranchName   string    `bson:"branchname"`
	BatchName    string    `bson:"batchname"`
	StudentsName []string  `bson:"studentsname"`
	CreatedDate  string    `bson:"createddate"`
	TopicName    string    `bson:"topicname"`
	FileNames    []string  `bson:"filenames"`
	ClassType    string    `bson:"classtype"`
	UploadedAt   time.Time `bson:"uploaded_at"`
}

func (d lessonDoc) lesson() lesson.Lesson {
	l := lesson.Lesson{
		ID:           d.ID,
		BranchName:   d.BranchName,
		BatchName:    d.BatchName,
		StudentsName: d.StudentsName,
		CreatedDate:  d.CreatedDate,
		TopicName:    d.TopicName,
		FileNames:    d.FileNames,
		ClassType:    d.ClassType,
		UploadedAt:   d.UploadedAt.UTC(),
	}
	if l.StudentsName == nil {
		l.StudentsName = []string{}
	}
	if l.FileNames == nil {
		l.FileNames = []string{}
	}
	return l
}

type lessonRepository struct {
	coll *mongo.Collection
}

var _ lesson.Repository = (*lessonRepository)(nil) // interface compliance check

func NewLessonRepository(db *mongo.Database) *lessonRepository {
	return &lessonRepository{coll: db.Collection(lessonCollection)}
}

func (repo lessonRepository) CreateLesson(ctx context.Context, l lesson.Lesson) (lesson.Lesson, error) {
	l.ID = uuid.New().String()
	l.UploadedAt = l.UploadedAt.UTC()
	doc := lessonDoc{
		ID:           l.ID,
		Seq:          l.UploadedAt.UnixNano(),
		BranchName:   l.BranchName,
		BatchName:    l.BatchName,
		StudentsName: l.StudentsName,
		CreatedDate:  l.CreatedDate,
		TopicName:    l.TopicName,
		FileNames:    l.FileNames,
		ClassType:    l.ClassType,
		UploadedAt:   l.UploadedAt,
	}
	if _, err := repo.coll.InsertOne(ctx, doc); err != nil {
		return lesson.Lesson{}, errors.Wrap(err, "inserting lesson")
	}
	return l, nil
}

func lessonFilter(f lesson.QueryFilter) bson.M {
	q := bson.M{}
	if f.BranchName != "" {
		q["branchname"] = f.BranchName
	}
	if f.BatchName != "" {
		q["batchname"] = f.BatchName
	}
	return q
}

func (repo lessonRepository) QueryLessons(ctx context.Context, f lesson.QueryFilter, offset, limit int) ([]lesson.Lesson, error) {
	// no collation: strings compare by bytes
	opts := options.Find().
		SetSort(bson.D{{Key: "createddate", Value: -1}, {Key: "seq", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cur, err := repo.coll.Find(ctx, lessonFilter(f), opts)
	if err != nil {
		return nil, errors.Wrap(err, "querying lessons")
	}
	var docs []lessonDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding lessons")
	}

	lessons := make([]lesson.Lesson, 0, len(docs))
	for _, d := range docs {
		lessons = append(lessons, d.lesson())
	}
	return lessons, nil
}

func (repo lessonRepository) CountLessons(ctx context.Context, f lesson.QueryFilter) (int, error) {
	n, err := repo.coll.CountDocuments(ctx, lessonFilter(f))
	if err != nil {
		return 0, errors.Wrap(err, "counting lessons")
	}
	return int(n), nil
}
