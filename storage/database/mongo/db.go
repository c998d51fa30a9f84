// Package mongorepos implements the repositories on MongoDB.
package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/classcodehub/codehub/core"
)

const (
	studentCollection = "students"
	branchCollection  = "branches"
	lessonCollection  = "lessons"
)

// Open connects to conf.Database.MongoURI, pings the server and ensures the indexes exist.
func Open(ctx context.Context, conf *core.Config) (*mongo.Database, error) {
	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connCtx, options.Client().ApplyURI(conf.Database.MongoURI))
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongo")
	}
	if err = client.Ping(connCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(err, "pinging mongo")
	}

	db := client.Database(conf.Database.Name)
	if err = EnsureIndexes(connCtx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return db, nil
}

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(studentCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{
			// roster placeholders are unique per batch; signed up students are not
			Keys: bson.D{{Key: "name", Value: 1}, {Key: "branchname", Value: 1}, {Key: "batchname", Value: 1}},
			Options: options.Index().
				SetName("student_placeholder_key").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"password": bson.M{"$type": "null"}}),
		},
	})
	if err != nil {
		return errors.Wrap(err, "creating student indexes")
	}

	_, err = db.Collection(lessonCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "branchname", Value: 1}, {Key: "batchname", Value: 1}, {Key: "createddate", Value: -1}},
	})
	return errors.Wrap(err, "creating lesson indexes")
}
