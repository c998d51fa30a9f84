package database

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/classcodehub/codehub/core"
	"github.com/classcodehub/codehub/core/branch"
	"github.com/classcodehub/codehub/core/lesson"
	"github.com/classcodehub/codehub/core/student"
	"github.com/classcodehub/codehub/storage/database/inmem"
	"github.com/classcodehub/codehub/storage/database/mongo"
	"github.com/classcodehub/codehub/storage/database/sqlx"
)

// Repositories groups the repositories of one database engine.
type Repositories struct {
	Students student.Repository
	Branches branch.Repository
	Lessons  lesson.Repository

	// SQL is the postgres handle, nil for other engines.
	SQL *sql.DB

	closeFunc func(context.Context) error
}

func (r *Repositories) Close(ctx context.Context) error {
	if r.closeFunc == nil {
		return nil
	}
	return r.closeFunc(ctx)
}

// OpenRepositories connects to the engine named by conf.Database.Engine.
// Postgres databases are created when missing, and migrated up when `migrate` is set.
func OpenRepositories(ctx context.Context, conf *core.Config, migrate bool) (*Repositories, error) {
	switch conf.Database.Engine {
	case core.EnginePostgres:
		if err := CreateIfNotExist(ctx, conf); err != nil {
			return nil, errors.Wrap(err, "creating database")
		}
		db, err := Open(ctx, conf)
		if err != nil {
			return nil, err
		}
		if migrate {
			if err = Migrate(db); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		xdb := sqlxrepos.NewDB(db)
		return &Repositories{
			Students:  sqlxrepos.NewStudentRepository(xdb),
			Branches:  sqlxrepos.NewBranchRepository(xdb),
			Lessons:   sqlxrepos.NewLessonRepository(xdb),
			SQL:       db,
			closeFunc: func(context.Context) error { return db.Close() },
		}, nil

	case core.EngineMongo:
		db, err := mongorepos.Open(ctx, conf)
		if err != nil {
			return nil, err
		}
		return &Repositories{
			Students:  mongorepos.NewStudentRepository(db),
			Branches:  mongorepos.NewBranchRepository(db),
			Lessons:   mongorepos.NewLessonRepository(db),
			closeFunc: db.Client().Disconnect,
		}, nil

	case core.EngineMemory:
		db := inmemdb.Open()
		return &Repositories{
			Students: inmemdb.NewStudentRepository(db),
			Branches: inmemdb.NewBranchRepository(db),
			Lessons:  inmemdb.NewLessonRepository(db),
		}, nil
	}
	return nil, errors.Errorf("unknown database engine %q", conf.Database.Engine)
}
