package dig_container

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/dig"

	echoapi "github.com/classcodehub/codehub/apps/api/echo"
	"github.com/classcodehub/codehub/core"
	"github.com/classcodehub/codehub/core/branch"
	"github.com/classcodehub/codehub/core/lesson"
	"github.com/classcodehub/codehub/core/session"
	"github.com/classcodehub/codehub/core/student"
	logsvc "github.com/classcodehub/codehub/services/logger"
	inmemstore "github.com/classcodehub/codehub/services/session/inmem"
	redisstore "github.com/classcodehub/codehub/services/session/redis"
	"github.com/classcodehub/codehub/storage/database"
	"github.com/classcodehub/codehub/storage/files/disk"
)

const connectTimeout = 30 * time.Second

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

type serverParams struct {
	dig.In

	Conf       *core.Config
	Logger     core.Logger
	Validator  *core.Validator
	Sessions   session.Store
	StudentSvc *student.Service
	BranchSvc  *branch.Service
	LessonSvc  *lesson.Service
	Metrics    *echoapi.Metrics
}

func newConfig() (*core.Config, error) {
	conf := core.NewConfig()
	if err := conf.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating config")
	}
	return conf, nil
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newRepositories(conf *core.Config, loggerParam DBLoggerParam) (*database.Repositories, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	repos, err := database.OpenRepositories(ctx, conf, true)
	if err != nil {
		return nil, errors.Wrap(err, "setting up database")
	}
	loggerParam.Logger.Info("database ready: " + conf.Database.Engine)
	return repos, nil
}

func newSessionStore(conf *core.Config) (session.Store, error) {
	switch conf.Session.Store {
	case core.SessionStoreRedis:
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		return redisstore.Open(ctx, conf)
	case core.SessionStoreMemory:
		return inmemstore.New(), nil
	}
	return nil, errors.Errorf("unknown session store %q", conf.Session.Store)
}

func newFileStorage(conf *core.Config) (core.FileStorage, error) {
	return disk.New(conf.Storage.UploadDir)
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)
	return reg
}

func newMetrics(reg *prometheus.Registry) *echoapi.Metrics {
	return echoapi.NewMetrics(reg)
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:       p.Conf,
		Logger:     p.Logger,
		Validator:  p.Validator,
		Sessions:   p.Sessions,
		StudentSvc: p.StudentSvc,
		BranchSvc:  p.BranchSvc,
		LessonSvc:  p.LessonSvc,
		Metrics:    p.Metrics,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(newConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newRepositories))
	must(c.Provide(func(r *database.Repositories) student.Repository { return r.Students }))
	must(c.Provide(func(r *database.Repositories) branch.Repository { return r.Branches }))
	must(c.Provide(func(r *database.Repositories) lesson.Repository { return r.Lessons }))
	must(c.Provide(newSessionStore))
	must(c.Provide(newFileStorage))
	must(c.Provide(core.NewValidator))
	must(c.Provide(student.NewService))
	must(c.Provide(func(svc *student.Service) lesson.StudentService { return svc }))
	must(c.Provide(branch.NewService))
	must(c.Provide(lesson.NewService))
	must(c.Provide(newRegistry))
	must(c.Provide(newMetrics))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
