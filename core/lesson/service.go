package lesson

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/classcodehub/codehub/core"
	"github.com/classcodehub/codehub/core/student"
)

var (
	NowFunc = time.Now // mockable

	ErrUnauthorized = errors.New("student not allowed to read these lessons")
)

type (
	Repository interface {
		CreateLesson(ctx context.Context, l Lesson) (Lesson, error)
		// QueryLessons sorts by createddate descending, comparing bytes, then by upload order.
		QueryLessons(ctx context.Context, filter QueryFilter, offset, limit int) ([]Lesson, error)
		CountLessons(ctx context.Context, filter QueryFilter) (int, error)
	}

	// StudentService is the part of student.Service lessons depend on.
	StudentService interface {
		GetByEmail(ctx context.Context, email string) (student.Student, error)
		EnsureRoster(ctx context.Context, names []string, branch, batch string) (int, error)
	}

	Service struct {
		repo     Repository
		students StudentService
		files    core.FileStorage
		logger   core.Logger
	}
)

func NewService(repo Repository, students StudentService, files core.FileStorage, logger core.Logger) *Service {
	return &Service{
		repo:     repo,
		students: students,
		files:    files,
		logger:   logger,
	}
}

// Upload stores the attachments, creates the missing roster students and saves the lesson.
// Stored attachments are removed again when a later step fails. Created students are kept.
func (svc *Service) Upload(ctx context.Context, nl NewLesson) (l Lesson, err error) {
	var stored []string
	defer func() {
		if err != nil {
			svc.removeFiles(stored)
		}
	}()

	for _, att := range nl.Files {
		name, sErr := svc.saveFile(ctx, att)
		if sErr != nil {
			return Lesson{}, errors.Wrapf(sErr, "saving %q", att.Filename)
		}
		stored = append(stored, name)
	}

	names := core.UniqueNames(nl.StudentsName)
	if _, err = svc.students.EnsureRoster(ctx, names, nl.BranchName, nl.BatchName); err != nil {
		return Lesson{}, errors.Wrap(err, "ensuring lesson roster")
	}

	if stored == nil {
		stored = []string{}
	}
	l, err = svc.repo.CreateLesson(ctx, Lesson{
		BranchName:   nl.BranchName,
		BatchName:    nl.BatchName,
		StudentsName: names,
		CreatedDate:  nl.CreatedDate,
		TopicName:    nl.TopicName,
		FileNames:    stored,
		ClassType:    nl.ClassType,
		UploadedAt:   NowFunc().UTC(),
	})
	if err != nil {
		return Lesson{}, errors.Wrap(err, "creating lesson")
	}
	return l, nil
}

func (svc *Service) saveFile(ctx context.Context, att Attachment) (string, error) {
	r, err := att.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = r.Close() }()
	return svc.files.Save(ctx, att.Filename, r)
}

func (svc *Service) removeFiles(names []string) {
	// the request context may be done already
	ctx := context.Background()
	for _, name := range names {
		if err := svc.files.Remove(ctx, name); err != nil {
			svc.logger.Warn("removing orphan upload", errors.Wrap(err, name))
		}
	}
}

// Query returns a page of the lessons matching `filter`.
func (svc *Service) Query(ctx context.Context, filter QueryFilter, pg core.Pagination) (Page, error) {
	filter.BranchName = core.CleanString(filter.BranchName)
	filter.BatchName = core.CleanString(filter.BatchName)

	total, err := svc.repo.CountLessons(ctx, filter)
	if err != nil {
		return Page{}, errors.Wrap(err, "counting lessons")
	}
	lessons, err := svc.repo.QueryLessons(ctx, filter, pg.Offset(), pg.Limit)
	if err != nil {
		return Page{}, errors.Wrap(err, "querying lessons")
	}
	if lessons == nil {
		lessons = []Lesson{}
	}
	return Page{
		Lessons: lessons,
		Total:   total,
		Page:    pg.Page,
		Pages:   pg.Pages(total),
	}, nil
}

// QueryForStudent is Query restricted to the batch of the student owning `email`.
// The given branch and batch must equal the student's exactly, or ErrUnauthorized is returned.
func (svc *Service) QueryForStudent(ctx context.Context, email string, filter QueryFilter, pg core.Pagination) (Page, error) {
	stu, err := svc.students.GetByEmail(ctx, email)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return Page{}, ErrUnauthorized
		}
		return Page{}, errors.Wrap(err, "getting student")
	}
	if stu.BranchName != filter.BranchName || stu.BatchName != filter.BatchName {
		return Page{}, ErrUnauthorized
	}
	return svc.Query(ctx, filter, pg)
}
