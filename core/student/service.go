package student

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/classcodehub/codehub/core"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound        = errors.New("student not found")
	ErrEmailExists     = errors.New("email already registered")
	ErrInvalidPassword = errors.New("invalid password")
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, s Student) (Student, error)
		// CreateStudentIfAbsent inserts `s` unless a Student with the same name already exists in the same
		// branch and batch. It reports whether `s` was inserted. The check and the insert are atomic.
		CreateStudentIfAbsent(ctx context.Context, s Student) (bool, error)
		// GetStudent returns ErrNotFound when nothing matches, and the first created Student when several do.
		GetStudent(ctx context.Context, filter GetFilter) (Student, error)
		QueryStudents(ctx context.Context, filter QueryFilter) ([]Student, error)
		UpdatePassword(ctx context.Context, id string, hash []byte) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// PlaceholderEmail synthesizes the email of a Student created from a lesson roster.
func PlaceholderEmail(name string, t time.Time) string {
	return fmt.Sprintf("%s-%d@example.com", name, t.UnixNano()/int64(time.Millisecond))
}

// Signup stores a new Student. `ns` must have been validated.
func (svc *Service) Signup(ctx context.Context, ns NewStudent) (Student, error) {
	if _, err := svc.repo.GetStudent(ctx, GetFilter{Email: ns.Email}); err == nil {
		return Student{}, ErrEmailExists
	} else if err != ErrNotFound {
		return Student{}, err
	}

	s := Student{
		Name:       ns.Name,
		Email:      ns.Email,
		BranchName: ns.BranchName,
		BatchName:  ns.BatchName,
		CreatedAt:  NowFunc().UTC(),
	}
	if err := s.SetPassword(ns.Password); err != nil {
		return Student{}, err
	}
	return svc.repo.CreateStudent(ctx, s)
}

// Authenticate returns the Student owning `email` if `pwd` matches.
func (svc *Service) Authenticate(ctx context.Context, email, pwd string) (Student, error) {
	s, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return Student{}, err
	}
	if err = s.CheckPassword(pwd); err != nil {
		return Student{}, err
	}
	return s, nil
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Student, error) {
	return svc.repo.GetStudent(ctx, GetFilter{Email: core.CleanString(email, true /* lower */)})
}

// QueryByBranchBatch lists the students of a batch, ignoring case on both names.
func (svc *Service) QueryByBranchBatch(ctx context.Context, branch, batch string) ([]Student, error) {
	return svc.repo.QueryStudents(ctx, QueryFilter{
		BranchName: core.CleanString(branch),
		BatchName:  core.CleanString(batch),
	})
}

// EnsureRoster makes sure every named student exists in the batch, creating placeholders for the missing ones.
// Names are lowered, trimmed and de-duplicated first. It returns the number of created students.
func (svc *Service) EnsureRoster(ctx context.Context, names []string, branch, batch string) (int, error) {
	branch = core.CleanString(branch, true /* lower */)
	batch = core.CleanString(batch)

	var created int
	for _, name := range core.UniqueNames(names) {
		now := NowFunc()
		ok, err := svc.repo.CreateStudentIfAbsent(ctx, Student{
			Name:       name,
			Email:      PlaceholderEmail(name, now),
			BranchName: branch,
			BatchName:  batch,
			CreatedAt:  now.UTC(),
		})
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	return created, nil
}

func (svc *Service) ResetPassword(ctx context.Context, email, pwd string) error {
	s, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err = s.SetPassword(pwd); err != nil {
		return err
	}
	return svc.repo.UpdatePassword(ctx, s.ID, s.PasswordHash)
}
