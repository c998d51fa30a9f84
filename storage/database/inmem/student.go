package inmemdb

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/classcodehub/codehub/core/student"
)

type studentRepository struct {
	db *studentTable
}

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) CreateStudent(_ context.Context, s student.Student) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	return repo.insert(s), nil
}

func (repo *studentRepository) insert(s student.Student) student.Student {
	s.ID = uuid.New().String()
	repo.db.rows = append(repo.db.rows, s)
	return s
}

func (repo *studentRepository) CreateStudentIfAbsent(_ context.Context, s student.Student) (bool, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, row := range repo.db.rows {
		if row.Name == s.Name && row.BranchName == s.BranchName && row.BatchName == s.BatchName {
			return false, nil
		}
	}
	repo.insert(s)
	return true, nil
}

func (repo *studentRepository) GetStudent(_ context.Context, filter student.GetFilter) (student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, row := range repo.db.rows {
		switch {
		case filter.ID != "":
			if row.ID == filter.ID {
				return row, nil
			}
		case filter.Email != "":
			if row.Email == filter.Email {
				return row, nil
			}
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) QueryStudents(_ context.Context, filter student.QueryFilter) ([]student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	students := make([]student.Student, 0)
	for _, row := range repo.db.rows {
		if strings.EqualFold(row.BranchName, filter.BranchName) && strings.EqualFold(row.BatchName, filter.BatchName) {
			students = append(students, row)
		}
	}
	return students, nil
}

func (repo *studentRepository) UpdatePassword(_ context.Context, id string, hash []byte) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for i := range repo.db.rows {
		if repo.db.rows[i].ID == id {
			repo.db.rows[i].PasswordHash = hash
			return nil
		}
	}
	return student.ErrNotFound
}
