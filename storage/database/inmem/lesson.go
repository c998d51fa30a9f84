package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/classcodehub/codehub/core/lesson"
)

type lessonRepository struct {
	db *lessonTable
}

func NewLessonRepository(db *DB) lesson.Repository {
	return &lessonRepository{db: db.lesson}
}

func (repo *lessonRepository) CreateLesson(_ context.Context, l lesson.Lesson) (lesson.Lesson, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	l.ID = uuid.New().String()
	l.StudentsName = copyStrings(l.StudentsName)
	l.FileNames = copyStrings(l.FileNames)
	repo.db.rows = append(repo.db.rows, l)
	return l, nil
}

func (repo *lessonRepository) filter(f lesson.QueryFilter) []lesson.Lesson {
	lessons := make([]lesson.Lesson, 0)
	for _, row := range repo.db.rows {
		if f.BranchName != "" && row.BranchName != f.BranchName {
			continue
		}
		if f.BatchName != "" && row.BatchName != f.BatchName {
			continue
		}
		lessons = append(lessons, row)
	}
	return lessons
}

func (repo *lessonRepository) QueryLessons(_ context.Context, f lesson.QueryFilter, offset, limit int) ([]lesson.Lesson, error) {
	repo.db.mutex.RLock()
	lessons := repo.filter(f)
	repo.db.mutex.RUnlock()

	// stable: equal dates keep upload order
	sort.SliceStable(lessons, func(i, j int) bool { return lessons[i].CreatedDate > lessons[j].CreatedDate })

	if offset >= len(lessons) {
		return []lesson.Lesson{}, nil
	}
	end := offset + limit
	if end > len(lessons) {
		end = len(lessons)
	}
	return lessons[offset:end], nil
}

func (repo *lessonRepository) CountLessons(_ context.Context, f lesson.QueryFilter) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return len(repo.filter(f)), nil
}
