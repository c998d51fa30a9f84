package sqlxrepos

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/classcodehub/codehub/core/lesson"
)

const lessonColumns = `id, branchname, batchname, studentsname, createddate, topicname, filenames, classtype, uploaded_at`

type lessonRow struct {
	ID           string         `db:"id"`
	BranchName   string         `db:"branchname"`
	BatchName    string         `db:"batchname"`
	StudentsName pq.StringArray `db:"studentsname"`
	CreatedDate  string         `db:"createddate"`
	TopicName    string         `db:"topicname"`
	FileNames    pq.StringArray `db:"filenames"`
	ClassType    string         `db:"classtype"`
	UploadedAt   time.Time      `db:"uploaded_at"`
}

func (r lessonRow) lesson() lesson.Lesson {
	l := lesson.Lesson{
		ID:           r.ID,
		BranchName:   r.BranchName,
		BatchName:    r.BatchName,
		StudentsName: []string(r.StudentsName),
		CreatedDate:  r.CreatedDate,
		TopicName:    r.TopicName,
		FileNames:    []string(r.FileNames),
		ClassType:    r.ClassType,
		UploadedAt:   r.UploadedAt.UTC(),
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
	db *sqlx.DB
}

var _ lesson.Repository = (*lessonRepository)(nil) // interface compliance check

func NewLessonRepository(db *sqlx.DB) *lessonRepository {
	return &lessonRepository{db: db}
}

func (repo lessonRepository) CreateLesson(ctx context.Context, l lesson.Lesson) (lesson.Lesson, error) {
	l.ID = uuid.New().String()
	l.UploadedAt = l.UploadedAt.UTC()
	row := lessonRow{
		ID:           l.ID,
		BranchName:   l.BranchName,
		BatchName:    l.BatchName,
		StudentsName: pq.StringArray(l.StudentsName),
		CreatedDate:  l.CreatedDate,
		TopicName:    l.TopicName,
		FileNames:    pq.StringArray(l.FileNames),
		ClassType:    l.ClassType,
		UploadedAt:   l.UploadedAt,
	}
	q := `INSERT INTO lesson (` + lessonColumns + `)
		VALUES (:id, :branchname, :batchname, :studentsname, :createddate, :topicname, :filenames, :classtype, :uploaded_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return lesson.Lesson{}, errors.Wrap(err, "inserting lesson")
	}
	return l, nil
}

// where builds the WHERE clause of `f`, starting placeholders at $1.
func (repo lessonRepository) where(f lesson.QueryFilter) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	if f.BranchName != "" {
		args = append(args, f.BranchName)
		conds = append(conds, fmt.Sprintf("branchname = $%d", len(args)))
	}
	if f.BatchName != "" {
		args = append(args, f.BatchName)
		conds = append(conds, fmt.Sprintf("batchname = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (repo lessonRepository) QueryLessons(ctx context.Context, f lesson.QueryFilter, offset, limit int) ([]lesson.Lesson, error) {
	where, args := repo.where(f)
	args = append(args, limit, offset)
	q := fmt.Sprintf(
		`SELECT %s FROM lesson%s ORDER BY createddate COLLATE "C" DESC, seq ASC LIMIT $%d OFFSET $%d`,
		lessonColumns, where, len(args)-1, len(args),
	)

	var rows []lessonRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying lessons")
	}
	lessons := make([]lesson.Lesson, 0, len(rows))
	for _, r := range rows {
		lessons = append(lessons, r.lesson())
	}
	return lessons, nil
}

func (repo lessonRepository) CountLessons(ctx context.Context, f lesson.QueryFilter) (int, error) {
	where, args := repo.where(f)
	var n int
	if err := repo.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM lesson`+where, args...); err != nil {
		return 0, errors.Wrap(err, "counting lessons")
	}
	return n, nil
}
