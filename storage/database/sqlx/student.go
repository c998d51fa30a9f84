package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/classcodehub/codehub/core/student"
)

const studentColumns = `id, name, email, password, branchname, batchname, created_at`

type studentRow struct {
	ID         string     `db:"id"`
	Name       string     `db:"name"`
	Email      string     `db:"email"`
	Password   null.Bytes `db:"password"`
	BranchName string     `db:"branchname"`
	BatchName  string     `db:"batchname"`
	CreatedAt  time.Time  `db:"created_at"`
}

func (r studentRow) student() student.Student {
	return student.Student{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.Password.Bytes,
		BranchName:   r.BranchName,
		BatchName:    r.BatchName,
		CreatedAt:    r.CreatedAt.UTC(),
	}
}

func newStudentRow(s student.Student) studentRow {
	return studentRow{
		ID:         s.ID,
		Name:       s.Name,
		Email:      s.Email,
		Password:   null.NewBytes(s.PasswordHash, len(s.PasswordHash) > 0),
		BranchName: s.BranchName,
		BatchName:  s.BatchName,
		CreatedAt:  s.CreatedAt.UTC(),
	}
}

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to student.ErrNotFound
func (repo studentRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return student.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo studentRepository) CreateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	s.ID = uuid.New().String()
	q := `INSERT INTO student (` + studentColumns + `)
		VALUES (:id, :name, :email, :password, :branchname, :batchname, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, newStudentRow(s)); err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return s, nil
}

func (repo studentRepository) CreateStudentIfAbsent(ctx context.Context, s student.Student) (bool, error) {
	s.ID = uuid.New().String()
	row := newStudentRow(s)
	// the partial unique index resolves concurrent inserts of the same placeholder
	q := `INSERT INTO student (` + studentColumns + `)
		SELECT $1::uuid, $2::text, $3::text, $4::bytea, $5::text, $6::text, $7::timestamptz
		WHERE NOT EXISTS (
			SELECT 1 FROM student WHERE name = $2 AND branchname = $5 AND batchname = $6
		)
		ON CONFLICT DO NOTHING`
	res, err := repo.db.ExecContext(ctx, q,
		row.ID, row.Name, row.Email, row.Password, row.BranchName, row.BatchName, row.CreatedAt)
	if err != nil {
		return false, errors.Wrap(err, "inserting student if absent")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "counting inserted students")
	}
	return n > 0, nil
}

func (repo studentRepository) GetStudent(ctx context.Context, filter student.GetFilter) (student.Student, error) {
	var (
		row  studentRow
		err  error
		base = `SELECT ` + studentColumns + ` FROM student `
	)
	switch {
	case filter.ID != "":
		if _, err = uuid.Parse(filter.ID); err != nil {
			return student.Student{}, student.ErrNotFound
		}
		err = repo.db.GetContext(ctx, &row, base+`WHERE id = $1`, filter.ID)
	case filter.Email != "":
		err = repo.db.GetContext(ctx, &row, base+`WHERE email = $1 ORDER BY seq LIMIT 1`, filter.Email)
	default:
		return student.Student{}, student.ErrNotFound
	}
	if err != nil {
		return student.Student{}, repo.trapNoRowsErr(err, "finding student")
	}
	return row.student(), nil
}

func (repo studentRepository) QueryStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error) {
	var rows []studentRow
	q := `SELECT ` + studentColumns + ` FROM student
		WHERE lower(branchname) = lower($1) AND lower(batchname) = lower($2)
		ORDER BY seq`
	if err := repo.db.SelectContext(ctx, &rows, q, filter.BranchName, filter.BatchName); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.student())
	}
	return students, nil
}

func (repo studentRepository) UpdatePassword(ctx context.Context, id string, hash []byte) error {
	res, err := repo.db.ExecContext(ctx, `UPDATE student SET password = $1 WHERE id = $2`, hash, id)
	if err != nil {
		return errors.Wrap(err, "updating password")
	}
	if n, err := res.RowsAffected(); err != nil {
		return errors.Wrap(err, "updating password")
	} else if n == 0 {
		return student.ErrNotFound
	}
	return nil
}
