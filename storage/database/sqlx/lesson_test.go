package sqlxrepos

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classcodehub/codehub/core/lesson"
)

func TestLessonRepository_where(t *testing.T) {
	repo := lessonRepository{}
	tests := []struct {
		name     string
		filter   lesson.QueryFilter
		wantSQL  string
		wantArgs []interface{}
	}{
		{name: "none"},
		{
			name: "branch", filter: lesson.QueryFilter{BranchName: "cs"},
			wantSQL: " WHERE branchname = $1", wantArgs: []interface{}{"cs"},
		},
		{
			name: "batch", filter: lesson.QueryFilter{BatchName: "B1"},
			wantSQL: " WHERE batchname = $1", wantArgs: []interface{}{"B1"},
		},
		{
			name: "both", filter: lesson.QueryFilter{BranchName: "cs", BatchName: "B1"},
			wantSQL: " WHERE branchname = $1 AND batchname = $2", wantArgs: []interface{}{"cs", "B1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := repo.where(tt.filter)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestLessonRow_lesson(t *testing.T) {
	l := lessonRow{ID: "1", StudentsName: pq.StringArray{"ann"}}.lesson()
	assert.Equal(t, []string{"ann"}, l.StudentsName)
	assert.Equal(t, []string{}, l.FileNames)
}

var lessonCols = []string{"id", "branchname", "batchname", "studentsname", "createddate", "topicname", "filenames", "classtype", "uploaded_at"}

func TestLessonRepository_QueryLessons(t *testing.T) {
	_, repo, mock := newMock(t)
	ctx := context.Background()
	now := time.Now().UTC()

	rows := sqlmock.NewRows(lessonCols).
		AddRow("1", "cs", "B1", `{alice,bob}`, "2024-05-02", "Maps", `{}`, "live", now).
		AddRow("2", "cs", "B1", `{}`, "2024-05-01", "Slices", `{1700000000000-a.pdf}`, "live", now)
	mock.ExpectQuery(regexp.QuoteMeta(
		`FROM lesson WHERE branchname = $1 AND batchname = $2 ORDER BY createddate COLLATE "C" DESC, seq ASC LIMIT $3 OFFSET $4`,
	)).WithArgs("cs", "B1", 5, 10).WillReturnRows(rows)

	lessons, err := repo.QueryLessons(ctx, lesson.QueryFilter{BranchName: "cs", BatchName: "B1"}, 10, 5)
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.Equal(t, []string{"alice", "bob"}, lessons[0].StudentsName)
	assert.Equal(t, []string{}, lessons[0].FileNames)
	assert.Equal(t, []string{"1700000000000-a.pdf"}, lessons[1].FileNames)

	// no filter
	mock.ExpectQuery(regexp.QuoteMeta(`FROM lesson ORDER BY createddate COLLATE "C" DESC, seq ASC LIMIT $1 OFFSET $2`)).
		WithArgs(5, 0).
		WillReturnRows(sqlmock.NewRows(lessonCols))
	lessons, err = repo.QueryLessons(ctx, lesson.QueryFilter{}, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, []lesson.Lesson{}, lessons)
}

func TestLessonRepository_CountLessons(t *testing.T) {
	_, repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM lesson WHERE batchname = $1`)).
		WithArgs("B1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	n, err := repo.CountLessons(context.Background(), lesson.QueryFilter{BatchName: "B1"})
	require.NoError(t, err)
	assert.Equal(t, 12, n)
}

func TestLessonRepository_CreateLesson(t *testing.T) {
	_, repo, mock := newMock(t)

	mock.ExpectExec(`INSERT INTO lesson`).
		WithArgs(sqlmock.AnyArg(), "CS", "B1", pq.StringArray{"alice"}, "2024-05-01", "Maps", pq.StringArray{}, "live", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	l, err := repo.CreateLesson(context.Background(), lesson.Lesson{
		BranchName:   "CS",
		BatchName:    "B1",
		StudentsName: []string{"alice"},
		CreatedDate:  "2024-05-01",
		TopicName:    "Maps",
		FileNames:    []string{},
		ClassType:    "live",
		UploadedAt:   time.Now(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, l.ID)
}
