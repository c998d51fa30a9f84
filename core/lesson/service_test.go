package lesson_test

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classcodehub/codehub/core"
	"github.com/classcodehub/codehub/core/lesson"
	"github.com/classcodehub/codehub/core/student"
	"github.com/classcodehub/codehub/storage/database/inmem"
	"github.com/classcodehub/codehub/storage/files/disk"
	"github.com/classcodehub/codehub/testutil"
)

type env struct {
	svc      *lesson.Service
	db       *inmemdb.DB
	students *student.Service
	files    *disk.Storage
	logger   *testutil.LoggerMock
}

func setup(t *testing.T, repo ...lesson.Repository) env {
	db := inmemdb.Open()
	files, err := disk.New(t.TempDir())
	require.NoError(t, err)

	lessonRepo := inmemdb.NewLessonRepository(db)
	if len(repo) > 0 {
		lessonRepo = repo[0]
	}
	e := env{
		db:       db,
		students: student.NewService(inmemdb.NewStudentRepository(db)),
		files:    files,
		logger:   new(testutil.LoggerMock),
	}
	e.svc = lesson.NewService(lessonRepo, e.students, files, e.logger)
	return e
}

func attachment(name, content string) lesson.Attachment {
	return lesson.Attachment{
		Filename: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func uploadedFiles(t *testing.T, dir string) []string {
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestService_Upload(t *testing.T) {
	ctx := context.Background()
	e := setup(t)

	l, err := e.svc.Upload(ctx, lesson.NewLesson{
		BranchName:   "CS",
		BatchName:    "B1",
		CreatedDate:  "2024-05-01",
		TopicName:    "Pointers",
		ClassType:    "live",
		StudentsName: []string{"Alice ", " alice", "Bob"},
		Files:        []lesson.Attachment{attachment("a.pdf", "a"), attachment("b.pdf", "b")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, l.StudentsName)
	assert.Equal(t, "CS", l.BranchName, "lesson keeps names as sent")
	require.Len(t, l.FileNames, 2)
	assert.True(t, strings.HasSuffix(l.FileNames[0], "-a.pdf"))
	assert.ElementsMatch(t, l.FileNames, uploadedFiles(t, e.files.Dir()))

	students, err := e.students.QueryByBranchBatch(ctx, "cs", "B1")
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "cs", students[0].BranchName)

	// re-upload does not duplicate students
	_, err = e.svc.Upload(ctx, lesson.NewLesson{BranchName: "cs", BatchName: "B1", StudentsName: []string{"ALICE", "carol"}})
	require.NoError(t, err)
	students, err = e.students.QueryByBranchBatch(ctx, "cs", "B1")
	require.NoError(t, err)
	assert.Len(t, students, 3)
}

type failingRepo struct {
	lesson.Repository
}

func (failingRepo) CreateLesson(context.Context, lesson.Lesson) (lesson.Lesson, error) {
	return lesson.Lesson{}, errors.New("db down")
}

func TestService_Upload_cleanup(t *testing.T) {
	ctx := context.Background()
	e := setup(t, failingRepo{})

	_, err := e.svc.Upload(ctx, lesson.NewLesson{
		BranchName:   "cs",
		BatchName:    "B1",
		StudentsName: []string{"dan"},
		Files:        []lesson.Attachment{attachment("a.pdf", "a")},
	})
	require.Error(t, err)
	assert.Empty(t, uploadedFiles(t, e.files.Dir()))

	students, err := e.students.QueryByBranchBatch(ctx, "cs", "B1")
	require.NoError(t, err)
	assert.Len(t, students, 1, "created students are kept")

	broken := lesson.Attachment{Filename: "x", Open: func() (io.ReadCloser, error) { return nil, errors.New("gone") }}
	_, err = e.svc.Upload(ctx, lesson.NewLesson{Files: []lesson.Attachment{attachment("b.pdf", "b"), broken}})
	require.Error(t, err)
	assert.Empty(t, uploadedFiles(t, e.files.Dir()))
}

func TestService_Query(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	repo := inmemdb.NewLessonRepository(e.db)

	for i := 0; i < 12; i++ {
		testutil.CreateLesson(t, repo, "topic", "2024-01-01", "cs", "B1")
	}
	testutil.CreateLesson(t, repo, "topic", "2024-01-01", "ee", "B1")

	tests := []struct {
		name      string
		filter    lesson.QueryFilter
		page      core.Pagination
		wantLen   int
		wantTotal int
		wantPages int
	}{
		{name: "second page", filter: lesson.QueryFilter{BranchName: "cs"}, page: core.NewPagination("2", "5"), wantLen: 5, wantTotal: 12, wantPages: 3},
		{name: "last page", filter: lesson.QueryFilter{BranchName: "cs"}, page: core.NewPagination("3", "5"), wantLen: 2, wantTotal: 12, wantPages: 3},
		{name: "beyond", filter: lesson.QueryFilter{BranchName: "cs"}, page: core.NewPagination("9", "5"), wantLen: 0, wantTotal: 12, wantPages: 3},
		{name: "no filter", page: core.NewPagination("", ""), wantLen: 5, wantTotal: 13, wantPages: 3},
		{name: "nothing", filter: lesson.QueryFilter{BatchName: "B9"}, page: core.NewPagination("1", "5"), wantLen: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pg, err := e.svc.Query(ctx, tt.filter, tt.page)
			require.NoError(t, err)
			assert.NotNil(t, pg.Lessons)
			assert.Len(t, pg.Lessons, tt.wantLen)
			assert.Equal(t, tt.wantTotal, pg.Total)
			assert.Equal(t, tt.wantPages, pg.Pages)
			assert.Equal(t, tt.page.Page, pg.Page)
		})
	}
}

func TestService_QueryForStudent(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	testutil.CreateStudent(t, inmemdb.NewStudentRepository(e.db), "ann", "ann@test.cd", "pwd", "cs", "B1")
	testutil.CreateLesson(t, inmemdb.NewLessonRepository(e.db), "topic", "2024-01-01", "cs", "B1")
	pg := core.NewPagination("", "")

	got, err := e.svc.QueryForStudent(ctx, "ann@test.cd", lesson.QueryFilter{BranchName: "cs", BatchName: "B1"}, pg)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Total)

	tests := []struct {
		name   string
		email  string
		filter lesson.QueryFilter
	}{
		{name: "unknown student", email: "bob@test.cd", filter: lesson.QueryFilter{BranchName: "cs", BatchName: "B1"}},
		{name: "other batch", email: "ann@test.cd", filter: lesson.QueryFilter{BranchName: "cs", BatchName: "B2"}},
		{name: "case differs", email: "ann@test.cd", filter: lesson.QueryFilter{BranchName: "CS", BatchName: "B1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.QueryForStudent(ctx, tt.email, tt.filter, pg)
			assert.Equal(t, lesson.ErrUnauthorized, err)
		})
	}
}

func TestNewLesson_Validate(t *testing.T) {
	v := core.NewValidator()

	nl := lesson.NewLesson{BranchName: " CS ", BatchName: "B1"}
	require.NoError(t, nl.Validate(v))
	assert.Equal(t, " CS ", nl.BranchName, "kept as sent")

	tests := []struct {
		name      string
		nl        lesson.NewLesson
		wantField string
	}{
		{name: "no branch", nl: lesson.NewLesson{BatchName: "B1"}, wantField: "branchname"},
		{name: "blank batch", nl: lesson.NewLesson{BranchName: "cs", BatchName: "  "}, wantField: "batchname"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nl.Validate(v)
			vErr, ok := err.(*core.ValidationError)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, "invalid lesson data", vErr.Error())
			assert.Contains(t, vErr.FieldMap(), tt.wantField)
		})
	}
}
