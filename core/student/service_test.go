package student_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classcodehub/codehub/core"
	"github.com/classcodehub/codehub/core/student"
	"github.com/classcodehub/codehub/storage/database/inmem"
)

func newService() (*student.Service, student.Repository) {
	repo := inmemdb.NewStudentRepository(inmemdb.Open())
	return student.NewService(repo), repo
}

func validNewStudent() student.NewStudent {
	return student.NewStudent{
		Name:       " Ann ",
		Email:      " Ann@Test.CD ",
		Password:   "pwd",
		BranchName: " CS ",
		BatchName:  " B1 ",
	}
}

func TestNewStudent_Validate(t *testing.T) {
	v := core.NewValidator()

	ns := validNewStudent()
	require.NoError(t, ns.Validate(v))
	assert.Equal(t, "Ann", ns.Name)
	assert.Equal(t, "ann@test.cd", ns.Email)
	assert.Equal(t, "cs", ns.BranchName)
	assert.Equal(t, "B1", ns.BatchName)

	ns = student.NewStudent{Name: "  ", Email: "nope"}
	err := ns.Validate(v)
	require.Error(t, err)
	vErr, ok := err.(*core.ValidationError)
	require.True(t, ok)
	assert.Equal(t, map[string]string{
		"name":       "this field is required",
		"password":   "this field is required",
		"branchname": "this field is required",
		"batchname":  "this field is required",
	}, vErr.FieldMap(), "email format is not checked")
}

func TestService_SignupAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	ns := validNewStudent()
	require.NoError(t, ns.Validate(core.NewValidator()))
	stu, err := svc.Signup(ctx, ns)
	require.NoError(t, err)
	assert.NotEmpty(t, stu.ID)
	assert.NotEqual(t, []byte("pwd"), stu.PasswordHash)

	_, err = svc.Signup(ctx, ns)
	assert.Equal(t, student.ErrEmailExists, err)

	got, err := svc.Authenticate(ctx, "ANN@test.cd", "pwd")
	require.NoError(t, err)
	assert.Equal(t, stu.ID, got.ID)
	assert.Equal(t, "cs", got.Identity().BranchName)

	_, err = svc.Authenticate(ctx, "ann@test.cd", "bad")
	assert.Equal(t, student.ErrInvalidPassword, err)
	_, err = svc.Authenticate(ctx, "bob@test.cd", "pwd")
	assert.Equal(t, student.ErrNotFound, err)
}

func TestService_EnsureRoster(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	fixed := time.UnixMilli(1700000000000)
	student.NowFunc = func() time.Time { return fixed }
	defer func() { student.NowFunc = time.Now }()

	created, err := svc.EnsureRoster(ctx, []string{"Alice ", " alice", "", "Bob"}, " CS ", " B1 ")
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	created, err = svc.EnsureRoster(ctx, []string{"alice", "carol"}, "cs", "B1")
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	students, err := svc.QueryByBranchBatch(ctx, "cs", "b1")
	require.NoError(t, err)
	require.Len(t, students, 3)
	assert.Equal(t, "alice", students[0].Name)
	assert.Equal(t, "alice-1700000000000@example.com", students[0].Email)
	assert.Equal(t, "cs", students[0].BranchName)
	assert.Equal(t, "B1", students[0].BatchName)
	assert.False(t, students[0].HasPassword())

	// placeholders cannot log in
	_, err = svc.Authenticate(ctx, students[0].Email, "")
	assert.Equal(t, student.ErrInvalidPassword, err)
}

func TestService_ResetPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	_, err := svc.EnsureRoster(ctx, []string{"dan"}, "cs", "B1")
	require.NoError(t, err)
	students, err := svc.QueryByBranchBatch(ctx, "cs", "B1")
	require.NoError(t, err)
	require.Len(t, students, 1)
	email := students[0].Email

	require.NoError(t, svc.ResetPassword(ctx, strings.ToUpper(email), "new-pwd"))
	_, err = svc.Authenticate(ctx, email, "new-pwd")
	assert.NoError(t, err)

	assert.Equal(t, student.ErrNotFound, svc.ResetPassword(ctx, "nobody@test.cd", "x"))
}

func TestPlaceholderEmail(t *testing.T) {
	assert.Equal(t, "eve-1500@example.com", student.PlaceholderEmail("eve", time.UnixMilli(1500)))
}
