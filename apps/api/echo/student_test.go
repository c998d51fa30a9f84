package echoapi_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classcodehub/codehub/core/session"
	"github.com/classcodehub/codehub/core/student"
	"github.com/classcodehub/codehub/testutil"
)

func TestStudentApi_signup(t *testing.T) {
	env := setup(t)
	testutil.CreateStudent(t, env.students, "Taken", "taken@test.cd", "pwd", "cs", "B1")

	body := func(name, email, pwd, branchName, batchName string) []byte {
		return marshalObj(t, map[string]string{
			"name": name, "email": email, "password": pwd, "branchname": branchName, "batchname": batchName,
		})
	}

	env.run(t, []httpTest{
		{
			name: "missing fields", method: http.MethodPost, path: "/signup", body: []byte(`{"name":"Ann"}`),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]interface{}{
				"message": "invalid signup data",
				"errors": map[string]string{
					"email":      "this field is required",
					"password":   "this field is required",
					"branchname": "this field is required",
					"batchname":  "this field is required",
				},
			}),
		},
		{
			name: "malformed JSON", method: http.MethodPost, path: "/signup", body: []byte(`{"name":`),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "email taken", method: http.MethodPost, path: "/signup",
			body:     body("Other", " TAKEN@test.cd", "pwd", "cs", "B1"),
			wantCode: http.StatusBadRequest, wantData: message(t, "Email already registered"),
		},
		{
			name: "success", method: http.MethodPost, path: "/signup",
			body:     body("Ann", "Ann@Test.cd", "secret", "CS", "B1"),
			wantCode: http.StatusOK, wantData: message(t, "Signup successful"),
		},
		{
			name: "email not checked for format", method: http.MethodPost, path: "/signup",
			body:     body("Dan", "dan at home", "secret", "cs", "B1"),
			wantCode: http.StatusOK, wantData: message(t, "Signup successful"),
		},
	})

	stu, err := env.students.GetStudent(context.Background(), student.GetFilter{Email: "ann@test.cd"})
	require.NoError(t, err)
	assert.Equal(t, "cs", stu.BranchName)
	assert.NoError(t, stu.CheckPassword("secret"))
}

func TestStudentApi_signupThenLogin(t *testing.T) {
	env := setup(t)

	req, rec := newRequest(http.MethodPost, "/signup", marshalObj(t, map[string]string{
		"name": "Ann", "email": "ann@test.cd", "password": "secret", "branchname": "cs", "batchname": "B1",
	}))
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req, rec = newRequest(http.MethodPost, "/login", []byte(`{"email":"ann@test.cd","password":"secret"}`))
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"email":"ann@test.cd","batchname":"B1","branchname":"cs"}`, rec.Body.String())

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.False(t, cookie.Secure)

	ident, err := env.sessions.Get(context.Background(), cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, session.Identity{Email: "ann@test.cd", BatchName: "B1", BranchName: "cs"}, ident)
}

func TestStudentApi_login(t *testing.T) {
	env := setup(t)
	testutil.CreateStudent(t, env.students, "ann", "ann@test.cd", "secret", "cs", "B1")
	testutil.CreateStudent(t, env.students, "bob", "bob-1@example.com", "", "cs", "B1") // roster placeholder

	tests := []httpTest{
		{
			name: "missing fields", path: "/login", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]interface{}{
				"message": "invalid credentials",
				"errors":  map[string]string{"email": "this field is required", "password": "this field is required"},
			}),
		},
		{
			name: "unknown student", path: "/login", body: []byte(`{"email":"nobody@test.cd","password":"x"}`),
			wantCode: http.StatusNotFound, wantData: message(t, "Student not found"),
		},
		{
			name: "wrong password", path: "/login", body: []byte(`{"email":"ann@test.cd","password":"nope"}`),
			wantCode: http.StatusUnauthorized, wantData: message(t, "Invalid password"),
		},
		{
			name: "placeholder without password", path: "/login", body: []byte(`{"email":"bob-1@example.com","password":"x"}`),
			wantCode: http.StatusUnauthorized, wantData: message(t, "Invalid password"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, tt.path, tt.body)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
			assert.Nil(t, sessionCookie(rec), "no session on failure")
		})
	}
	assert.Equal(t, 0, env.sessions.Len())
}

func TestStudentApi_loginRegeneratesSession(t *testing.T) {
	env := setup(t)
	testutil.CreateStudent(t, env.students, "ann", "ann@test.cd", "secret", "cs", "B1")

	login := func(prev *http.Cookie) *http.Cookie {
		req, rec := newRequest(http.MethodPost, "/login", []byte(`{"email":"ann@test.cd","password":"secret"}`))
		if prev != nil {
			req.AddCookie(prev)
		}
		env.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		c := sessionCookie(rec)
		require.NotNil(t, c)
		return c
	}

	first := login(nil)
	second := login(first)
	assert.NotEqual(t, first.Value, second.Value)

	ctx := context.Background()
	_, err := env.sessions.Get(ctx, first.Value)
	assert.Equal(t, session.ErrNotFound, err)
	_, err = env.sessions.Get(ctx, second.Value)
	assert.NoError(t, err)
}

func TestStudentApi_logout(t *testing.T) {
	env := setup(t)
	testutil.CreateStudent(t, env.students, "ann", "ann@test.cd", "secret", "cs", "B1")

	req, rec := newRequest(http.MethodPost, "/login", []byte(`{"email":"ann@test.cd","password":"secret"}`))
	env.server.ServeHTTP(rec, req)
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)

	req, rec = newRequest(http.MethodPost, "/logout")
	req.AddCookie(cookie)
	env.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Logged out"}`, rec.Body.String())
	expired := sessionCookie(rec)
	require.NotNil(t, expired)
	assert.True(t, expired.MaxAge < 0)
	assert.Equal(t, 0, env.sessions.Len())

	// anonymous and stale sessions log out too
	env.run(t, []httpTest{
		{name: "anonymous", method: http.MethodPost, path: "/logout", wantCode: http.StatusOK, wantData: message(t, "Logged out")},
	})
	req, rec = newRequest(http.MethodPost, "/logout")
	req.AddCookie(cookie)
	env.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStudentApi_queryByBranchBatch(t *testing.T) {
	env := setup(t)
	ann := testutil.CreateStudent(t, env.students, "ann", "ann@test.cd", "secret", "cs", "B1")
	testutil.CreateStudent(t, env.students, "bob", "bob@test.cd", "secret", "cs", "B2")
	testutil.CreateStudent(t, env.students, "eve", "eve@test.cd", "secret", "c.s", "B1")

	env.run(t, []httpTest{
		{
			name: "missing batch", path: "/students-by-branch-batch?branchname=cs",
			wantCode: http.StatusBadRequest, wantData: message(t, "Missing branchname or batchname"),
		},
		{
			name: "missing branch", path: "/students-by-branch-batch?batchname=B1",
			wantCode: http.StatusBadRequest, wantData: message(t, "Missing branchname or batchname"),
		},
		{
			name: "case insensitive", path: "/students-by-branch-batch?branchname=CS&batchname=b1",
			wantCode: http.StatusOK, wantData: marshalObj(t, []student.Student{ann}),
		},
		{
			name: "literal match", path: "/students-by-branch-batch?branchname=c.&batchname=B1",
			wantCode: http.StatusOK, wantData: []byte(`[]`),
		},
	})
}

func TestStudentJSONHidesPassword(t *testing.T) {
	env := setup(t)
	testutil.CreateStudent(t, env.students, "ann", "ann@test.cd", "secret", "cs", "B1")

	req, rec := newRequest(http.MethodGet, "/students-by-branch-batch?branchname=cs&batchname=B1")
	env.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "Password")
}
