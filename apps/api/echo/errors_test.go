package echoapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/classcodehub/codehub/core"
	"github.com/classcodehub/codehub/testutil"
)

func TestAppHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantCode     int
		wantBody     string
		wantLogged   bool
		wantShutdown bool
	}{
		{
			name: "http error", err: errors.Wrap(errStudentNotFound, "wrapped"),
			wantCode: http.StatusNotFound, wantBody: `{"message":"Student not found"}`,
		},
		{
			name:     "validation error",
			err:      core.NewValidationError("bad", core.FieldError{Field: "email", Error: "this field is required"}),
			wantCode: http.StatusBadRequest, wantBody: `{"message":"bad","errors":{"email":"this field is required"}}`,
		},
		{
			name: "validation error without fields", err: core.NewValidationError("bad"),
			wantCode: http.StatusBadRequest, wantBody: `{"message":"bad"}`,
		},
		{
			name: "internal error", err: errors.New("db down"),
			wantCode: http.StatusInternalServerError, wantBody: `{"error":"Internal server error"}`, wantLogged: true,
		},
		{
			name: "integrity error", err: errors.Wrap(core.NewIntegrityError("upload storage", errors.New("gone")), "uploading lesson"),
			wantCode: http.StatusInternalServerError, wantBody: `{"error":"Internal server error"}`,
			wantLogged: true, wantShutdown: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := new(testutil.LoggerMock)
			var shutdown bool
			handler := newAppHTTPErrorHandler(logger, func() { shutdown = true })

			e := echo.New()
			rec := httptest.NewRecorder()
			ctx := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			handler(tt.err, ctx)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, tt.wantLogged, len(logger.Logged()) > 0)
			assert.Equal(t, tt.wantShutdown, shutdown)
		})
	}
}
