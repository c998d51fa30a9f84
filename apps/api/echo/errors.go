package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/classcodehub/codehub/core"
)

const internalErrorText = "Internal server error"

var (
	errUnauthorized       = echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	errStudentNotFound    = echo.NewHTTPError(http.StatusNotFound, "Student not found")
	errInvalidPassword    = echo.NewHTTPError(http.StatusUnauthorized, "Invalid password")
	errEmailRegistered    = echo.NewHTTPError(http.StatusBadRequest, "Email already registered")
	errMissingBranchBatch = echo.NewHTTPError(http.StatusBadRequest, "Missing branchname or batchname")
	errMissingFields      = echo.NewHTTPError(http.StatusBadRequest, "Missing required fields")
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core integrity error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var (
			code int
			body echo.Map
		)

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			body = echo.Map{"message": origErr.Message}
		case *core.ValidationError:
			code = http.StatusBadRequest
			body = echo.Map{"message": origErr.Error()}
			if flds := origErr.FieldMap(); flds != nil {
				body["errors"] = flds
			}
		default: // any other error is a server error
			code = http.StatusInternalServerError
			body = echo.Map{"error": internalErrorText}
			if ctx.Echo().Debug {
				body["detail"] = err.Error()
			}

			logger.Error(internalErrorText, errors.Wrap(err, ctx.Request().Method+" "+ctx.Path()), currentSession(ctx).Identity)

			// shutting down...
			if core.IsIntegrityFailure(err) {
				signalShutdown()
			}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, body)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
