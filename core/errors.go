package core

import "github.com/pkg/errors"

// FieldError is a failed rule on one request field, named by its JSON or query key.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is a rejected request payload. The API answers it with a 400.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func NewValidationError(msg string, flds ...FieldError) *ValidationError {
	return &ValidationError{Message: msg, Fields: flds}
}

func (err *ValidationError) Error() string {
	return err.Message
}

// FieldMap returns the field errors keyed by field name, or nil when there are none.
func (err *ValidationError) FieldMap() map[string]string {
	if len(err.Fields) == 0 {
		return nil
	}
	m := make(map[string]string, len(err.Fields))
	for _, fe := range err.Fields {
		m[fe.Field] = fe.Error
	}
	return m
}

// integrityError is broken runtime state no request can succeed against,
// such as an upload directory removed underneath the running server.
type integrityError struct {
	component string
	err       error
}

// NewIntegrityError marks `err` as an integrity failure of `component`.
// The API shuts down gracefully when one reaches its error handler.
func NewIntegrityError(component string, err error) error {
	return &integrityError{component: component, err: err}
}

func (e *integrityError) Error() string {
	return e.component + " integrity: " + e.err.Error()
}

func (e *integrityError) Unwrap() error { return e.err }

// IsIntegrityFailure tells whether an integrity error is at the root of the errors.Wrap chain of `err`.
func IsIntegrityFailure(err error) bool {
	_, ok := errors.Cause(err).(*integrityError)
	return ok
}
