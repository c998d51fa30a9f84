package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/classcodehub/codehub/core/session"
)

// middleware loads the session named by the request cookie.
// Unknown or expired sessions leave the request anonymous.
func (m *sessionManager) middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess := &Session{}
			if c, err := ctx.Cookie(m.cookieName); err == nil && c.Value != "" {
				ident, err := m.store.Get(ctx.Request().Context(), c.Value)
				switch {
				case err == nil:
					sess = &Session{ID: c.Value, Identity: ident}
				case errors.Cause(err) != session.ErrNotFound:
					m.logger.Warn("loading session", err)
				}
			}
			ctx.Set(sessionCtxKey, sess)
			return next(ctx)
		}
	}
}
