package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/classcodehub/codehub/core"
	"github.com/classcodehub/codehub/core/session"
)

const sessionCtxKey = "session"

// Session is the server-side session of the current request.
// Anonymous requests get an empty Session.
type Session struct {
	ID       string
	Identity session.Identity
}

func (s *Session) Authenticated() bool { return s.ID != "" }

type sessionManager struct {
	store      session.Store
	logger     core.Logger
	cookieName string
	ttl        time.Duration
	secure     bool
}

func newSessionManager(store session.Store, conf *core.Config, logger core.Logger) *sessionManager {
	return &sessionManager{
		store:      store,
		logger:     logger,
		cookieName: conf.Session.CookieName,
		ttl:        conf.Session.TTL,
		secure:     conf.Session.Secure,
	}
}

// currentSession never returns nil.
func currentSession(ctx echo.Context) *Session {
	if sess, ok := ctx.Get(sessionCtxKey).(*Session); ok {
		return sess
	}
	return &Session{}
}

func (m *sessionManager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// establish replaces the current session with a new one holding `ident`.
func (m *sessionManager) establish(ctx echo.Context, ident session.Identity) error {
	sess := currentSession(ctx)
	if sess.Authenticated() {
		if err := m.store.Delete(ctx.Request().Context(), sess.ID); err != nil {
			return errors.Wrap(err, "dropping previous session")
		}
	}

	id := session.NewID()
	if err := m.store.Save(ctx.Request().Context(), id, ident, m.ttl); err != nil {
		return errors.Wrap(err, "saving session")
	}
	ctx.SetCookie(m.cookie(id, int(m.ttl/time.Second)))
	ctx.Set(sessionCtxKey, &Session{ID: id, Identity: ident})
	return nil
}

// destroy drops the current session, if any, and expires its cookie.
func (m *sessionManager) destroy(ctx echo.Context) error {
	sess := currentSession(ctx)
	if !sess.Authenticated() {
		return nil
	}
	if err := m.store.Delete(ctx.Request().Context(), sess.ID); err != nil {
		return errors.Wrap(err, "deleting session")
	}
	ctx.SetCookie(m.cookie("", -1))
	ctx.Set(sessionCtxKey, &Session{})
	return nil
}
