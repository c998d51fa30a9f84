// Package inmemstore keeps sessions in process memory.
package inmemstore

import (
	"context"
	"sync"
	"time"

	"github.com/classcodehub/codehub/core/session"
)

var nowFunc = time.Now // mockable

type entry struct {
	ident   session.Identity
	expires time.Time
}

type Store struct {
	mu       sync.RWMutex
	sessions map[string]entry
}

var _ session.Store = (*Store)(nil)

func New() *Store {
	return &Store{sessions: make(map[string]entry)}
}

func (s *Store) Get(_ context.Context, id string) (session.Identity, error) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return session.Identity{}, session.ErrNotFound
	}
	if !nowFunc().Before(e.expires) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return session.Identity{}, session.ErrNotFound
	}
	return e.ident, nil
}

func (s *Store) Save(_ context.Context, id string, ident session.Identity, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = entry{ident: ident, expires: nowFunc().Add(ttl)}
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *Store) Close() error { return nil }

// Len is the number of stored sessions, expired ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
