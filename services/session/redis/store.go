// Package redisstore keeps sessions in Redis, one JSON value per key with the session TTL.
package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/classcodehub/codehub/core"
	"github.com/classcodehub/codehub/core/session"
)

const keyPrefix = "sess:"

type Store struct {
	client *redis.Client
}

var _ session.Store = (*Store)(nil)

func NewClient(conf *core.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
}

// Open connects to Redis and checks the connection.
func Open(ctx context.Context, conf *core.Config) (*Store, error) {
	client := NewClient(conf)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return New(client), nil
}

func New(client *redis.Client) *Store {
	return &Store{client: client}
}

func key(id string) string { return keyPrefix + id }

func (s *Store) Get(ctx context.Context, id string) (session.Identity, error) {
	data, err := s.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return session.Identity{}, session.ErrNotFound
		}
		return session.Identity{}, errors.Wrap(err, "getting session")
	}

	var ident session.Identity
	if err = json.Unmarshal(data, &ident); err != nil {
		return session.Identity{}, errors.Wrap(err, "decoding session")
	}
	return ident, nil
}

func (s *Store) Save(ctx context.Context, id string, ident session.Identity, ttl time.Duration) error {
	data, err := json.Marshal(ident)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	if err = s.client.Set(ctx, key(id), data, ttl).Err(); err != nil {
		return errors.Wrap(err, "saving session")
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return errors.Wrap(err, "deleting session")
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
