// Package session keeps login sessions in Redis.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound indicates the session id is unknown or expired.
var ErrNotFound = errors.New("session not found")

const keyPrefix = "session:"

// Store issues and resolves session ids.
type Store struct {
	client redis.Cmdable
	ttl    time.Duration
	newID  func() string
}

// New returns a Store whose sessions expire after ttl.
func New(client redis.Cmdable, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl, newID: uuid.NewString}
}

// TTL returns how long a session lives.
func (s *Store) TTL() time.Duration { return s.ttl }

// Create starts a session for user and returns its id.
func (s *Store) Create(ctx context.Context, user string) (string, error) {
	sid := s.newID()
	if err := s.client.Set(ctx, keyPrefix+sid, user, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return sid, nil
}

// User returns the user owning the session.
func (s *Store) User(ctx context.Context, sid string) (string, error) {
	user, err := s.client.Get(ctx, keyPrefix+sid).Result()
	if errors.Is(err, redis.Nil) || (err == nil && user == "") {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	return user, nil
}
