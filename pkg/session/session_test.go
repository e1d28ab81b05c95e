package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := New(db, time.Hour)
	s.newID = func() string { return "sid-1" }

	mock.ExpectSet("session:sid-1", "alice", time.Hour).SetVal("OK")
	sid, err := s.Create(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "sid-1", sid)

	mock.ExpectSet("session:sid-1", "bob", time.Hour).SetErr(errors.New("down"))
	_, err = s.Create(context.Background(), "bob")
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUser(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := New(db, time.Hour)
	ctx := context.Background()

	mock.ExpectGet("session:sid-1").SetVal("alice")
	user, err := s.User(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user)

	mock.ExpectGet("session:expired").RedisNil()
	_, err = s.User(ctx, "expired")
	assert.ErrorIs(t, err, ErrNotFound)

	mock.ExpectGet("session:broken").SetErr(errors.New("down"))
	_, err = s.User(ctx, "broken")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}
