// Package sessionstore keeps conversation sessions in Redis. A session
// expires after an idle TTL, which the conversation treats as a cancel.
package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"barber-booking/internal/domain/conversation"
	"barber-booking/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

var ErrCorruptSession = errs.New("stored session cannot be decoded")

type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
	prefix string
}

func NewRedisStore(client redis.Cmdable, ttl time.Duration, prefix string) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, prefix: prefix}
}

// Load returns nil without error when the user has no live session.
func (s *RedisStore) Load(ctx context.Context, userID int64) (*conversation.Session, error) {
	raw, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(err, "load session")
	}

	var sess conversation.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, errs.Mark(errs.Wrap(err, "decode session"), ErrCorruptSession)
	}
	return &sess, nil
}

// Save writes the session and restarts its idle timer.
func (s *RedisStore) Save(ctx context.Context, sess *conversation.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return errs.Wrap(err, "encode session")
	}
	if err := s.client.Set(ctx, s.key(sess.UserID), raw, s.ttl).Err(); err != nil {
		return errs.Wrap(err, "save session")
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return errs.Wrap(err, "delete session")
	}
	return nil
}

func (s *RedisStore) key(userID int64) string {
	return s.prefix + strconv.FormatInt(userID, 10)
}
