package helpers

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes a redis client
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// RedisSessions keeps one hash per login session, keyed by session id.
type RedisSessions struct {
	rdb *redis.Client
}

func NewRedisSessions(rdb *redis.Client) *RedisSessions {
	return &RedisSessions{rdb: rdb}
}

func sessionKey(sid string) string { return "user:session:" + sid }

func nowRFC3339() string { return time.Now().UTC().Format(time.RFC3339Nano) }

func (s *RedisSessions) Save(ctx context.Context, sid, userID, username, role string, ttl time.Duration) error {
	key := sessionKey(sid)
	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"user_id":    userID,
		"username":   username,
		"role":       role,
		"sid":        sid,
		"created_at": nowRFC3339(),
	})
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Valid reports whether sid is a live session belonging to userID.
func (s *RedisSessions) Valid(ctx context.Context, sid, userID string) (bool, error) {
	uid, err := s.rdb.HGet(ctx, sessionKey(sid), "user_id").Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return uid == userID, nil
}

func (s *RedisSessions) Delete(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, sessionKey(sid)).Err()
}
