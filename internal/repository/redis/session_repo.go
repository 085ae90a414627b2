package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"MyHome/internal/repository"

	"github.com/redis/go-redis/v9"
)

const SessionTokenPrefix = "myhome:session"

var ErrRedisUnavailable = errors.New("redis unavailable")

// SessionRepository 每个用户只保存当前一个登录令牌
type SessionRepository struct {
	RDB *redis.Client
}

func sessionKey(userID string) string {
	return fmt.Sprintf("%s:%s", SessionTokenPrefix, userID)
}

func (r *SessionRepository) Save(ctx context.Context, userID, token string, ttl time.Duration) error {
	if err := r.RDB.Set(ctx, sessionKey(userID), token, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, userID string) (string, error) {
	token, err := r.RDB.Get(ctx, sessionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", repository.ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return token, nil
}

// Delete 删除不存在的会话不算错误
func (r *SessionRepository) Delete(ctx context.Context, userID string) error {
	if err := r.RDB.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
