package cache

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/darkkaiser/push-server/internal/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Redis 여러 인스턴스가 공유하는 캐시입니다. 모든 키에 prefix가 붙습니다.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// NewRedis redis://, rediss:// 형식의 URL로 클라이언트를 생성하고 연결을 확인합니다.
func NewRedis(ctx context.Context, rawURL, prefix string, connectTimeout time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, "Redis 접속 URL을 해석할 수 없습니다")
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, apperrors.Wrap(err, apperrors.Unavailable, "Redis 연결 확인에 실패했습니다")
	}

	return NewRedisWithClient(client, prefix), nil
}

// NewRedisWithClient 이미 생성된 클라이언트를 사용합니다.
func NewRedisWithClient(client redis.UniversalClient, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

// Get 키가 없으면(redis.Nil) 에러 없이 false를 반환합니다.
func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, apperrors.Wrap(err, apperrors.Unavailable, "Redis 조회에 실패했습니다")
	}
	return v, true, nil
}

// Set ttl이 0 이하이면 저장하지 않습니다.
func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.prefix+key, value, ttl).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.Unavailable, "Redis 저장에 실패했습니다")
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
