package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/push-server/internal/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryHook GET/SET 명령을 서버 대신 메모리에서 처리하는 go-redis 훅
type memoryHook struct {
	mu     sync.Mutex
	values map[string]string
	ttls   map[string]time.Duration
	fail   error
}

func newMemoryHook() *memoryHook {
	return &memoryHook{values: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (h *memoryHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *memoryHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (h *memoryHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		h.mu.Lock()
		defer h.mu.Unlock()

		if h.fail != nil {
			cmd.SetErr(h.fail)
			return h.fail
		}

		args := cmd.Args()
		switch c := cmd.(type) {
		case *redis.StringCmd:
			v, ok := h.values[args[1].(string)]
			if !ok {
				c.SetErr(redis.Nil)
				return redis.Nil
			}
			c.SetVal(v)

		case *redis.StatusCmd:
			key := args[1].(string)
			h.values[key] = args[2].(string)
			if len(args) == 5 {
				switch args[3] {
				case "ex":
					h.ttls[key] = time.Duration(args[4].(int64)) * time.Second
				case "px":
					h.ttls[key] = time.Duration(args[4].(int64)) * time.Millisecond
				}
			}
			c.SetVal("OK")

		default:
			return next(ctx, cmd)
		}
		return nil
	}
}

func newTestRedis(t *testing.T) (*Redis, *memoryHook) {
	t.Helper()

	hook := newMemoryHook()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	client.AddHook(hook)

	r := NewRedisWithClient(client, "push:")
	t.Cleanup(func() { _ = r.Close() })

	return r, hook
}

func TestRedis(t *testing.T) {
	ctx := context.Background()

	t.Run("저장 후 조회", func(t *testing.T) {
		r, hook := newTestRedis(t)

		require.NoError(t, r.Set(ctx, "name:products:p1", "Amoxicillin", 5*time.Minute))

		v, ok, err := r.Get(ctx, "name:products:p1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "Amoxicillin", v)

		assert.Equal(t, "Amoxicillin", hook.values["push:name:products:p1"], "키에 prefix가 붙어야 합니다")
		assert.Equal(t, 5*time.Minute, hook.ttls["push:name:products:p1"])
	})

	t.Run("없는 키", func(t *testing.T) {
		r, _ := newTestRedis(t)

		v, ok, err := r.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	t.Run("TTL이 0 이하면 저장하지 않음", func(t *testing.T) {
		r, hook := newTestRedis(t)

		require.NoError(t, r.Set(ctx, "k", "v", 0))
		require.NoError(t, r.Set(ctx, "k", "v", -time.Second))
		assert.Empty(t, hook.values)
	})

	t.Run("Redis 오류는 Unavailable", func(t *testing.T) {
		r, hook := newTestRedis(t)
		hook.fail = errors.New("connection refused")

		_, _, err := r.Get(ctx, "k")
		assert.True(t, apperrors.Is(err, apperrors.Unavailable))

		err = r.Set(ctx, "k", "v", time.Minute)
		assert.True(t, apperrors.Is(err, apperrors.Unavailable))
	})
}
