package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/push-server/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	m := NewMemory(0)
	m.now = func() time.Time { return now }

	t.Run("TTL 안에서는 조회된다", func(t *testing.T) {
		require.NoError(t, m.Set(ctx, "products:p1:name", "Amoxicillin", time.Minute))

		v, ok, err := m.Get(ctx, "products:p1:name")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "Amoxicillin", v)
	})

	t.Run("만료되면 미스이고 항목이 제거된다", func(t *testing.T) {
		require.NoError(t, m.Set(ctx, "k", "v", time.Second))
		now = now.Add(2 * time.Second)

		_, ok, err := m.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("TTL이 0이면 저장하지 않는다", func(t *testing.T) {
		require.NoError(t, m.Set(ctx, "zero", "v", 0))
		_, ok, _ := m.Get(ctx, "zero")
		assert.False(t, ok)
	})
}

func TestMemory_MaxEntries(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(3)

	for i := 0; i < 10; i++ {
		require.NoError(t, m.Set(ctx, fmt.Sprintf("k%d", i), "v", time.Minute))
	}
	assert.LessOrEqual(t, m.Len(), 3)

	v, ok, _ := m.Get(ctx, "k9")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestNop(t *testing.T) {
	var c Cache = Nop{}
	require.NoError(t, c.Set(context.Background(), "k", "v", time.Minute))
	_, ok, err := c.Get(context.Background(), "k")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestNewRedis_InvalidURL(t *testing.T) {
	_, err := NewRedis(context.Background(), "not-a-url", "push:", time.Second)
	assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
}
