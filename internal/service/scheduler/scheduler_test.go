package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/darkkaiser/push-server/internal/config"
	apperrors "github.com/darkkaiser/push-server/internal/pkg/errors"
	"github.com/darkkaiser/push-server/internal/service/credential"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// =============================================================================
// Test Helpers
// =============================================================================

type mockTokenSource struct {
	mock.Mock
}

func (m *mockTokenSource) AccessToken(ctx context.Context) (credential.AccessToken, error) {
	args := m.Called(ctx)
	return args.Get(0).(credential.AccessToken), args.Error(1)
}

type mockPurger struct {
	mock.Mock
}

func (m *mockPurger) DeleteOlderThan(ctx context.Context, table, column string, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, table, column, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (r *recordingNotifier) Notify(_ context.Context, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

func (r *recordingNotifier) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

func testConfig() config.SchedulerConfig {
	cfg := config.Default().Scheduler
	cfg.Enabled = true
	return cfg
}

// =============================================================================
// Lifecycle
// =============================================================================

func TestScheduler_StartStop(t *testing.T) {
	tests := []struct {
		name        string
		tokens      TokenSource
		purger      Purger
		wantEntries int
	}{
		{"모든 작업 등록", &mockTokenSource{}, &mockPurger{}, 2},
		{"토큰 작업만", &mockTokenSource{}, nil, 1},
		{"정리 작업만", nil, &mockPurger{}, 1},
		{"등록할 작업 없음", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewService(testConfig(), tt.tokens, tt.purger, nil)

			ctx, cancel := context.WithCancel(context.Background())
			wg := &sync.WaitGroup{}
			wg.Add(1)
			require.NoError(t, s.Start(ctx, wg))

			s.runningMu.Lock()
			assert.True(t, s.running)
			assert.Len(t, s.cron.Entries(), tt.wantEntries)
			s.runningMu.Unlock()

			cancel()
			wg.Wait()

			s.runningMu.Lock()
			assert.False(t, s.running)
			assert.Nil(t, s.cron)
			s.runningMu.Unlock()
		})
	}
}

func TestScheduler_StartTwice(t *testing.T) {
	s := NewService(testConfig(), &mockTokenSource{}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	wg.Add(2)
	require.NoError(t, s.Start(ctx, wg))
	require.NoError(t, s.Start(ctx, wg))

	cancel()
	wg.Wait()
}

func TestScheduler_InvalidSpec(t *testing.T) {
	cfg := testConfig()
	cfg.PurgeSpec = "not a cron"
	s := NewService(cfg, nil, &mockPurger{}, nil)

	wg := &sync.WaitGroup{}
	wg.Add(1)
	err := s.Start(context.Background(), wg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a cron")

	// Start가 실패하면 WaitGroup을 즉시 해제합니다.
	wg.Wait()
	assert.False(t, s.running)
}

func TestScheduler_RunsOnSchedule(t *testing.T) {
	called := make(chan struct{}, 1)
	tokens := &mockTokenSource{}
	tokens.On("AccessToken", mock.Anything).Return(credential.AccessToken{Value: "tok"}, nil).Run(func(mock.Arguments) {
		select {
		case called <- struct{}{}:
		default:
		}
	})

	cfg := testConfig()
	cfg.TokenWarmupSpec = "@every 1s"
	s := NewService(cfg, tokens, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	wg.Add(1)
	require.NoError(t, s.Start(ctx, wg))

	select {
	case <-called:
	case <-time.After(3 * time.Second):
		t.Fatal("토큰 선발급 작업이 실행되지 않았습니다")
	}

	cancel()
	wg.Wait()
}

// =============================================================================
// Jobs
// =============================================================================

func TestScheduler_WarmupToken(t *testing.T) {
	t.Run("성공", func(t *testing.T) {
		tokens := &mockTokenSource{}
		tokens.On("AccessToken", mock.Anything).Return(credential.AccessToken{Value: "tok", ExpiresAt: time.Now().Add(time.Hour)}, nil).Once()

		NewService(testConfig(), tokens, nil, nil).warmupToken()

		tokens.AssertExpectations(t)
	})

	t.Run("실패해도 알림을 보내지 않음", func(t *testing.T) {
		tokens := &mockTokenSource{}
		tokens.On("AccessToken", mock.Anything).Return(credential.AccessToken{}, apperrors.New(apperrors.CredentialFailed, "invalid_grant")).Once()
		notifier := &recordingNotifier{}

		NewService(testConfig(), tokens, nil, notifier).warmupToken()

		tokens.AssertExpectations(t)
		assert.Empty(t, notifier.Messages())
	})
}

func TestScheduler_PurgeExpiredOffers(t *testing.T) {
	now := time.Date(2026, 10, 16, 3, 30, 0, 0, time.UTC)

	t.Run("보존 기간 이전 레코드 삭제", func(t *testing.T) {
		purger := &mockPurger{}
		purger.On("DeleteOlderThan", mock.Anything, "offers", "created_at", now.Add(-168*time.Hour)).Return(int64(12), nil).Once()
		notifier := &recordingNotifier{}

		s := NewService(testConfig(), nil, purger, notifier)
		s.now = func() time.Time { return now }
		s.purgeExpiredOffers()

		purger.AssertExpectations(t)
		assert.Empty(t, notifier.Messages())
	})

	t.Run("보존 기간 설정 반영", func(t *testing.T) {
		cfg := testConfig()
		cfg.OfferRetention = 24 * time.Hour

		purger := &mockPurger{}
		purger.On("DeleteOlderThan", mock.Anything, "offers", "created_at", now.Add(-24*time.Hour)).Return(int64(0), nil).Once()

		s := NewService(cfg, nil, purger, nil)
		s.now = func() time.Time { return now }
		s.purgeExpiredOffers()

		purger.AssertExpectations(t)
	})

	t.Run("실패 시 운영자 알림", func(t *testing.T) {
		purger := &mockPurger{}
		purger.On("DeleteOlderThan", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(int64(0), errors.New("permission denied for table offers")).Once()
		notifier := &recordingNotifier{}

		s := NewService(testConfig(), nil, purger, notifier)
		s.now = func() time.Time { return now }
		s.purgeExpiredOffers()

		require.Len(t, notifier.Messages(), 1)
		assert.Contains(t, notifier.Messages()[0], "만료된 할인 정리 작업이 실패하였습니다")
		assert.Contains(t, notifier.Messages()[0], "permission denied")
	})
}
