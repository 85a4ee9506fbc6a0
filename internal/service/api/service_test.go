package api

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/darkkaiser/push-server/internal/config"
	"github.com/darkkaiser/push-server/internal/pkg/version"
	"github.com/darkkaiser/push-server/internal/service/contract"
	"github.com/darkkaiser/push-server/internal/testutil"
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

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) Handle(ctx context.Context, ev contract.ChangeEvent, target contract.Target) (contract.Report, error) {
	args := m.Called(ctx, ev, target)
	return args.Get(0).(contract.Report), args.Error(1)
}

func (m *mockProcessor) HandleCustom(ctx context.Context, title, message string, target contract.Target) (contract.Report, error) {
	args := m.Called(ctx, title, message, target)
	return args.Get(0).(contract.Report), args.Error(1)
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

func testAPIConfig(port int) config.APIConfig {
	cfg := config.Default().API
	cfg.ListenPort = port
	cfg.Applications = []config.ApplicationConfig{
		{ID: "webhook", Title: "데이터베이스 웹훅", AppKey: "test-app-key"},
	}
	return cfg
}

// =============================================================================
// Routing
// =============================================================================

func TestService_Routes(t *testing.T) {
	processor := &mockProcessor{}
	processor.On("Handle", mock.Anything, mock.Anything, contract.Target{Topic: "news"}).
		Return(contract.Report{SuccessCount: 1, Total: 1, Category: "new"}, nil)

	s := NewService(testAPIConfig(0), false, Dependencies{
		Processor: processor,
		BuildInfo: version.Info{Version: "v1.0.0"},
	})
	e := s.setupServer()

	tests := []struct {
		name     string
		method   string
		target   string
		appKey   string
		body     string
		wantCode int
		contains string
	}{
		{"헬스체크는 인증 불필요", http.MethodGet, "/health", "", "", http.StatusOK, `"status":"healthy"`},
		{"버전 정보", http.MethodGet, "/version", "", "", http.StatusOK, `"version":"v1.0.0"`},
		{"이벤트 처리", http.MethodPost, "/api/v1/events?topic=news", "test-app-key",
			`{"type":"INSERT","table":"books","record":{"id":"b1"}}`, http.StatusOK, `"category":"new"`},
		{"App Key 누락", http.MethodPost, "/api/v1/events", "",
			`{"type":"INSERT","table":"books","record":{"id":"b1"}}`, http.StatusUnauthorized, `"result_code":401`},
		{"잘못된 App Key", http.MethodPost, "/api/v1/events", "wrong",
			`{"type":"INSERT","table":"books","record":{"id":"b1"}}`, http.StatusUnauthorized, `"result_code":401`},
		{"없는 경로", http.MethodGet, "/unknown", "", "", http.StatusNotFound, `"result_code":404`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			if tt.appKey != "" {
				req.Header.Set("X-App-Key", tt.appKey)
			}
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.contains)
		})
	}

	t.Run("JSON이 아닌 본문은 415", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader("type=INSERT"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("X-App-Key", "test-app-key")
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("보안 헤더", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Empty(t, rec.Header().Get("Server"))
		assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	})
}

// =============================================================================
// Lifecycle
// =============================================================================

func TestService_StartAndShutdown(t *testing.T) {
	port := testutil.FreePort(t)
	s := NewService(testAPIConfig(port), false, Dependencies{Processor: &mockProcessor{}})

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	wg.Add(1)
	require.NoError(t, s.Start(ctx, wg))

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/health", port))
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	t.Run("중복 시작은 무시", func(t *testing.T) {
		wg.Add(1)
		assert.NoError(t, s.Start(ctx, wg))
	})

	cancel()
	wg.Wait()

	s.runningMu.Lock()
	assert.False(t, s.running)
	s.runningMu.Unlock()

	http.DefaultClient.CloseIdleConnections()
}

func TestService_StartTLS(t *testing.T) {
	port := testutil.FreePort(t)
	certFile, keyFile := testutil.SelfSignedCert(t)

	cfg := testAPIConfig(port)
	cfg.TLSServer = true
	cfg.TLSCertFile = certFile
	cfg.TLSKeyFile = keyFile

	s := NewService(cfg, false, Dependencies{Processor: &mockProcessor{}})

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	wg.Add(1)
	require.NoError(t, s.Start(ctx, wg))

	testutil.WaitForServer(t, port, 5*time.Second)

	transport := &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}}
	client := &http.Client{Transport: transport, Timeout: 5 * time.Second}

	resp, err := client.Get(fmt.Sprintf("https://127.0.0.1:%d/version", port))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	transport.CloseIdleConnections()
	cancel()
	wg.Wait()
}

func TestService_PortInUseAlerts(t *testing.T) {
	l, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer l.Close()

	notifier := &recordingNotifier{}
	s := NewService(testAPIConfig(l.Addr().(*net.TCPAddr).Port), false, Dependencies{
		Processor: &mockProcessor{},
		Alerter:   notifier,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wg := &sync.WaitGroup{}
	wg.Add(1)
	require.NoError(t, s.Start(ctx, wg))

	// 서버가 스스로 종료되므로 취소 없이 끝납니다.
	wg.Wait()

	require.Len(t, notifier.Messages(), 1)
	assert.Contains(t, notifier.Messages()[0], "치명적인 오류")
}

func TestNewService_RequiresProcessor(t *testing.T) {
	assert.Panics(t, func() {
		NewService(testAPIConfig(0), false, Dependencies{})
	})
}
