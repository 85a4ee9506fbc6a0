package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/push-server/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadBody(t *testing.T) {
	t.Run("성공 응답과 헤더 전달", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		defer srv.Close()

		body, err := ReadBody(context.Background(), New(time.Second), Request{
			Method: http.MethodPost,
			URL:    srv.URL,
			Header: map[string]string{"Authorization": "Bearer abc"},
			Body:   strings.NewReader("x"),
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"ok":true}`, string(body))
	})

	tests := []struct {
		name     string
		status   int
		wantType apperrors.ErrorType
	}{
		{"4xx는 실행 실패", http.StatusBadRequest, apperrors.ExecutionFailed},
		{"5xx는 일시 장애", http.StatusServiceUnavailable, apperrors.Unavailable},
		{"429는 일시 장애", http.StatusTooManyRequests, apperrors.Unavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":{"status":"X"}}`))
			}))
			defer srv.Close()

			_, err := ReadBody(context.Background(), NewHTTPFetcher(time.Second), Request{URL: srv.URL})
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, tt.wantType))

			statusErr, ok := StatusError(err)
			require.True(t, ok)
			assert.Equal(t, tt.status, statusErr.StatusCode)
			assert.JSONEq(t, `{"error":{"status":"X"}}`, string(statusErr.Body))
		})
	}

	t.Run("context 마감은 Timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := ReadBody(ctx, NewHTTPFetcher(time.Second), Request{URL: srv.URL})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.Timeout))
	})
}

func TestRedactURL(t *testing.T) {
	u, err := url.Parse("https://user:pw@example.com/rest/v1/products?id=eq.1&apikey=secret&select=name")
	require.NoError(t, err)

	got := redactURL(u)
	assert.NotContains(t, got, "secret")
	assert.NotContains(t, got, "pw")
	assert.Contains(t, got, "select=name")
	assert.Contains(t, got, "apikey=xxxxx")
}

func TestHTTPStatusError(t *testing.T) {
	long := strings.Repeat("a", bodySnippetLimit+10)
	err := &HTTPStatusError{StatusCode: 500, Status: "500 Internal Server Error", Body: []byte(long)}

	assert.True(t, strings.HasSuffix(err.BodySnippet(), "..."))
	assert.True(t, err.Temporary())
	assert.Contains(t, err.Error(), "HTTP 500")
	assert.False(t, (&HTTPStatusError{StatusCode: 404}).Temporary())
}
