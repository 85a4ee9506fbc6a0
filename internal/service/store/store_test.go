package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/push-server/internal/pkg/errors"
	"github.com/darkkaiser/push-server/internal/service/fetcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPostgREST(t *testing.T, handler http.HandlerFunc) *PostgREST {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewPostgREST(srv.URL+"/", "service-key", fetcher.NewHTTPFetcher(time.Second))
}

func TestPostgREST_FetchRow(t *testing.T) {
	t.Run("행 조회", func(t *testing.T) {
		s := newTestPostgREST(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/rest/v1/users", r.URL.Path)
			assert.Equal(t, "eq.d1", r.URL.Query().Get("id"))
			assert.Equal(t, "full_name,username", r.URL.Query().Get("select"))
			assert.Equal(t, "service-key", r.Header.Get("apikey"))
			assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))

			_, _ = w.Write([]byte(`[{"full_name":"Vet Store","username":"vet"}]`))
		})

		row, err := s.FetchRow(context.Background(), "users", "d1", "full_name", "username")
		require.NoError(t, err)
		assert.Equal(t, "Vet Store", row["full_name"])
		assert.Equal(t, "vet", row["username"])
	})

	t.Run("빈 결과는 NotFound", func(t *testing.T) {
		s := newTestPostgREST(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		})

		_, err := s.FetchRow(context.Background(), "products", "p1", "name")
		assert.True(t, apperrors.Is(err, apperrors.NotFound))
	})

	t.Run("JSON이 아닌 응답", func(t *testing.T) {
		s := newTestPostgREST(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		})

		_, err := s.FetchRow(context.Background(), "products", "p1", "name")
		assert.True(t, apperrors.Is(err, apperrors.ParsingFailed))
	})

	t.Run("서버 오류", func(t *testing.T) {
		s := newTestPostgREST(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := s.FetchRow(context.Background(), "products", "p1", "name")
		assert.True(t, apperrors.Is(err, apperrors.Unavailable))
	})

	t.Run("허용되지 않는 식별자", func(t *testing.T) {
		s := NewPostgREST("http://127.0.0.1:1", "k", fetcher.NewHTTPFetcher(time.Second))

		_, err := s.FetchRow(context.Background(), "products;drop", "p1")
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))

		_, err = s.FetchRow(context.Background(), "products", "p1", "name,price")
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
	})
}

func TestPostgREST_DeleteOlderThan(t *testing.T) {
	cutoff := time.Date(2026, 10, 9, 3, 0, 0, 0, time.UTC)

	s := newTestPostgREST(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/rest/v1/offers", r.URL.Path)
		assert.Equal(t, "lt.2026-10-09T03:00:00Z", r.URL.Query().Get("created_at"))
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

		_, _ = w.Write([]byte(`[{"id":1},{"id":2},{"id":3}]`))
	})

	deleted, err := s.DeleteOlderThan(context.Background(), "offers", "created_at", cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
}

func TestSelectByIDQuery(t *testing.T) {
	assert.Equal(t,
		`SELECT "full_name", "username" FROM "users" WHERE id::text = $1 LIMIT 1`,
		selectByIDQuery("users", []string{"full_name", "username"}))
	assert.Equal(t,
		`SELECT * FROM "products" WHERE id::text = $1 LIMIT 1`,
		selectByIDQuery("products", nil))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "mongo"})
	assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
}
