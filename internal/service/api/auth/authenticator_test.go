package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/darkkaiser/push-server/internal/config"
	"github.com/darkkaiser/push-server/internal/service/api/model/response"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testApplications() []config.ApplicationConfig {
	return []config.ApplicationConfig{
		{ID: "webhook", Title: "데이터베이스 웹훅", AppKey: "key-webhook"},
		{ID: "admin", Title: "관리 도구", AppKey: "key-admin"},
	}
}

// =============================================================================
// Authenticate
// =============================================================================

func TestAuthenticator_Authenticate(t *testing.T) {
	authenticator := NewAuthenticator(testApplications())

	tests := []struct {
		name    string
		appKey  string
		wantID  string
		wantErr bool
	}{
		{"첫 번째 애플리케이션", "key-webhook", "webhook", false},
		{"두 번째 애플리케이션", "key-admin", "admin", false},
		{"등록되지 않은 키", "key-unknown", "", true},
		{"빈 키", "", "", true},
		{"접두사만 일치", "key-", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, err := authenticator.Authenticate(tt.appKey)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, app)

				var he *echo.HTTPError
				require.ErrorAs(t, err, &he)
				assert.Equal(t, http.StatusUnauthorized, he.Code)
				assert.IsType(t, response.ErrorResponse{}, he.Message)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, app.ID)
		})
	}
}

func TestAuthenticator_NoApplications(t *testing.T) {
	authenticator := NewAuthenticator(nil)

	_, err := authenticator.Authenticate("anything")
	assert.Error(t, err)
}

// =============================================================================
// Context
// =============================================================================

func TestApplicationContext(t *testing.T) {
	e := echo.New()

	t.Run("저장 후 조회", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		app := &Application{ID: "webhook"}

		SetApplication(c, app)

		got, ok := GetApplication(c)
		require.True(t, ok)
		assert.Same(t, app, got)
	})

	t.Run("저장되지 않은 경우", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

		got, ok := GetApplication(c)
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("다른 타입이 저장된 경우", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.Set(contextKeyApplication, "webhook")

		_, ok := GetApplication(c)
		assert.False(t, ok)
	})
}
