package middleware

import (
	"github.com/darkkaiser/push-server/internal/service/api/auth"
	"github.com/darkkaiser/push-server/internal/service/api/constants"
	applog "github.com/darkkaiser/push-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// queryParamAppKey 레거시 호출자를 위한 App Key 쿼리 파라미터
const queryParamAppKey = "app_key"

// RequireAuthentication App Key로 호출자를 인증하는 미들웨어를 반환합니다.
//
// App Key는 X-App-Key 헤더에서 읽고, 없으면 app_key 쿼리 파라미터를 사용합니다.
// 인증된 애플리케이션은 auth.SetApplication으로 Context에 저장됩니다.
//
// Panics:
//   - authenticator가 nil인 경우
func RequireAuthentication(authenticator *auth.Authenticator) echo.MiddlewareFunc {
	if authenticator == nil {
		panic("Authenticator는 필수입니다")
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			appKey := extractAppKey(c)
			if appKey == "" {
				return ErrAppKeyRequired
			}

			app, err := authenticator.Authenticate(appKey)
			if err != nil {
				return err
			}

			auth.SetApplication(c, app)

			return next(c)
		}
	}
}

func extractAppKey(c echo.Context) string {
	appKey := c.Request().Header.Get(constants.HeaderAppKey)
	if appKey != "" {
		return appKey
	}

	appKey = c.QueryParam(queryParamAppKey)
	if appKey != "" {
		applog.WithComponentAndFields(constants.ComponentMiddlewareAuthentication, applog.Fields{
			"method":    c.Request().Method,
			"path":      c.Path(),
			"remote_ip": c.RealIP(),
		}).Warn("보안 경고: 쿼리 파라미터로 App Key 전달됨 (헤더 사용 권장)")
	}
	return appKey
}
