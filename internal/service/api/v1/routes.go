// Package v1 /api/v1 경로의 엔드포인트를 등록합니다.
//
//   - POST /api/v1/events               - 데이터베이스 웹훅 이벤트 처리
//   - POST /api/v1/notifications/custom - 사용자 정의 알림 발송
//
// 모든 엔드포인트는 App Key 인증과 JSON Content-Type을 요구합니다.
package v1

import (
	"github.com/darkkaiser/push-server/internal/service/api/auth"
	"github.com/darkkaiser/push-server/internal/service/api/middleware"
	"github.com/darkkaiser/push-server/internal/service/api/v1/handler"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes Echo 인스턴스에 v1 API 라우트를 등록합니다.
func RegisterRoutes(e *echo.Echo, h *handler.Handler, authenticator *auth.Authenticator) {
	v1Group := e.Group("/api/v1",
		middleware.RequireAuthentication(authenticator),
		middleware.ValidateContentType(echo.MIMEApplicationJSON),
	)

	v1Group.POST("/events", h.PublishEventHandler)
	v1Group.POST("/notifications/custom", h.SendCustomNotificationHandler)
}
