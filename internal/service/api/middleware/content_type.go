package middleware

import (
	"strings"

	"github.com/darkkaiser/push-server/internal/service/api/constants"
	applog "github.com/darkkaiser/push-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// ValidateContentType 본문이 있는 요청의 Content-Type을 검사합니다.
//
// MIME 파라미터(charset 등)는 무시하고 대소문자 구분 없이 비교합니다.
func ValidateContentType(expectedContentType string) echo.MiddlewareFunc {
	expected := strings.ToLower(expectedContentType)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Body == nil || req.ContentLength == 0 {
				return next(c)
			}

			contentType := req.Header.Get(echo.HeaderContentType)
			mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
			if mediaType != expected {
				applog.WithComponentAndFields(constants.ComponentMiddlewareContentType, applog.Fields{
					"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
					"method":     req.Method,
					"path":       req.URL.Path,
					"expected":   expectedContentType,
					"actual":     contentType,
					"remote_ip":  c.RealIP(),
				}).Warn(constants.LogMsgUnsupportedContentType)

				return ErrUnsupportedMediaType
			}

			return next(c)
		}
	}
}
