package middleware

import (
	"fmt"
	"net/http"
	"runtime"

	apperrors "github.com/darkkaiser/push-server/internal/pkg/errors"
	"github.com/darkkaiser/push-server/internal/service/api/constants"
	applog "github.com/darkkaiser/push-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// stackBufferSize 스택 트레이스 버퍼 크기 (4KB)
const stackBufferSize = 4 << 10

// PanicRecovery 핸들러의 panic을 복구하여 500 응답으로 변환하고 스택 트레이스를 기록합니다.
func PanicRecovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (returnErr error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				err, ok := r.(error)
				if !ok {
					err = apperrors.New(apperrors.Internal, fmt.Sprintf("%v", r))
				}

				stack := make([]byte, stackBufferSize)
				length := runtime.Stack(stack, false)

				fields := applog.Fields{
					"error": err,
					"stack": string(stack[:length]),
				}
				if requestID := c.Response().Header().Get(echo.HeaderXRequestID); requestID != "" {
					fields["request_id"] = requestID
				}

				applog.WithComponentAndFields(constants.ComponentMiddlewarePanicRecovery, fields).Error("PANIC RECOVERED")

				returnErr = apperrors.Wrap(err, apperrors.Internal, "요청 처리 중 패닉이 발생했습니다")
			}()

			return next(c)
		}
	}
}
