package middleware

import (
	"github.com/darkkaiser/push-server/internal/service/api/constants"
	"github.com/darkkaiser/push-server/internal/service/api/httputil"
)

var (
	// ErrAppKeyRequired X-App-Key 헤더와 app_key 쿼리 파라미터가 모두 없을 때 반환합니다.
	ErrAppKeyRequired = httputil.NewUnauthorizedError(constants.ErrMsgAppKeyRequired)

	ErrRateLimitExceeded = httputil.NewTooManyRequestsError(constants.ErrMsgTooManyRequests)

	ErrUnsupportedMediaType = httputil.NewUnsupportedMediaTypeError(constants.ErrMsgUnsupportedMediaType)
)
