package api

import (
	"net/http"
	"time"

	"github.com/darkkaiser/push-server/internal/service/api/constants"
	"github.com/darkkaiser/push-server/internal/service/api/httputil"
	appmiddleware "github.com/darkkaiser/push-server/internal/service/api/middleware"
	applog "github.com/darkkaiser/push-server/pkg/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// HTTPServerConfig HTTP 서버 생성에 필요한 설정을 정의합니다.
type HTTPServerConfig struct {
	// Debug Echo 프레임워크의 디버그 모드 활성화 여부
	Debug bool

	// AllowOrigins CORS에서 허용할 Origin 목록
	// 개발 환경: ["*"] 또는 ["http://localhost:3000"]
	// 프로덕션 환경: 특정 도메인만 명시 (예: ["https://example.com"])
	AllowOrigins []string

	// RequestTimeout 각 HTTP 요청의 최대 처리 시간 (기본값: 60초)
	// 발송이 끝날 때까지 응답을 잡고 있으므로 청크 수에 맞춰 여유 있게 설정합니다.
	RequestTimeout time.Duration

	// RateLimitPerSecond, RateLimitBurst IP별 요청 제한 (0이면 기본값)
	RateLimitPerSecond int
	RateLimitBurst     int
}

// NewHTTPServer 미들웨어 체인이 구성된 Echo 인스턴스를 생성합니다. 라우트는 호출 측에서 등록합니다.
//
// 미들웨어 적용 순서:
//
//  1. PanicRecovery: 이후 미들웨어의 panic까지 복구해야 하므로 가장 먼저 적용
//  2. RequestID: 로그에 request_id가 남도록 로깅보다 먼저 적용
//  3. Server 헤더 제거
//  4. HTTPLogger: 429/503 응답도 기록되도록 RateLimiting/Timeout보다 먼저 적용
//  5. RateLimiting: IP별 초당 요청 수 제한 (초과 시 429)
//  6. BodyLimit: 요청 본문 크기 제한 (초과 시 413)
//  7. Timeout: 요청 처리 시간 제한. 요청 Context가 취소되므로 진행 중인 발송도 중단됩니다
//  8. CORS: 관리 도구(브라우저)에서의 호출 허용
//  9. Secure: X-XSS-Protection, X-Content-Type-Options 등 보안 헤더
func NewHTTPServer(cfg HTTPServerConfig) *echo.Echo {
	e := echo.New()

	e.Debug = cfg.Debug
	e.HideBanner = true

	e.Server.ReadTimeout = constants.DefaultReadTimeout
	e.Server.ReadHeaderTimeout = constants.DefaultReadHeaderTimeout
	e.Server.WriteTimeout = constants.DefaultWriteTimeout
	e.Server.IdleTimeout = constants.DefaultIdleTimeout

	e.Logger = appmiddleware.Logger{Logger: applog.StandardLogger()}
	e.HTTPErrorHandler = httputil.ErrorHandler
	e.Validator = httputil.RequestValidator{}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = constants.DefaultRequestTimeout
	}
	ratePerSecond := cfg.RateLimitPerSecond
	if ratePerSecond <= 0 {
		ratePerSecond = constants.DefaultRateLimitPerSecond
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = constants.DefaultRateLimitBurst
	}

	e.Use(appmiddleware.PanicRecovery())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(echo.HeaderServer, "")
			return next(c)
		}
	})
	e.Use(appmiddleware.HTTPLogger())
	e.Use(appmiddleware.RateLimiting(ratePerSecond, burst))
	e.Use(middleware.BodyLimit(constants.DefaultMaxBodySize))
	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout:      timeout,
		ErrorMessage: constants.ErrMsgGatewayTimeout,
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, constants.HeaderAppKey},
	}))
	e.Use(middleware.Secure())

	return e
}
