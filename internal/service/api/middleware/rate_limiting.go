package middleware

import (
	"sync"

	"github.com/darkkaiser/push-server/internal/service/api/constants"
	applog "github.com/darkkaiser/push-server/pkg/log"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// ipRateLimiter IP 주소별 Token Bucket을 관리합니다.
//
// 동시성:
//   - 이미 있는 Limiter 조회는 RLock만 잡습니다.
//   - 새 Limiter 생성은 Lock 안에서 한 번 더 확인한 뒤 등록합니다.
//
// 메모리:
//   - 한 번 등록된 IP는 서버 재시작 전까지 메모리에 남습니다.
type ipRateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit // 초당 허용 요청 수
	burst    int        // 한 번에 허용하는 최대 요청 수
}

// newIPRateLimiter 호출자가 값을 검증한 뒤 사용합니다. (RateLimiting 참고)
func newIPRateLimiter(requestsPerSecond int, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// getLimiter ip의 Limiter를 반환하며, 없으면 새로 만들어 등록합니다.
func (i *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.RLock()
	limiter, exists := i.limiters[ip]
	i.mu.RUnlock()

	if exists {
		return limiter
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	// 다른 고루틴이 먼저 생성했을 수 있음
	if limiter, exists = i.limiters[ip]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(i.rate, i.burst)
	i.limiters[ip] = limiter

	return limiter
}

// RateLimiting IP 기반 요청 제한 미들웨어를 반환합니다.
//
// 클라이언트 IP는 echo의 RealIP()로 판별하므로 프록시 뒤에서는 IPExtractor 설정을 따릅니다.
// 허용량을 넘으면 경고 로그를 남기고 Retry-After: 1 헤더와 함께 429 Too Many Requests를 응답합니다.
//
// Parameters:
//   - requestsPerSecond: 초당 토큰 충전 속도
//   - burst: 버킷 크기 (순간적으로 허용하는 요청 수)
//
// Panics:
//   - requestsPerSecond 또는 burst가 0 이하인 경우
func RateLimiting(requestsPerSecond int, burst int) echo.MiddlewareFunc {
	if requestsPerSecond <= 0 {
		panic("[RateLimiting] requestsPerSecond는 양수여야 합니다")
	}
	if burst <= 0 {
		panic("[RateLimiting] burst는 양수여야 합니다")
	}

	limiter := newIPRateLimiter(requestsPerSecond, burst)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			if !limiter.getLimiter(ip).Allow() {
				applog.WithComponentAndFields(constants.ComponentMiddlewareRateLimit, applog.Fields{
					"remote_ip": ip,
					"path":      c.Request().URL.Path,
					"method":    c.Request().Method,
				}).Warn("Rate limit 초과")

				c.Response().Header().Set("Retry-After", "1")

				return ErrRateLimitExceeded
			}

			return next(c)
		}
	}
}
