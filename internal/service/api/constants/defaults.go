package constants

import "time"

// 서버 설정 기본값
const (
	// DefaultRequestTimeout 발송이 끝날 때까지 응답을 잡고 있으므로 넉넉하게 둡니다.
	DefaultRequestTimeout = 60 * time.Second

	DefaultReadTimeout       = 30 * time.Second
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultWriteTimeout      = 90 * time.Second
	DefaultIdleTimeout       = 120 * time.Second

	// DefaultMaxBodySize 토큰 목록이 포함된 요청도 수용할 수 있는 크기
	DefaultMaxBodySize = "2M"

	DefaultRateLimitPerSecond = 20
	DefaultRateLimitBurst     = 40

	// ShutdownTimeout Graceful Shutdown 시 최대 대기 시간
	ShutdownTimeout = 5 * time.Second
)

// HTTP 헤더 및 쿼리 파라미터
const (
	HeaderAppKey = "X-App-Key"

	QueryParamTopic = "topic"
)

// SensitiveQueryParams 로그에 남길 때 값을 가리는 쿼리 파라미터
var SensitiveQueryParams = []string{
	"app_key",
	"api_key",
	"password",
	"token",
	"secret",
}

// 헬스체크 상태
const (
	HealthStatusHealthy   = "healthy"
	HealthStatusUnhealthy = "unhealthy"

	DependencyDatastore  = "datastore"
	DependencyCredential = "credential"
)
