// Package system 헬스체크, 버전 정보 등 인증이 필요 없는 시스템 엔드포인트를 처리합니다.
package system

import (
	"context"
	"net/http"
	"time"

	"github.com/darkkaiser/push-server/internal/pkg/version"
	"github.com/darkkaiser/push-server/internal/service/api/constants"
	"github.com/darkkaiser/push-server/internal/service/api/model/system"
	"github.com/darkkaiser/push-server/internal/service/credential"
	applog "github.com/darkkaiser/push-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// pingTimeout 데이터 저장소 헬스체크 최대 대기 시간
const pingTimeout = 3 * time.Second

// Pinger store.Store
type Pinger interface {
	Ping(ctx context.Context) error
}

// CredentialStatusProvider credential.Manager
type CredentialStatusProvider interface {
	Status() credential.Status
}

// Handler 시스템 엔드포인트 핸들러
type Handler struct {
	datastore  Pinger
	credential CredentialStatusProvider

	buildInfo version.Info

	serverStartTime time.Time
	now             func() time.Time
}

// NewHandler datastore와 credential은 nil일 수 있으며, nil이면 헬스체크 대상에서 제외됩니다.
func NewHandler(datastore Pinger, cred CredentialStatusProvider, buildInfo version.Info) *Handler {
	return &Handler{
		datastore:  datastore,
		credential: cred,

		buildInfo: buildInfo,

		serverStartTime: time.Now(),
		now:             time.Now,
	}
}

// HealthCheckHandler godoc
// @Summary 서버 헬스체크
// @Description 서버와 외부 의존성(데이터 저장소, 푸시 공급자 자격 증명)의 상태를 확인합니다.
// @Description 인증 없이 호출 가능하며, 모니터링 시스템에서 사용됩니다.
// @Description
// @Description 자격 증명은 아직 토큰을 발급받지 않았더라도 마지막 교환이 실패하지 않았다면 healthy입니다.
// @Tags System
// @Produce json
// @Success 200 {object} system.HealthResponse "헬스체크 결과"
// @Router /health [get]
func (h *Handler) HealthCheckHandler(c echo.Context) error {
	deps := make(map[string]system.DependencyStatus)

	if h.datastore != nil {
		deps[constants.DependencyDatastore] = h.checkDatastore(c.Request().Context())
	}
	if h.credential != nil {
		deps[constants.DependencyCredential] = h.checkCredential()
	}

	status := constants.HealthStatusHealthy
	for _, dep := range deps {
		if dep.Status != constants.HealthStatusHealthy {
			status = constants.HealthStatusUnhealthy
			break
		}
	}

	return c.JSON(http.StatusOK, system.HealthResponse{
		Status:       status,
		Uptime:       int64(h.now().Sub(h.serverStartTime).Seconds()),
		Dependencies: deps,
	})
}

func (h *Handler) checkDatastore(ctx context.Context) system.DependencyStatus {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	err := h.datastore.Ping(ctx)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
			"dependency": constants.DependencyDatastore,
			"error":      err,
		}).Warn("헬스체크 실패")

		return system.DependencyStatus{
			Status:    constants.HealthStatusUnhealthy,
			LatencyMs: latency,
			Message:   err.Error(),
		}
	}

	return system.DependencyStatus{
		Status:    constants.HealthStatusHealthy,
		LatencyMs: latency,
		Message:   "정상 작동 중",
	}
}

func (h *Handler) checkCredential() system.DependencyStatus {
	s := h.credential.Status()

	switch {
	case s.HasToken:
		return system.DependencyStatus{
			Status:  constants.HealthStatusHealthy,
			Message: "액세스 토큰 만료 시각: " + s.ExpiresAt.Format(time.RFC3339),
		}
	case s.LastError != "":
		return system.DependencyStatus{
			Status:  constants.HealthStatusUnhealthy,
			Message: s.LastError,
		}
	default:
		return system.DependencyStatus{
			Status:  constants.HealthStatusHealthy,
			Message: "아직 액세스 토큰을 발급받지 않았습니다",
		}
	}
}

// VersionHandler godoc
// @Summary 서버 버전 정보
// @Description 서버의 버전, Git 커밋 해시, 빌드 날짜, 빌드 번호, Go 버전을 반환합니다.
// @Tags System
// @Produce json
// @Success 200 {object} system.VersionResponse "버전 정보"
// @Router /version [get]
func (h *Handler) VersionHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, system.VersionResponse{
		Version:     h.buildInfo.Version,
		Commit:      h.buildInfo.Commit,
		BuildDate:   h.buildInfo.BuildDate,
		BuildNumber: h.buildInfo.BuildNumber,
		GoVersion:   h.buildInfo.GoVersion,
	})
}
