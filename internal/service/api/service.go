// Package api 웹훅 이벤트와 사용자 정의 알림을 받는 HTTP API 서비스를 제공합니다.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	_ "github.com/darkkaiser/push-server/docs"
	"github.com/darkkaiser/push-server/internal/config"
	"github.com/darkkaiser/push-server/internal/pkg/version"
	"github.com/darkkaiser/push-server/internal/service/alert"
	apiauth "github.com/darkkaiser/push-server/internal/service/api/auth"
	"github.com/darkkaiser/push-server/internal/service/api/constants"
	"github.com/darkkaiser/push-server/internal/service/api/handler/system"
	v1 "github.com/darkkaiser/push-server/internal/service/api/v1"
	v1handler "github.com/darkkaiser/push-server/internal/service/api/v1/handler"
	applog "github.com/darkkaiser/push-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// Dependencies API 서비스가 호출하는 하위 컴포넌트
type Dependencies struct {
	// Processor 이벤트 처리 파이프라인 (필수)
	Processor v1handler.EventProcessor

	// Datastore, Credential 헬스체크 대상 (nil이면 제외)
	Datastore  system.Pinger
	Credential system.CredentialStatusProvider

	// Alerter HTTP 서버가 예기치 않게 종료되었을 때 운영자에게 알립니다.
	Alerter alert.Notifier

	BuildInfo version.Info
}

// Service HTTP API 서버의 생명주기를 관리합니다.
//
// Start로 시작하며, serviceStopCtx가 취소되면 진행 중인 요청을 ShutdownTimeout 동안 기다린 뒤 종료합니다.
type Service struct {
	apiConfig config.APIConfig
	debug     bool

	deps Dependencies

	running   bool
	runningMu sync.Mutex
}

// NewService Service 인스턴스를 생성합니다.
//
// Panics:
//   - deps.Processor가 nil인 경우
func NewService(apiConfig config.APIConfig, debug bool, deps Dependencies) *Service {
	if deps.Processor == nil {
		panic("EventProcessor는 필수입니다")
	}
	if deps.Alerter == nil {
		deps.Alerter = alert.Nop{}
	}

	return &Service{
		apiConfig: apiConfig,
		debug:     debug,

		deps: deps,
	}
}

// Start API 서비스를 시작합니다. 실제 서버는 고루틴에서 실행되며 이 함수는 즉시 반환됩니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStarting)

	if s.running {
		defer serviceStopWG.Done()
		applog.WithComponent(constants.ComponentService).Warn(constants.LogMsgServiceAlreadyStarted)
		return nil
	}

	s.running = true

	go s.runServiceLoop(serviceStopCtx, serviceStopWG)

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStarted)

	return nil
}

func (s *Service) runServiceLoop(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	e := s.setupServer()

	httpServerDone := make(chan struct{})
	go s.startHTTPServer(e, httpServerDone)

	s.waitForShutdown(serviceStopCtx, e, httpServerDone)
}

// setupServer Echo 서버를 생성하고 라우트를 등록합니다.
func (s *Service) setupServer() *echo.Echo {
	authenticator := apiauth.NewAuthenticator(s.apiConfig.Applications)

	systemHandler := system.NewHandler(s.deps.Datastore, s.deps.Credential, s.deps.BuildInfo)
	v1Handler := v1handler.New(s.deps.Processor)

	e := NewHTTPServer(HTTPServerConfig{
		Debug:              s.debug,
		AllowOrigins:       s.apiConfig.CORS.AllowOrigins,
		RequestTimeout:     s.apiConfig.RequestTimeout,
		RateLimitPerSecond: s.apiConfig.RateLimitPerSecond,
		RateLimitBurst:     s.apiConfig.RateLimitBurst,
	})

	RegisterRoutes(e, systemHandler)
	v1.RegisterRoutes(e, v1Handler, authenticator)

	return e
}

// startHTTPServer 서버가 종료될 때까지 블로킹되며, 종료되면 done 채널을 닫습니다.
func (s *Service) startHTTPServer(e *echo.Echo, done chan struct{}) {
	defer close(done)

	address := fmt.Sprintf(":%d", s.apiConfig.ListenPort)
	applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
		"port": s.apiConfig.ListenPort,
		"tls":  s.apiConfig.TLSServer,
	}).Debug(constants.LogMsgServiceHTTPServerStarting)

	var err error
	if s.apiConfig.TLSServer {
		err = e.StartTLS(address, s.apiConfig.TLSCertFile, s.apiConfig.TLSKeyFile)
	} else {
		err = e.Start(address)
	}

	s.handleServerError(err)
}

func (s *Service) handleServerError(err error) {
	if err == nil {
		return
	}

	if errors.Is(err, http.ErrServerClosed) {
		applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceHTTPServerStopped)
		return
	}

	message := constants.LogMsgServiceHTTPServerFatalError
	applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
		"port":  s.apiConfig.ListenPort,
		"error": err,
	}).Error(message)

	s.deps.Alerter.Notify(context.Background(), fmt.Sprintf("%s\n\n%s", message, err))
}

// waitForShutdown 종료 신호 또는 서버 조기 종료를 기다린 뒤 정리합니다.
func (s *Service) waitForShutdown(serviceStopCtx context.Context, e *echo.Echo, httpServerDone chan struct{}) {
	select {
	case <-serviceStopCtx.Done():
		applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStopping)

	case <-httpServerDone:
		// 포트 바인딩 실패 등으로 이미 종료됨
		applog.WithComponent(constants.ComponentService).Error(constants.LogMsgServiceUnexpectedExit)

		s.cleanup()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
			"error": err,
		}).Error(constants.LogMsgServiceHTTPServerShutdownError)
	}

	<-httpServerDone

	s.cleanup()
}

func (s *Service) cleanup() {
	s.runningMu.Lock()
	s.running = false
	s.runningMu.Unlock()

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStopped)
}
