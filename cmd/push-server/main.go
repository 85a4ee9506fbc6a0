package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/darkkaiser/push-server/internal/config"
	"github.com/darkkaiser/push-server/internal/pkg/version"
	applog "github.com/darkkaiser/push-server/pkg/log"
)

// @title Push Server API
// @version 1.0.0
// @description 카탈로그 데이터 변경 이벤트를 분류하여 모바일 푸시 알림으로 발송하는 서버의 REST API입니다.
// @description
// @description ## 주요 기능
// @description - 데이터 변경 이벤트(INSERT/UPDATE/DELETE) 분류 및 알림 발송
// @description - 토큰 목록 대상 사용자 정의 알림 발송
// @description - 애플리케이션별 인증
// @description
// @description ## 인증 방법
// @description 설정 파일(push-server.json)의 api.applications에 애플리케이션을 등록한 후,
// @description 발급한 App Key를 X-App-Key 헤더로 전달하세요.
// @description    - 누락 또는 잘못된 App Key: 401 Unauthorized

// @contact.name DarkKaiser
// @contact.url https://github.com/DarkKaiser
// @contact.email darkkaiser@gmail.com

// @license.name MIT

// @host localhost:2443
// @BasePath /

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-App-Key
// @description Application Key for authentication

const (
	banner = `
  ____              _        ____
 |  _ \ _   _  ___ | |__    / ___|   ___  _ __ __   __  ___  _ __
 | |_) | | | |/ __|| '_ \   \___ \  / _ \| '__|\ \ / / / _ \| '__|
 |  __/| |_| |\__ \| | | |   ___) ||  __/| |    \ V / |  __/| |
 |_|    \__,_||___/|_| |_|  |____/  \___||_|     \_/   \___||_|
                                                              %s
                                                        developed by DarkKaiser
--------------------------------------------------------------------------------
`
)

func main() {
	// 1. 환경설정 로드 (로그 설정에 필요하므로 가장 먼저 수행한다)
	appConfig, err := config.Load()
	if err != nil {
		// 로거 초기화 전이므로 표준 에러에 출력
		fmt.Fprintf(os.Stderr, "[FATAL] 환경설정 로드 실패: %v\n", err)
		os.Exit(1)
	}

	// 2. 로그 시스템 초기화
	var logOpts applog.Options
	if appConfig.Debug {
		logOpts = applog.NewDevelopmentOptions(config.AppName)
	} else {
		logOpts = applog.NewProductionOptions(config.AppName)
	}

	appLogCloser, err := applog.Setup(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 로그 시스템 초기화 실패. 서버 구동을 중단합니다. (Cause: %v)\n", err)
		os.Exit(1)
	}
	defer appLogCloser.Close()

	applog.SetDebugMode(appConfig.Debug)

	buildInfo := version.Get()

	// 아스키아트 출력(폰트:standard)
	fmt.Printf(banner, buildInfo.Version)

	fields := applog.Fields(buildInfo.Fields())
	fields["env"] = map[bool]string{true: "development", false: "production"}[appConfig.Debug]
	applog.WithComponentAndFields("main", fields).Info("서버 초기화 시작")

	for _, warning := range appConfig.VerifyRecommendations() {
		applog.WithComponent("main").Warn(warning)
	}

	// 3. 구성 요소 조립
	a, err := newApp(context.Background(), appConfig, buildInfo)
	if err != nil {
		applog.WithComponentAndFields("main", applog.Fields{
			"error": err,
		}).Error("구성 요소 초기화 실패")

		appLogCloser.Close()
		os.Exit(1)
	}
	defer a.Close()

	serviceStopCtx, cancel := context.WithCancel(context.Background())
	serviceStopWG := &sync.WaitGroup{}

	// 4. 서비스 시작
	for _, s := range a.services {
		serviceStopWG.Add(1)
		if err := s.Start(serviceStopCtx, serviceStopWG); err != nil {
			applog.WithComponentAndFields("main", applog.Fields{
				"error": err,
			}).Error("서비스 초기화 실패")

			cancel() // 다른 서비스들도 종료
			serviceStopWG.Wait()
			a.Close()

			applog.StandardLogger().Fatal("서비스 초기화 실패로 프로그램을 종료합니다")
		}
	}

	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)

	applog.WithComponent("main").Info("서버 가동 완료")

	<-termC

	applog.WithComponent("main").Info("종료 신호 수신")
	cancel()
	serviceStopWG.Wait()
}
