package main

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/darkkaiser/push-server/internal/config"
	apperrors "github.com/darkkaiser/push-server/internal/pkg/errors"
	"github.com/darkkaiser/push-server/internal/pkg/version"
	"github.com/darkkaiser/push-server/internal/service"
	"github.com/darkkaiser/push-server/internal/service/alert"
	"github.com/darkkaiser/push-server/internal/service/api"
	"github.com/darkkaiser/push-server/internal/service/cache"
	"github.com/darkkaiser/push-server/internal/service/catalog"
	"github.com/darkkaiser/push-server/internal/service/classifier"
	"github.com/darkkaiser/push-server/internal/service/consumer"
	"github.com/darkkaiser/push-server/internal/service/credential"
	"github.com/darkkaiser/push-server/internal/service/delivery"
	"github.com/darkkaiser/push-server/internal/service/enrichment"
	"github.com/darkkaiser/push-server/internal/service/fetcher"
	"github.com/darkkaiser/push-server/internal/service/locale"
	"github.com/darkkaiser/push-server/internal/service/pipeline"
	"github.com/darkkaiser/push-server/internal/service/scheduler"
	"github.com/darkkaiser/push-server/internal/service/store"
	applog "github.com/darkkaiser/push-server/pkg/log"
)

// app 설정으로부터 조립된 구성 요소와 시작할 서비스 목록
type app struct {
	store store.Store
	cache cache.Cache

	credentials *credential.Manager
	pipeline    *pipeline.Pipeline

	services []service.Service

	closeOnce sync.Once
}

func newApp(ctx context.Context, appConfig *config.AppConfig, buildInfo version.Info) (*app, error) {
	st, err := store.Open(ctx, store.Options{
		Driver:     appConfig.Datastore.Driver,
		URL:        appConfig.Datastore.URL,
		ServiceKey: appConfig.Datastore.ServiceKey,
		DSN:        appConfig.Datastore.DSN,
		Timeout:    appConfig.Datastore.Timeout,
	})
	if err != nil {
		return nil, err
	}

	names, err := newCache(ctx, appConfig.Cache, appConfig.Datastore.Timeout)
	if err != nil {
		st.Close()
		return nil, err
	}

	a := &app{store: st, cache: names}

	account, err := loadServiceAccount(appConfig.Credential)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.credentials, err = credential.NewManager(account, fetcher.New(appConfig.Credential.ExchangeTimeout),
		credential.WithRefreshMargin(appConfig.Credential.RefreshMargin),
		credential.WithExchangeTimeout(appConfig.Credential.ExchangeTimeout),
	)
	if err != nil {
		a.Close()
		return nil, err
	}

	localizer, err := locale.New(appConfig.Locale)
	if err != nil {
		a.Close()
		return nil, err
	}

	alerter, alertService, err := newAlerter(appConfig.Alert.Telegram)
	if err != nil {
		a.Close()
		return nil, err
	}
	if alertService != nil {
		a.services = append(a.services, alertService)
	}

	engine := delivery.NewEngine(a.credentials, newProvider(appConfig, a.credentials.ProjectID()), delivery.Options{
		ChunkSize:           appConfig.Delivery.ChunkSize,
		MaxConcurrentChunks: appConfig.Delivery.MaxConcurrentChunks,
		MaxConcurrentSends:  appConfig.Delivery.MaxConcurrentSends,
		SendTimeout:         appConfig.Delivery.SendTimeout,
		RateLimit:           appConfig.Delivery.RateLimit,
		RateBurst:           appConfig.Delivery.RateBurst,
	})

	resolver := enrichment.NewResolver(catalog.DefaultRegistry(), st, names, localizer, enrichment.Options{
		LookupTimeout: appConfig.Datastore.LookupTimeout,
		NameCacheTTL:  appConfig.Datastore.NameCacheTTL,
	})

	c := classifier.New(localizer, classifier.Options{
		VolatileFields:   appConfig.Classifier.VolatileFields,
		ExpiryWindowDays: appConfig.Classifier.ExpiryWindowDays,
	})

	a.pipeline = pipeline.New(resolver, c, engine, alerter, appConfig.FCM.DefaultTopic)

	a.services = append(a.services, api.NewService(appConfig.API, appConfig.Debug, api.Dependencies{
		Processor:  a.pipeline,
		Datastore:  st,
		Credential: a.credentials,
		Alerter:    alerter,
		BuildInfo:  buildInfo,
	}))

	if appConfig.Scheduler.Enabled {
		a.services = append(a.services, scheduler.NewService(appConfig.Scheduler, a.credentials, st, alerter))
	}
	if appConfig.Consumer.Enabled {
		a.services = append(a.services, consumer.New(appConfig.Consumer, a.pipeline))
	}

	return a, nil
}

// Close 저장소와 캐시 연결을 닫습니다. 여러 번 호출해도 안전합니다.
func (a *app) Close() {
	a.closeOnce.Do(func() {
		if a.cache != nil {
			if err := a.cache.Close(); err != nil {
				applog.WithComponentAndFields("main", applog.Fields{
					"error": err,
				}).Warn("캐시 연결 종료 실패")
			}
		}
		if a.store != nil {
			a.store.Close()
		}
	})
}

// newCache 이름 조회 결과를 보관할 캐시를 생성합니다.
func newCache(ctx context.Context, cfg config.CacheConfig, connectTimeout time.Duration) (cache.Cache, error) {
	switch cfg.Driver {
	case "redis":
		return cache.NewRedis(ctx, cfg.RedisURL, cfg.KeyPrefix, connectTimeout)
	case "none":
		return cache.Nop{}, nil
	case "memory", "":
		return cache.NewMemory(cfg.MaxEntries), nil
	default:
		return nil, apperrors.Newf(apperrors.InvalidInput, "지원하지 않는 캐시 드라이버입니다: %s", cfg.Driver)
	}
}

func loadServiceAccount(cfg config.CredentialConfig) (*credential.ServiceAccount, error) {
	if path := strings.TrimSpace(cfg.ServiceAccountFile); path != "" {
		return credential.LoadServiceAccountFile(path)
	}
	if raw := strings.TrimSpace(cfg.ServiceAccountJSON); raw != "" {
		return credential.ParseServiceAccount([]byte(raw))
	}
	return nil, apperrors.New(apperrors.InvalidInput, "서비스 계정이 설정되지 않았습니다. credential.service_account_file 또는 credential.service_account_json을 지정해 주세요")
}

// newAlerter 텔레그램이 활성화되어 있으면 알림 서비스도 함께 반환합니다.
func newAlerter(cfg config.TelegramConfig) (alert.Notifier, service.Service, error) {
	if !cfg.Enabled {
		return alert.Nop{}, nil, nil
	}

	t, err := alert.NewTelegram(cfg.BotToken, cfg.ChatID, cfg.Prefix)
	if err != nil {
		return nil, nil, err
	}
	return t, t, nil
}

// newProvider dry_run이면 실제로 보내지 않는 공급자를 사용합니다.
func newProvider(appConfig *config.AppConfig, projectID string) delivery.Provider {
	if appConfig.FCM.DryRun {
		return delivery.LogProvider{}
	}
	return delivery.NewFCM(projectID, appConfig.FCM.Endpoint, fetcher.New(appConfig.Delivery.SendTimeout))
}
