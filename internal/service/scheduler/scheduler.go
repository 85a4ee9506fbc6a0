// Package scheduler 주기적인 유지보수 작업(액세스 토큰 선발급, 만료된 할인 정리)을 실행합니다.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/darkkaiser/push-server/internal/config"
	"github.com/darkkaiser/push-server/internal/service/alert"
	"github.com/darkkaiser/push-server/internal/service/credential"
	"github.com/darkkaiser/push-server/pkg/cronx"
	applog "github.com/darkkaiser/push-server/pkg/log"
	"github.com/robfig/cron/v3"
)

const component = "scheduler.service"

const (
	// jobTimeout 작업 1회 실행의 최대 시간
	jobTimeout = 2 * time.Minute

	offersTable        = "offers"
	offersCreatedAtCol = "created_at"
)

// TokenSource credential.Manager
type TokenSource interface {
	AccessToken(ctx context.Context) (credential.AccessToken, error)
}

// Purger store.Store
type Purger interface {
	DeleteOlderThan(ctx context.Context, table, column string, cutoff time.Time) (int64, error)
}

// Scheduler 설정된 Cron 스케줄에 맞춰 작업을 실행합니다.
type Scheduler struct {
	cfg config.SchedulerConfig

	tokens  TokenSource
	purger  Purger
	alerter alert.Notifier

	now func() time.Time

	cron *cron.Cron

	running   bool
	runningMu sync.Mutex
}

// NewService tokens 또는 purger가 nil이면 해당 작업을 등록하지 않습니다.
func NewService(cfg config.SchedulerConfig, tokens TokenSource, purger Purger, alerter alert.Notifier) *Scheduler {
	if alerter == nil {
		alerter = alert.Nop{}
	}

	return &Scheduler{
		cfg: cfg,

		tokens:  tokens,
		purger:  purger,
		alerter: alerter,

		now: time.Now,
	}
}

// Start Cron 엔진을 시작합니다. serviceStopCtx가 취소되면 실행 중인 작업이 끝날 때까지 기다린 뒤 종료합니다.
func (s *Scheduler) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if s.running {
		serviceStopWG.Done()
		applog.WithComponent(component).Warn("Scheduler 서비스가 이미 실행 중입니다 (중복 호출)")
		return nil
	}

	// 이전 실행이 끝나지 않았으면 다음 실행을 건너뜁니다.
	cronLogger := cron.VerbosePrintfLogger(applog.StandardLogger())
	s.cron = cron.New(
		cron.WithParser(cronx.Parser()),
		cron.WithChain(
			cron.Recover(cronLogger),
			cron.SkipIfStillRunning(cronLogger),
		),
	)

	if err := s.registerJobs(); err != nil {
		serviceStopWG.Done()
		s.cron = nil
		return err
	}

	s.cron.Start()
	s.running = true

	applog.WithComponentAndFields(component, applog.Fields{
		"registered_jobs": len(s.cron.Entries()),
	}).Info("Scheduler 서비스 시작")

	go func() {
		defer serviceStopWG.Done()

		<-serviceStopCtx.Done()

		s.Stop()
	}()

	return nil
}

// Stop 실행 중인 작업이 끝날 때까지 기다린 뒤 스케줄러를 중지합니다.
func (s *Scheduler) Stop() {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return
	}

	<-s.cron.Stop().Done()

	s.cron = nil
	s.running = false

	applog.WithComponent(component).Info("Scheduler 서비스 종료")
}

func (s *Scheduler) registerJobs() error {
	if s.tokens != nil {
		if _, err := s.cron.AddFunc(s.cfg.TokenWarmupSpec, s.warmupToken); err != nil {
			return fmt.Errorf("토큰 선발급 스케줄 등록 실패(spec=%q): %w", s.cfg.TokenWarmupSpec, err)
		}
	}
	if s.purger != nil {
		if _, err := s.cron.AddFunc(s.cfg.PurgeSpec, s.purgeExpiredOffers); err != nil {
			return fmt.Errorf("할인 정리 스케줄 등록 실패(spec=%q): %w", s.cfg.PurgeSpec, err)
		}
	}
	return nil
}

// warmupToken 발송 요청이 토큰 교환을 기다리지 않도록 미리 갱신합니다.
// 캐시된 토큰이 유효하면 교환하지 않습니다.
func (s *Scheduler) warmupToken() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	tok, err := s.tokens.AccessToken(ctx)
	if err != nil {
		// 운영자 알림은 발송 경로의 자격 증명 실패에서 보냅니다.
		applog.WithComponentAndFields(component, applog.Fields{
			"error": err,
		}).Error("액세스 토큰 선발급 실패")
		return
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"expires_at": tok.ExpiresAt,
	}).Debug("액세스 토큰 선발급 완료")
}

// purgeExpiredOffers 보존 기간이 지난 할인 레코드를 삭제합니다.
func (s *Scheduler) purgeExpiredOffers() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	cutoff := s.now().Add(-s.cfg.OfferRetention)

	deleted, err := s.purger.DeleteOlderThan(ctx, offersTable, offersCreatedAtCol, cutoff)
	if err != nil {
		message := "만료된 할인 정리 작업이 실패하였습니다"
		applog.WithComponentAndFields(component, applog.Fields{
			"cutoff": cutoff,
			"error":  err,
		}).Error(message)

		s.alerter.Notify(ctx, fmt.Sprintf("%s\n\n%s", message, err))
		return
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"cutoff":  cutoff,
		"deleted": deleted,
	}).Info("만료된 할인 정리 완료")
}
