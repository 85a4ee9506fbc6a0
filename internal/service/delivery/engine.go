// Package delivery 분류 결과(Decision)를 푸시 공급자에게 발송하고 결과를 집계합니다.
//
// 토큰 목록은 최대 500개씩 묶어 동시에 발송하며, 실패한 발송은 재시도하지 않습니다.
package delivery

import (
	"context"
	"sync"
	"time"

	"github.com/darkkaiser/push-server/internal/service/contract"
	"github.com/darkkaiser/push-server/internal/service/credential"
	applog "github.com/darkkaiser/push-server/pkg/log"
	"github.com/darkkaiser/push-server/pkg/strutil"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const component = "delivery"

const (
	// MaxChunkSize 공급자가 한 번에 허용하는 최대 토큰 수
	MaxChunkSize = 500

	defaultMaxConcurrentChunks = 4
	defaultMaxConcurrentSends  = 50
	defaultSendTimeout         = 15 * time.Second
)

// TokenSource 액세스 토큰 공급자 (credential.Manager)
type TokenSource interface {
	AccessToken(ctx context.Context) (credential.AccessToken, error)
	Invalidate()
}

// Options Engine 설정
type Options struct {
	ChunkSize           int
	MaxConcurrentChunks int
	MaxConcurrentSends  int
	SendTimeout         time.Duration

	// RateLimit 초당 발송 수. 0이면 제한하지 않습니다.
	RateLimit float64
	RateBurst int
}

// Engine 동시에 여러 Deliver 호출을 처리할 수 있습니다.
type Engine struct {
	tokens   TokenSource
	provider Provider
	limiter  *rate.Limiter

	chunkSize           int
	maxConcurrentChunks int
	maxConcurrentSends  int
	sendTimeout         time.Duration
}

// NewEngine opts의 빈 값은 기본값을 사용하며, ChunkSize는 MaxChunkSize를 넘을 수 없습니다.
func NewEngine(tokens TokenSource, provider Provider, opts Options) *Engine {
	e := &Engine{
		tokens:              tokens,
		provider:            provider,
		chunkSize:           opts.ChunkSize,
		maxConcurrentChunks: opts.MaxConcurrentChunks,
		maxConcurrentSends:  opts.MaxConcurrentSends,
		sendTimeout:         opts.SendTimeout,
	}

	if e.chunkSize <= 0 || e.chunkSize > MaxChunkSize {
		e.chunkSize = MaxChunkSize
	}
	if e.maxConcurrentChunks <= 0 {
		e.maxConcurrentChunks = defaultMaxConcurrentChunks
	}
	if e.maxConcurrentSends <= 0 {
		e.maxConcurrentSends = defaultMaxConcurrentSends
	}
	if e.sendTimeout <= 0 {
		e.sendTimeout = defaultSendTimeout
	}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		e.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return e
}

// Deliver 대상에게 발송하고 결과를 반환합니다.
//
// 액세스 토큰을 얻지 못하면(CredentialFailed) 아무것도 보내지 않고 에러를 반환합니다.
// 개별 발송 실패는 에러가 아니라 Report.Failures에 기록됩니다.
func (e *Engine) Deliver(ctx context.Context, d contract.Decision, target contract.Target) (contract.Report, error) {
	if d.Suppressed {
		return contract.SuppressedReport(), nil
	}
	target = target.Normalize()
	if err := target.Validate(); err != nil {
		return contract.Report{}, err
	}

	token, err := e.tokens.AccessToken(ctx)
	if err != nil {
		return contract.Report{}, err
	}

	s := &session{engine: e, accessToken: token.Value, msg: NewMessage(d)}

	var report contract.Report
	if target.IsTopic() {
		report = s.sendTopic(ctx, target.Topic)
	} else {
		report = s.sendTokens(ctx, target.Tokens)
	}
	report.Category = d.Category.Code()

	applog.WithComponentAndFields(component, applog.Fields{
		"category":   report.Category,
		"topic":      target.Topic,
		"recipients": target.Size(),
		"total":      report.Total,
		"success":    report.SuccessCount,
		"failure":    report.FailureCount,
	}).Info("발송 완료")

	return report, nil
}

// session Deliver 호출 한 번의 상태
type session struct {
	engine      *Engine
	accessToken string
	msg         Message

	invalidateOnce sync.Once
}

func (s *session) sendTopic(ctx context.Context, topic string) contract.Report {
	msg := s.msg
	msg.Topic = topic

	var report contract.Report
	if err := s.send(ctx, msg); err != nil {
		report.AddFailure(topic, ErrorCode(err))
	} else {
		report.AddSuccess(1)
	}
	return report
}

// sendTokens 묶음은 최대 maxConcurrentChunks개까지 동시에 보내고, 결과는 묶음 순서대로 합산합니다.
func (s *session) sendTokens(ctx context.Context, tokens []string) contract.Report {
	chunks := chunk(tokens, s.engine.chunkSize)
	reports := make([]contract.Report, len(chunks))

	var g errgroup.Group
	g.SetLimit(s.engine.maxConcurrentChunks)

	for i, c := range chunks {
		g.Go(func() error {
			reports[i] = s.sendChunk(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	var report contract.Report
	for _, r := range reports {
		report.Merge(r)
	}
	return report
}

// sendChunk 공급자가 Multicaster를 구현하면 한 번에 보내고, 아니면 토큰마다 Send를 호출합니다.
func (s *session) sendChunk(ctx context.Context, tokens []string) contract.Report {
	if mc, ok := s.engine.provider.(Multicaster); ok {
		return s.sendMulticast(ctx, mc, tokens)
	}

	errs := make([]error, len(tokens))

	var g errgroup.Group
	g.SetLimit(s.engine.maxConcurrentSends)

	for i, token := range tokens {
		g.Go(func() error {
			msg := s.msg
			msg.Token = token
			errs[i] = s.send(ctx, msg)
			return nil
		})
	}
	_ = g.Wait()

	return collect(tokens, errs)
}

func (s *session) sendMulticast(ctx context.Context, mc Multicaster, tokens []string) contract.Report {
	if err := s.wait(ctx); err != nil {
		return failAll(tokens, err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.engine.sendTimeout)
	defer cancel()

	errs, err := mc.SendMulticast(sendCtx, s.accessToken, tokens, s.msg)
	if err != nil {
		s.checkUnauthorized(err)
		applog.WithComponentAndFields(component, applog.Fields{
			"tokens": len(tokens),
			"error":  err,
		}).Warn("묶음 발송 실패")
		return failAll(tokens, err)
	}
	for _, e := range errs {
		s.checkUnauthorized(e)
	}
	return collect(tokens, errs)
}

func (s *session) send(ctx context.Context, msg Message) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.engine.sendTimeout)
	defer cancel()

	err := s.engine.provider.Send(sendCtx, s.accessToken, msg)
	if err != nil {
		s.checkUnauthorized(err)
		applog.WithComponentAndFields(component, applog.Fields{
			"topic": msg.Topic,
			"token": strutil.Mask(msg.Token),
			"code":  ErrorCode(err),
			"error": err,
		}).Debug("발송 실패")
	}
	return err
}

// wait 초당 발송 한도가 설정된 경우에만 대기합니다.
func (s *session) wait(ctx context.Context) error {
	if s.engine.limiter == nil {
		return nil
	}
	return s.engine.limiter.Wait(ctx)
}

// checkUnauthorized 공급자가 토큰을 거부하면 캐시를 비워 다음 이벤트에서 새로 발급받게 합니다.
func (s *session) checkUnauthorized(err error) {
	if err == nil || !isUnauthorized(err) {
		return
	}
	s.invalidateOnce.Do(s.engine.tokens.Invalidate)
}

func collect(tokens []string, errs []error) contract.Report {
	var report contract.Report
	succeeded := 0
	for i, token := range tokens {
		if i < len(errs) && errs[i] != nil {
			report.AddFailure(token, ErrorCode(errs[i]))
			continue
		}
		succeeded++
	}
	report.AddSuccess(succeeded)
	return report
}

func failAll(tokens []string, err error) contract.Report {
	var report contract.Report
	code := ErrorCode(err)
	for _, token := range tokens {
		report.AddFailure(token, code)
	}
	return report
}

// chunk tokens를 size개씩 나눕니다. 원본 슬라이스를 공유합니다.
func chunk(tokens []string, size int) [][]string {
	chunks := make([][]string, 0, (len(tokens)+size-1)/size)
	for start := 0; start < len(tokens); start += size {
		end := min(start+size, len(tokens))
		chunks = append(chunks, tokens[start:end:end])
	}
	return chunks
}
