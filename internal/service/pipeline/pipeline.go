// Package pipeline 변경 이벤트 하나를 보강, 분류, 발송 순서로 처리합니다.
//
// HTTP API와 Kafka 컨슈머는 이 패키지의 Handle/HandleCustom을 호출하는 얇은 전송 계층입니다.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/darkkaiser/push-server/internal/pkg/errors"
	"github.com/darkkaiser/push-server/internal/service/alert"
	"github.com/darkkaiser/push-server/internal/service/classifier"
	"github.com/darkkaiser/push-server/internal/service/contract"
	"github.com/darkkaiser/push-server/internal/service/enrichment"
	applog "github.com/darkkaiser/push-server/pkg/log"
	"github.com/google/uuid"
)

const component = "pipeline"

// DefaultTopic 대상이 지정되지 않은 이벤트를 보내는 브로드캐스트 토픽
const DefaultTopic = "all_users"

// Enricher enrichment.Resolver
type Enricher interface {
	Enrich(ctx context.Context, ev contract.ChangeEvent) enrichment.EnrichedContext
}

// Deliverer delivery.Engine
type Deliverer interface {
	Deliver(ctx context.Context, d contract.Decision, target contract.Target) (contract.Report, error)
}

type Pipeline struct {
	enricher   Enricher
	classifier *classifier.Classifier
	deliverer  Deliverer
	alerter    alert.Notifier

	defaultTopic string
}

// New alerter가 nil이면 운영자 알림을 보내지 않으며, defaultTopic이 비어 있으면 DefaultTopic을 사용합니다.
func New(enricher Enricher, c *classifier.Classifier, deliverer Deliverer, alerter alert.Notifier, defaultTopic string) *Pipeline {
	if alerter == nil {
		alerter = alert.Nop{}
	}
	if strings.TrimSpace(defaultTopic) == "" {
		defaultTopic = DefaultTopic
	}

	return &Pipeline{
		enricher:     enricher,
		classifier:   c,
		deliverer:    deliverer,
		alerter:      alerter,
		defaultTopic: defaultTopic,
	}
}

// Handle 이벤트를 처리하고 발송 결과를 반환합니다.
//
// 대상의 토픽과 토큰이 모두 비어 있으면 기본 토픽으로 보냅니다.
// 발송 대상이 없다고 분류되면 Suppressed가 설정된 Report를 에러 없이 반환합니다.
func (p *Pipeline) Handle(ctx context.Context, ev contract.ChangeEvent, target contract.Target) (contract.Report, error) {
	if err := ev.Validate(); err != nil {
		return contract.Report{}, err
	}
	target = p.resolveTarget(target)
	if err := target.Validate(); err != nil {
		return contract.Report{}, err
	}

	eventID := uuid.NewString()
	logger := applog.WithComponentAndFields(component, applog.Fields{
		"event_id":  eventID,
		"operation": ev.Operation.String(),
		"table":     ev.Table,
	})

	ec := p.enricher.Enrich(ctx, ev)
	if ec.Degraded {
		logger.Warn("일부 필드를 조회하지 못해 대체 문구로 알림을 구성합니다")
	}

	d := p.classifier.Classify(ev, ec)
	if d.Suppressed {
		logger.WithField("reason", d.SuppressReason).Info("알림 발송 대상이 아닌 이벤트입니다")
		return contract.SuppressedReport(), nil
	}

	logger.WithFields(applog.Fields{
		"category": d.Category.String(),
		"screen":   d.Screen,
	}).Debug("이벤트 분류 완료")

	return p.deliver(ctx, eventID, d, target)
}

// HandleCustom 운영자가 작성한 제목과 본문을 그대로 보냅니다.
func (p *Pipeline) HandleCustom(ctx context.Context, title, message string, target contract.Target) (contract.Report, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(message) == "" {
		return contract.Report{}, apperrors.New(apperrors.InvalidInput, "제목과 내용은 필수입니다")
	}
	if err := target.Validate(); err != nil {
		return contract.Report{}, err
	}

	return p.deliver(ctx, uuid.NewString(), p.classifier.Custom(title, message), target)
}

func (p *Pipeline) deliver(ctx context.Context, eventID string, d contract.Decision, target contract.Target) (contract.Report, error) {
	report, err := p.deliverer.Deliver(ctx, d, target)
	if err != nil {
		fields := applog.Fields{
			"event_id": eventID,
			"category": d.Category.String(),
			"error":    err,
		}

		if apperrors.Is(err, apperrors.CredentialFailed) {
			applog.WithComponentAndFields(component, fields).Error("액세스 토큰을 얻지 못해 발송을 포기합니다")
			p.alerter.Notify(ctx, fmt.Sprintf("푸시 발송 실패 (event=%s): 액세스 토큰을 발급받지 못했습니다.\n%v", eventID, err))
		} else {
			applog.WithComponentAndFields(component, fields).Error("발송 실패")
		}
		return contract.Report{}, err
	}

	if report.FailureCount > 0 {
		applog.WithComponentAndFields(component, applog.Fields{
			"event_id": eventID,
			"success":  report.SuccessCount,
			"failure":  report.FailureCount,
		}).Warn("일부 대상에게 발송하지 못했습니다")
	}

	return report, nil
}

func (p *Pipeline) resolveTarget(target contract.Target) contract.Target {
	target = target.Normalize()
	if target.Topic == "" && len(target.Tokens) == 0 {
		return contract.TopicTarget(p.defaultTopic)
	}
	return target
}
