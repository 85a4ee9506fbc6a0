// Package consumer Kafka 토픽에서 레코드 변경 이벤트를 읽어 파이프라인으로 전달합니다.
//
// 메시지 본문은 웹훅 페이로드와 같은 형태이며, 발송 대상을 지정하는 topic/tokens 필드를 추가로 가질 수 있습니다.
package consumer

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/darkkaiser/push-server/internal/config"
	apperrors "github.com/darkkaiser/push-server/internal/pkg/errors"
	"github.com/darkkaiser/push-server/internal/service/contract"
	applog "github.com/darkkaiser/push-server/pkg/log"
	"github.com/segmentio/kafka-go"
)

const component = "consumer"

const (
	// fetchRetryDelay 브로커 오류 후 다시 읽기까지 대기 시간
	fetchRetryDelay = time.Second

	// commitTimeout 종료 중에도 마지막 커밋을 마치기 위한 제한 시간
	commitTimeout = 5 * time.Second
)

// Processor pipeline.Pipeline
type Processor interface {
	Handle(ctx context.Context, ev contract.ChangeEvent, target contract.Target) (contract.Report, error)
}

// messageReader *kafka.Reader
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// changeMessage 컨슈머가 읽는 메시지 본문
type changeMessage struct {
	Type      string         `json:"type"`
	Table     string         `json:"table"`
	Record    map[string]any `json:"record"`
	OldRecord map[string]any `json:"old_record"`
	Schema    string         `json:"schema"`

	Topic  string   `json:"topic"`
	Tokens []string `json:"tokens"`
}

// Consumer 메시지를 하나씩 처리한 뒤 커밋합니다.
//
// 처리에 실패한 메시지도 로그를 남기고 커밋하므로, 같은 메시지가 반복해서 발송되지 않습니다.
type Consumer struct {
	reader    messageReader
	processor Processor

	topic   string
	groupID string

	running   bool
	runningMu sync.Mutex
}

// New 컨슈머 그룹으로 토픽을 구독하는 Consumer를 생성합니다.
func New(cfg config.ConsumerConfig, processor Processor) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  500 * time.Millisecond,
	})

	return newWithReader(reader, processor, cfg.Topic, cfg.GroupID)
}

func newWithReader(reader messageReader, processor Processor, topic, groupID string) *Consumer {
	if processor == nil {
		panic("Processor는 필수입니다")
	}

	return &Consumer{
		reader:    reader,
		processor: processor,
		topic:     topic,
		groupID:   groupID,
	}
}

// Start 메시지 수신 고루틴을 시작합니다. serviceStopCtx가 취소되면 리더를 닫고 종료합니다.
func (c *Consumer) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	c.runningMu.Lock()
	defer c.runningMu.Unlock()

	if c.running {
		serviceStopWG.Done()
		return nil
	}
	c.running = true

	go c.run(serviceStopCtx, serviceStopWG)

	applog.WithComponentAndFields(component, applog.Fields{
		"topic":    c.topic,
		"group_id": c.groupID,
	}).Info("변경 이벤트 컨슈머 시작")

	return nil
}

func (c *Consumer) run(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()
	defer func() {
		if err := c.reader.Close(); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"error": err,
			}).Warn("Kafka 리더 종료 중 오류 발생")
		}

		c.runningMu.Lock()
		c.running = false
		c.runningMu.Unlock()

		applog.WithComponent(component).Info("변경 이벤트 컨슈머 종료")
	}()

	for {
		msg, err := c.reader.FetchMessage(serviceStopCtx)
		if err != nil {
			if serviceStopCtx.Err() != nil {
				return
			}

			applog.WithComponentAndFields(component, applog.Fields{
				"error": err,
			}).Error("Kafka 메시지 수신 실패")

			select {
			case <-serviceStopCtx.Done():
				return
			case <-time.After(fetchRetryDelay):
			}
			continue
		}

		// 꺼낸 메시지는 종료 신호와 무관하게 끝까지 처리합니다.
		handleCtx := context.WithoutCancel(serviceStopCtx)
		c.handle(handleCtx, msg)
		c.commit(handleCtx, msg)
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) {
	fields := applog.Fields{
		"partition": msg.Partition,
		"offset":    msg.Offset,
	}

	ev, target, err := decode(msg.Value)
	if err != nil {
		fields["error"] = err
		applog.WithComponentAndFields(component, fields).Warn("처리할 수 없는 메시지를 건너뜁니다")
		return
	}

	fields["table"] = ev.Table
	fields["operation"] = ev.Operation.String()

	report, err := c.processor.Handle(ctx, ev, target)
	if err != nil {
		fields["error"] = err
		if apperrors.Is(err, apperrors.InvalidInput) {
			applog.WithComponentAndFields(component, fields).Warn("처리할 수 없는 메시지를 건너뜁니다")
			return
		}
		applog.WithComponentAndFields(component, fields).Error("변경 이벤트 처리 실패")
		return
	}

	fields["suppressed"] = report.Suppressed
	fields["category"] = report.Category
	fields["success"] = report.SuccessCount
	fields["failure"] = report.FailureCount
	applog.WithComponentAndFields(component, fields).Info("변경 이벤트 처리 완료")
}

func (c *Consumer) commit(ctx context.Context, msg kafka.Message) {
	ctx, cancel := context.WithTimeout(ctx, commitTimeout)
	defer cancel()

	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"partition": msg.Partition,
			"offset":    msg.Offset,
			"error":     err,
		}).Error("Kafka 오프셋 커밋 실패")
	}
}

// decode 메시지 본문을 이벤트와 발송 대상으로 변환합니다.
func decode(value []byte) (contract.ChangeEvent, contract.Target, error) {
	var m changeMessage
	if err := json.Unmarshal(value, &m); err != nil {
		return contract.ChangeEvent{}, contract.Target{}, apperrors.Wrap(err, apperrors.ParsingFailed, "메시지 본문이 올바른 JSON이 아닙니다")
	}

	op, err := contract.ParseOperation(m.Type)
	if err != nil {
		return contract.ChangeEvent{}, contract.Target{}, err
	}

	ev := contract.ChangeEvent{
		Operation:      op,
		Table:          m.Table,
		Record:         m.Record,
		PreviousRecord: m.OldRecord,
	}
	if err := ev.Validate(); err != nil {
		return contract.ChangeEvent{}, contract.Target{}, err
	}

	return ev, contract.Target{Topic: m.Topic, Tokens: m.Tokens}, nil
}
