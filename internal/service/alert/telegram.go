package alert

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	apperrors "github.com/darkkaiser/push-server/internal/pkg/errors"
	"github.com/darkkaiser/push-server/internal/pkg/mark"
	applog "github.com/darkkaiser/push-server/pkg/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

const (
	// messageMaxLength 텔레그램 제한(4096자)보다 여유를 둔 최대 길이
	messageMaxLength = 3900

	defaultQueueSize = 64

	// shutdownTimeout 종료 시 큐에 남은 알림을 보내기 위해 기다리는 최대 시간
	shutdownTimeout = 10 * time.Second
)

// botClient 텔레그램 봇 API 중 사용하는 부분
type botClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram 텔레그램 채팅방으로 알림을 보냅니다.
//
// Notify는 큐에 넣기만 하고, 실제 발송은 Start로 시작한 Sender 고루틴이 수행합니다.
// 큐가 가득 차면 알림을 버리고 로그만 남깁니다.
type Telegram struct {
	client  botClient
	chatID  int64
	prefix  string
	limiter *rate.Limiter

	queue chan string

	running   bool
	runningMu sync.Mutex
}

// NewTelegram 봇 토큰으로 클라이언트를 생성합니다. 토큰이 잘못되었으면 실패합니다.
func NewTelegram(botToken string, chatID int64, prefix string) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, "텔레그램 봇 초기화에 실패했습니다. 봇 토큰을 확인해 주세요")
	}
	return newTelegramWithClient(bot, chatID, prefix, defaultQueueSize), nil
}

func newTelegramWithClient(client botClient, chatID int64, prefix string, queueSize int) *Telegram {
	return &Telegram{
		client: client,
		chatID: chatID,
		prefix: prefix,
		// 채팅방당 초당 1회
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		queue:   make(chan string, queueSize),
	}
}

func (t *Telegram) Notify(_ context.Context, message string) {
	select {
	case t.queue <- message:
	default:
		applog.WithComponentAndFields(component, applog.Fields{
			"chat_id": t.chatID,
			"message": message,
		}).Warn("알림 큐가 가득 차 운영자 알림을 버립니다")
	}
}

// Start Sender 고루틴을 시작합니다.
func (t *Telegram) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	t.runningMu.Lock()
	defer t.runningMu.Unlock()

	if t.running {
		serviceStopWG.Done()
		return nil
	}
	t.running = true

	go t.run(serviceStopCtx, serviceStopWG)

	applog.WithComponentAndFields(component, applog.Fields{
		"chat_id": t.chatID,
	}).Info("운영자 알림 서비스 시작")

	return nil
}

func (t *Telegram) run(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	for {
		select {
		case msg := <-t.queue:
			// 종료 신호와 경합하더라도 꺼낸 알림은 보냅니다.
			t.send(context.WithoutCancel(serviceStopCtx), msg)

		case <-serviceStopCtx.Done():
			t.drain()

			t.runningMu.Lock()
			t.running = false
			t.runningMu.Unlock()

			applog.WithComponent(component).Info("운영자 알림 서비스 종료")
			return
		}
	}
}

// drain 종료 신호 이후 큐에 남은 알림을 shutdownTimeout 동안 보냅니다.
func (t *Telegram) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for {
		select {
		case msg := <-t.queue:
			t.send(ctx, msg)
		default:
			return
		}
		if ctx.Err() != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"remaining": len(t.queue),
			}).Warn("종료 대기 시간 초과로 남은 운영자 알림을 버립니다")
			return
		}
	}
}

// send 개별 알림의 패닉은 해당 건만 건너뜁니다.
func (t *Telegram) send(ctx context.Context, message string) {
	defer func() {
		if r := recover(); r != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"chat_id": t.chatID,
				"panic":   r,
			}).Error("운영자 알림 발송 중 패닉 발생 (해당 건 스킵)")
		}
	}()

	if err := t.limiter.Wait(ctx); err != nil {
		return
	}

	text := truncate(fmt.Sprintf("%s%s\n%s", t.prefix, mark.Alert.WithSpace(), message), messageMaxLength)
	if _, err := t.client.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"chat_id": t.chatID,
			"error":   err,
		}).Error("운영자 알림 발송 실패")
	}
}

// truncate UTF-8 문자 경계를 지키며 자릅니다.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
