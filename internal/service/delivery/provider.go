package delivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/darkkaiser/push-server/internal/service/contract"
)

// 전송 계층 실패에 사용하는 에러 코드
const (
	CodeUnavailable      = "UNAVAILABLE"
	CodeDeadlineExceeded = "DEADLINE_EXCEEDED"
	CodeCancelled        = "CANCELLED"
	CodeInternal         = "INTERNAL"
)

// Message 공급자에게 전달하는 메시지 한 건입니다. Topic과 Token 중 하나만 설정됩니다.
type Message struct {
	Topic string
	Token string

	Data map[string]string

	// Notification nil이면 데이터 전용 메시지
	Notification *Notification
}

// Notification 시스템 알림 영역에 표시할 내용
type Notification struct {
	Title string
	Body  string
}

// Provider 푸시 공급자입니다. 메시지 한 건을 보냅니다.
type Provider interface {
	Send(ctx context.Context, accessToken string, msg Message) error
}

// Multicaster 한 번의 요청으로 여러 토큰에 보낼 수 있는 공급자가 추가로 구현하는 확장 지점입니다.
//
// FCM HTTP v1 API에는 멀티캐스트 엔드포인트가 없으므로 FCM 공급자는 이 인터페이스를 구현하지 않으며,
// 엔진은 토큰마다 Send를 호출합니다. 배치 전송을 지원하는 공급자를 추가할 때 구현합니다.
//
// 반환하는 슬라이스는 tokens와 같은 순서, 같은 길이이며 성공한 토큰의 항목은 nil입니다.
// 요청 자체가 실패하면 error를 반환하고, 이 경우 묶음의 모든 토큰이 실패로 집계됩니다.
type Multicaster interface {
	SendMulticast(ctx context.Context, accessToken string, tokens []string, msg Message) ([]error, error)
}

// SendError 공급자가 거부한 발송입니다.
type SendError struct {
	StatusCode int
	Code       string
	Err        error
}

func (e *SendError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// Unauthorized 액세스 토큰이 거부되었는지 여부
func (e *SendError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// ErrorCode 발송 실패를 리포트에 기록할 코드로 변환합니다.
func ErrorCode(err error) string {
	var sendErr *SendError
	if errors.As(err, &sendErr) && sendErr.Code != "" {
		return sendErr.Code
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return CodeDeadlineExceeded
	case errors.Is(err, context.Canceled):
		return CodeCancelled
	}
	return CodeUnavailable
}

func isUnauthorized(err error) bool {
	var sendErr *SendError
	return errors.As(err, &sendErr) && sendErr.Unauthorized()
}

// NewMessage Decision을 공급자 메시지로 변환합니다.
func NewMessage(d contract.Decision) Message {
	msg := Message{Data: d.Data()}
	if d.Alert {
		msg.Notification = &Notification{Title: d.Title, Body: d.Body}
	}
	return msg
}
