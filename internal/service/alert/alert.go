// Package alert 운영자에게 장애 상황(자격 증명 실패, 정리 작업 실패 등)을 알립니다.
package alert

import "context"

const component = "alert"

// Notifier Notify는 블로킹하지 않으며 실패해도 에러를 반환하지 않습니다.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// Nop 알림 채널이 설정되지 않았을 때 사용합니다.
type Nop struct{}

func (Nop) Notify(context.Context, string) {}
