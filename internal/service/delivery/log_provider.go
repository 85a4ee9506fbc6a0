package delivery

import (
	"context"

	applog "github.com/darkkaiser/push-server/pkg/log"
	"github.com/darkkaiser/push-server/pkg/strutil"
)

// LogProvider 실제로 보내지 않고 로그만 남기는 공급자입니다. 개발 환경에서 사용합니다.
type LogProvider struct{}

func (LogProvider) Send(_ context.Context, _ string, msg Message) error {
	fields := applog.Fields{
		"topic": msg.Topic,
		"token": strutil.Mask(msg.Token),
		"title": msg.Data["title"],
		"type":  msg.Data["type"],
	}
	applog.WithComponentAndFields(component, fields).Info("발송 생략 (dry-run)")
	return nil
}
