package contract

import (
	"strings"

	apperrors "github.com/darkkaiser/push-server/internal/pkg/errors"
)

// Target 발송 대상입니다. Topic 또는 Tokens 중 하나만 설정됩니다.
type Target struct {
	Topic  string
	Tokens []string
}

// TopicTarget 브로드캐스트 토픽 대상
func TopicTarget(name string) Target {
	return Target{Topic: name}
}

// TokensTarget 기기 토큰 목록 대상
func TokensTarget(tokens []string) Target {
	return Target{Tokens: tokens}
}

// Normalize 토픽의 앞뒤 공백을 제거합니다. 공백뿐인 토픽은 지정되지 않은 것으로 봅니다.
func (t Target) Normalize() Target {
	t.Topic = strings.TrimSpace(t.Topic)
	return t
}

func (t Target) IsTopic() bool {
	return strings.TrimSpace(t.Topic) != ""
}

// Validate 대상이 정확히 한 가지 형태로 지정되었는지 확인합니다.
func (t Target) Validate() error {
	hasTopic := strings.TrimSpace(t.Topic) != ""
	hasTokens := len(t.Tokens) > 0

	switch {
	case hasTopic && hasTokens:
		return apperrors.New(apperrors.InvalidInput, "발송 대상은 토픽과 토큰 중 하나만 지정할 수 있습니다")
	case !hasTopic && !hasTokens:
		return apperrors.New(apperrors.InvalidInput, "발송 대상(토픽 또는 토큰)이 지정되지 않았습니다")
	}
	return nil
}

// Size 발송 건수 (토픽은 1건)
func (t Target) Size() int {
	if t.IsTopic() {
		return 1
	}
	return len(t.Tokens)
}
