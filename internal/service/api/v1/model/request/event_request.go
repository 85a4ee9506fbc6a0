package request

import (
	"github.com/darkkaiser/push-server/internal/service/contract"
)

// EventRequest 데이터베이스 웹훅이 보내는 레코드 변경 이벤트
type EventRequest struct {
	// 이벤트 종류: INSERT, UPDATE
	Type string `json:"type" validate:"required" korean:"type" example:"UPDATE"`

	// 변경된 테이블 이름
	Table string `json:"table" validate:"required" korean:"table" example:"books"`

	// 변경 후 레코드
	Record map[string]any `json:"record" swaggertype:"object"`

	// 변경 전 레코드 (UPDATE만)
	OldRecord map[string]any `json:"old_record,omitempty" swaggertype:"object"`

	// 스키마 이름 (사용하지 않음)
	Schema string `json:"schema,omitempty" example:"public"`

	// 발송 대상 기기 토큰. 비어 있으면 토픽으로 브로드캐스트합니다.
	Tokens []string `json:"tokens,omitempty" validate:"omitempty,max=10000,dive,required" korean:"tokens"`
}

// ToEvent 요청을 ChangeEvent로 변환합니다.
func (r *EventRequest) ToEvent() (contract.ChangeEvent, error) {
	op, err := contract.ParseOperation(r.Type)
	if err != nil {
		return contract.ChangeEvent{}, err
	}

	return contract.ChangeEvent{
		Operation:      op,
		Table:          r.Table,
		Record:         r.Record,
		PreviousRecord: r.OldRecord,
	}, nil
}

// Target 쿼리 파라미터의 토픽과 본문의 토큰으로 발송 대상을 구성합니다. 둘 다 비어 있으면 기본 토픽이 사용됩니다.
func (r *EventRequest) Target(topic string) contract.Target {
	return contract.Target{
		Topic:  topic,
		Tokens: r.Tokens,
	}.Normalize()
}
