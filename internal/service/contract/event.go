// Package contract 이벤트 처리 파이프라인의 각 단계가 주고받는 데이터 모델을 정의합니다.
package contract

import (
	"strings"

	apperrors "github.com/darkkaiser/push-server/internal/pkg/errors"
)

// Operation 변경 이벤트의 종류
type Operation int

const (
	OperationUnknown Operation = iota
	OperationInsert
	OperationUpdate
)

func (o Operation) String() string {
	switch o {
	case OperationInsert:
		return "INSERT"
	case OperationUpdate:
		return "UPDATE"
	default:
		return "UNKNOWN"
	}
}

// ParseOperation 웹훅 페이로드의 type 값("INSERT", "update" 등)을 Operation으로 변환합니다.
func ParseOperation(s string) (Operation, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INSERT":
		return OperationInsert, nil
	case "UPDATE":
		return OperationUpdate, nil
	}
	return OperationUnknown, apperrors.Newf(apperrors.InvalidInput, "지원하지 않는 이벤트 종류입니다: '%s'", s)
}

// ChangeEvent 레코드 추가/수정 알림입니다. 생성 이후 변경하지 않습니다.
type ChangeEvent struct {
	Operation      Operation
	Table          string
	Record         map[string]any
	PreviousRecord map[string]any // Update에서만 존재
}

// Validate 이벤트 구조가 처리 가능한 형태인지 확인합니다.
func (e ChangeEvent) Validate() error {
	if e.Operation != OperationInsert && e.Operation != OperationUpdate {
		return apperrors.Newf(apperrors.InvalidInput, "지원하지 않는 이벤트 종류입니다: '%s'", e.Operation)
	}
	if strings.TrimSpace(e.Table) == "" {
		return apperrors.New(apperrors.InvalidInput, "테이블 이름이 비어 있습니다")
	}
	if e.Record == nil {
		return apperrors.New(apperrors.InvalidInput, "이벤트에 record가 없습니다")
	}
	if e.Operation == OperationInsert && e.PreviousRecord != nil {
		return apperrors.New(apperrors.InvalidInput, "INSERT 이벤트에는 old_record가 존재할 수 없습니다")
	}
	return nil
}

// IsInsert Insert 이벤트인지 여부
func (e ChangeEvent) IsInsert() bool {
	return e.Operation == OperationInsert
}
