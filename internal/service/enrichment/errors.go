package enrichment

import (
	apperrors "github.com/darkkaiser/push-server/internal/pkg/errors"
)

// newErrLookupFailed 부가 정보 조회 실패입니다. 이벤트 처리를 중단하지 않고 로그로만 남깁니다.
func newErrLookupFailed(cause error, table, column, id string) error {
	return apperrors.Wrapf(cause, apperrors.EnrichmentFailed, "'%s.%s' 조회에 실패했습니다 (id=%s)", table, column, id)
}

func newErrDecodeRecord(cause error, table string) error {
	return apperrors.Wrapf(cause, apperrors.EnrichmentFailed, "'%s' 레코드를 해석할 수 없습니다", table)
}
