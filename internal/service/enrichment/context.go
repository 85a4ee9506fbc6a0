package enrichment

import (
	"slices"
	"time"

	"github.com/darkkaiser/push-server/internal/service/catalog"
)

// EnrichedContext 분류에 필요한 값을 모두 채운 이벤트 정보입니다.
// 조회에 실패한 값은 대체 문구로 채워지며, 분류가 시작된 뒤에는 변경하지 않습니다.
type EnrichedContext struct {
	Table    catalog.Table
	Record   catalog.Record
	Previous catalog.Record // Update에서만 존재

	// ChangedFields 이전 레코드와 값이 다른 필드 (정렬됨)
	ChangedFields []string

	// MissingRequired Insert 레코드에 테이블의 필수 필드가 비어 있음
	MissingRequired bool

	ItemName        string
	DistributorName string
	DisplayName     string
	DistributorID   string

	// Text 리뷰 본문 등 비어 있으면 알림을 보류하는 텍스트
	Text string

	Expiration    time.Time
	HasExpiration bool

	// Degraded 조회 실패로 대체 문구가 사용되었는지 여부
	Degraded bool
}

// Changed 필드 값이 바뀌었는지 여부
func (c EnrichedContext) Changed(field string) bool {
	_, found := slices.BinarySearch(c.ChangedFields, field)
	return found
}
