// Package catalog 알림 대상 테이블의 등록 정보와 테이블별 레코드 형태를 정의합니다.
//
// 새로운 테이블을 알림 대상으로 추가할 때는 분기 코드를 작성하지 않고
// Registry에 Table 항목을 추가합니다.
package catalog

import "github.com/darkkaiser/push-server/internal/service/contract"

// Kind 레코드의 형태
type Kind int

const (
	KindGeneric Kind = iota
	KindListing
	KindSurgicalTool
	KindOffer
	KindBook
	KindCourse
	KindReview
	KindReviewRequest
)

// 알려진 테이블 이름
const (
	TableDistributorProducts    = "distributor_products"
	TableDistributorOCRProducts = "distributor_ocr_products"
	TableSurgicalTools          = "surgical_tools"
	TableDistributorSurgical    = "distributor_surgical_tools"
	TableOffers                 = "offers"
	TableBooks                  = "vet_books"
	TableCourses                = "vet_courses"
	TableProductReviews         = "product_reviews"
	TableReviewRequests         = "review_requests"
)

// Titles 분류별 제목 메시지 키
type Titles struct {
	New          string
	Updated      string
	PriceChanged string
}

// Table 테이블 하나의 분류 규칙입니다.
type Table struct {
	Name string
	Kind Kind

	// Screen 가격/유통기한 신호가 없을 때 이동할 화면
	Screen      string
	MessageType string
	Titles      Titles

	// RequiredFields Insert 시 비어 있으면 알림을 보류하는 필드 (후속 Update에서 채워짐)
	RequiredFields []string

	// InsertOnly Insert만 알림 대상
	InsertOnly bool

	// TextField 비어 있으면 알림을 보내지 않는 본문 필드
	TextField string

	TracksPrice  bool
	TracksExpiry bool

	// DistributorScoped 유통사 정보(distributor_id)를 부가 데이터로 전달
	DistributorScoped bool

	// Bulk 대량 등록 테이블. 신호 없는 단순 Insert는 알림을 보내지 않는다.
	Bulk bool

	// Review 리뷰 분류 규칙 적용
	Review bool

	// Placeholder 이름을 확인하지 못했을 때 사용할 메시지 키
	Placeholder string
}

// IsKnown 등록된 테이블인지 여부
func (t Table) IsKnown() bool {
	return t.Kind != KindGeneric
}

// Registry 테이블 이름으로 분류 규칙을 찾습니다. 읽기 전용이므로 동시에 사용해도 안전합니다.
type Registry struct {
	tables   map[string]Table
	fallback Table
}

// NewRegistry 주어진 테이블 목록으로 Registry를 생성합니다. 같은 이름은 뒤의 항목이 우선합니다.
func NewRegistry(fallback Table, tables ...Table) *Registry {
	r := &Registry{
		tables:   make(map[string]Table, len(tables)),
		fallback: fallback,
	}
	for _, t := range tables {
		r.tables[t.Name] = t
	}
	return r
}

// Lookup 테이블 규칙을 반환합니다. 등록되지 않은 테이블은 기본 규칙에 이름만 바꿔 반환합니다.
func (r *Registry) Lookup(name string) Table {
	if t, ok := r.tables[name]; ok {
		return t
	}
	t := r.fallback
	t.Name = name
	return t
}

// DefaultRegistry 서비스가 처리하는 테이블 규칙입니다.
func DefaultRegistry() *Registry {
	productTitles := Titles{New: MsgTitleProductNew, Updated: MsgTitleProductUpdated, PriceChanged: MsgTitleProductPrice}
	surgicalTitles := Titles{New: MsgTitleSurgicalNew, Updated: MsgTitleSurgicalUpdated, PriceChanged: MsgTitleSurgicalPrice}

	listing := Table{
		Kind:              KindListing,
		Screen:            contract.ScreenHome,
		MessageType:       contract.MessageTypeProductUpdate,
		Titles:            productTitles,
		TracksPrice:       true,
		TracksExpiry:      true,
		DistributorScoped: true,
		Bulk:              true,
		Placeholder:       MsgPlaceholderProduct,
	}
	surgical := Table{
		Kind:              KindSurgicalTool,
		Screen:            contract.ScreenSurgical,
		MessageType:       contract.MessageTypeProductUpdate,
		Titles:            surgicalTitles,
		TracksPrice:       true,
		DistributorScoped: true,
		Placeholder:       MsgPlaceholderSurgical,
	}

	return NewRegistry(
		Table{
			Kind:        KindGeneric,
			Screen:      contract.ScreenHome,
			MessageType: contract.MessageTypeProductUpdate,
			Titles:      productTitles,
			TracksPrice: true,
			Placeholder: MsgPlaceholderProduct,
		},
		named(TableDistributorProducts, listing),
		named(TableDistributorOCRProducts, listing),
		named(TableSurgicalTools, surgical),
		named(TableDistributorSurgical, surgical),
		Table{
			Name:              TableOffers,
			Kind:              KindOffer,
			Screen:            contract.ScreenOffers,
			MessageType:       contract.MessageTypeProductUpdate,
			Titles:            Titles{New: MsgTitleOfferNew, Updated: MsgTitleOfferNew, PriceChanged: MsgTitleOfferPrice},
			RequiredFields:    []string{"description"},
			TracksPrice:       true,
			DistributorScoped: true,
			Placeholder:       MsgPlaceholderOffer,
		},
		Table{
			Name:        TableBooks,
			Kind:        KindBook,
			Screen:      contract.ScreenBooks,
			MessageType: contract.MessageTypeProductUpdate,
			Titles:      Titles{New: MsgTitleBookNew, Updated: MsgTitleBookUpdated, PriceChanged: MsgTitleBookPrice},
			TracksPrice: true,
			Placeholder: MsgPlaceholderBook,
		},
		Table{
			Name:        TableCourses,
			Kind:        KindCourse,
			Screen:      contract.ScreenCourses,
			MessageType: contract.MessageTypeProductUpdate,
			Titles:      Titles{New: MsgTitleCourseNew, Updated: MsgTitleCourseUpdated, PriceChanged: MsgTitleCoursePrice},
			TracksPrice: true,
			Placeholder: MsgPlaceholderCourse,
		},
		Table{
			Name:        TableProductReviews,
			Kind:        KindReview,
			Screen:      contract.ScreenReviews,
			MessageType: contract.MessageTypeReview,
			Titles:      Titles{New: MsgTitleReviewNew},
			InsertOnly:  true,
			TextField:   "comment",
			Review:      true,
			Placeholder: MsgPlaceholderProduct,
		},
		Table{
			Name:        TableReviewRequests,
			Kind:        KindReviewRequest,
			Screen:      contract.ScreenReviews,
			MessageType: contract.MessageTypeReview,
			Titles:      Titles{New: MsgTitleReviewRequest},
			InsertOnly:  true,
			TextField:   "product_name",
			Review:      true,
			Placeholder: MsgPlaceholderProduct,
		},
	)
}

func named(name string, t Table) Table {
	t.Name = name
	return t
}
