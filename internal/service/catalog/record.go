package catalog

import (
	"time"

	"github.com/darkkaiser/push-server/pkg/maputil"
)

// Record 테이블별로 형태가 정해진 레코드입니다.
type Record interface {
	RecordID() string
	PriceValue() (float64, bool)
}

func priceOf(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

// ListingRecord 유통사 상품 (distributor_products, distributor_ocr_products)
type ListingRecord struct {
	ID             string     `json:"id"`
	ProductID      string     `json:"product_id"`
	OCRProductID   string     `json:"ocr_product_id"`
	DistributorID  string     `json:"distributor_id"`
	Price          *float64   `json:"price"`
	ExpirationDate *time.Time `json:"expiration_date"`
}

func (r *ListingRecord) RecordID() string { return r.ID }
func (r *ListingRecord) PriceValue() (float64, bool) { return priceOf(r.Price) }

// SurgicalToolRecord 수술 도구 (surgical_tools, distributor_surgical_tools)
type SurgicalToolRecord struct {
	ID            string   `json:"id"`
	ToolName      string   `json:"tool_name"`
	Description   string   `json:"description"`
	DistributorID string   `json:"distributor_id"`
	Price         *float64 `json:"price"`
}

func (r *SurgicalToolRecord) RecordID() string { return r.ID }
func (r *SurgicalToolRecord) PriceValue() (float64, bool) { return priceOf(r.Price) }

// OfferRecord 할인 행사 (offers)
type OfferRecord struct {
	ID            string   `json:"id"`
	ProductID     string   `json:"product_id"`
	IsOCR         bool     `json:"is_ocr"`
	Description   *string  `json:"description"`
	DistributorID string   `json:"distributor_id"`
	Price         *float64 `json:"price"`
}

func (r *OfferRecord) RecordID() string { return r.ID }
func (r *OfferRecord) PriceValue() (float64, bool) { return priceOf(r.Price) }

// DescriptionText 설명이 없으면 ""를 반환합니다.
func (r *OfferRecord) DescriptionText() string {
	if r.Description == nil {
		return ""
	}
	return *r.Description
}

// BookRecord 수의학 도서 (vet_books)
type BookRecord struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
}

func (r *BookRecord) RecordID() string { return r.ID }
func (r *BookRecord) PriceValue() (float64, bool) { return priceOf(r.Price) }

// CourseRecord 강좌 (vet_courses)
type CourseRecord struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Price *float64 `json:"price"`
}

func (r *CourseRecord) RecordID() string { return r.ID }
func (r *CourseRecord) PriceValue() (float64, bool) { return priceOf(r.Price) }

// ReviewRecord 상품 리뷰 (product_reviews)
type ReviewRecord struct {
	ID           string   `json:"id"`
	ProductName  string   `json:"product_name"`
	ReviewerName string   `json:"reviewer_name"`
	Rating       *float64 `json:"rating"`
	Comment      string   `json:"comment"`
}

func (r *ReviewRecord) RecordID() string { return r.ID }
func (r *ReviewRecord) PriceValue() (float64, bool) { return 0, false }

// ReviewRequestRecord 리뷰 요청 (review_requests)
type ReviewRequestRecord struct {
	ID            string `json:"id"`
	ProductName   string `json:"product_name"`
	RequesterName string `json:"requester_name"`
}

func (r *ReviewRequestRecord) RecordID() string { return r.ID }
func (r *ReviewRequestRecord) PriceValue() (float64, bool) { return 0, false }

// GenericRecord 등록되지 않은 테이블의 레코드
type GenericRecord struct {
	Fields map[string]any
}

func (r *GenericRecord) RecordID() string {
	if v, ok := r.Fields["id"]; ok && v != nil {
		if s, err := maputil.Decode[idHolder](map[string]any{"id": v}); err == nil {
			return s.ID
		}
	}
	return ""
}

func (r *GenericRecord) PriceValue() (float64, bool) {
	v, ok := r.Fields["price"]
	if !ok || v == nil {
		return 0, false
	}
	p, err := maputil.Decode[priceHolder](map[string]any{"price": v})
	if err != nil || p.Price == nil {
		return 0, false
	}
	return *p.Price, true
}

type idHolder struct {
	ID string `json:"id"`
}

type priceHolder struct {
	Price *float64 `json:"price"`
}

// Decode raw를 kind에 맞는 Record로 변환합니다. raw가 nil이면 nil을 반환합니다.
func Decode(kind Kind, raw map[string]any) (Record, error) {
	if raw == nil {
		return nil, nil
	}

	switch kind {
	case KindListing:
		return decode[ListingRecord](raw)
	case KindSurgicalTool:
		return decode[SurgicalToolRecord](raw)
	case KindOffer:
		return decode[OfferRecord](raw)
	case KindBook:
		return decode[BookRecord](raw)
	case KindCourse:
		return decode[CourseRecord](raw)
	case KindReview:
		return decode[ReviewRecord](raw)
	case KindReviewRequest:
		return decode[ReviewRequestRecord](raw)
	}
	return &GenericRecord{Fields: raw}, nil
}

func decode[T any, P interface {
	*T
	Record
}](raw map[string]any) (Record, error) {
	v, err := maputil.Decode[T](raw)
	if err != nil {
		return nil, err
	}
	return P(v), nil
}
