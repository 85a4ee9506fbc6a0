package contract

import "github.com/iancoleman/strcase"

// Category 알림의 분류입니다. 문구와 이동 화면이 분류마다 다릅니다.
type Category int

const (
	CategoryNone Category = iota
	CategoryNew
	CategoryUpdated
	CategoryPriceChanged
	CategoryExpiringSoon
	CategoryExpiringSoonPriceChanged
	CategoryExpiringSoonUpdated
	CategoryReview
	CategoryCustom
)

var categoryNames = map[Category]string{
	CategoryNone:                     "None",
	CategoryNew:                      "New",
	CategoryUpdated:                  "Updated",
	CategoryPriceChanged:             "PriceChanged",
	CategoryExpiringSoon:             "ExpiringSoon",
	CategoryExpiringSoonPriceChanged: "ExpiringSoonPriceChanged",
	CategoryExpiringSoonUpdated:      "ExpiringSoonUpdated",
	CategoryReview:                   "Review",
	CategoryCustom:                   "Custom",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Unknown"
}

// Code 클라이언트 페이로드와 로그에 사용하는 snake_case 식별자 (예: expiring_soon_price_changed)
func (c Category) Code() string {
	return strcase.ToSnake(c.String())
}

// IsPriceChange 가격 변경 계열 분류인지 여부
func (c Category) IsPriceChange() bool {
	return c == CategoryPriceChanged || c == CategoryExpiringSoonPriceChanged
}

// 클라이언트 라우팅 화면
const (
	ScreenHome        = "home"
	ScreenSurgical    = "surgical"
	ScreenOffers      = "offers"
	ScreenBooks       = "books"
	ScreenCourses     = "courses"
	ScreenPriceAction = "price_action"
	ScreenExpireSoon  = "expire_soon"
	ScreenReviews     = "reviews"
)

// 데이터 페이로드의 type 값
const (
	MessageTypeProductUpdate = "product_update"
	MessageTypeReview        = "review"
	MessageTypeCustom        = "custom"
)

// Decision 분류 결과입니다. Suppressed이면 나머지 필드는 의미가 없습니다.
type Decision struct {
	Suppressed     bool
	SuppressReason string

	Category    Category
	Title       string
	Body        string
	Screen      string
	MessageType string
	ExtraData   map[string]string

	// Alert 데이터 페이로드 외에 시스템 알림 영역(notification 블록)도 함께 보낼지 여부
	Alert bool
}

// Suppress 발송하지 않는 결정을 생성합니다.
func Suppress(reason string) Decision {
	return Decision{Suppressed: true, SuppressReason: reason}
}

// Data 공급자에게 전달할 데이터 페이로드를 구성합니다. ExtraData가 기본 키를 덮어쓰지는 않습니다.
func (d Decision) Data() map[string]string {
	data := make(map[string]string, len(d.ExtraData)+4)
	for k, v := range d.ExtraData {
		data[k] = v
	}
	data["title"] = d.Title
	data["body"] = d.Body
	data["type"] = d.MessageType
	data["screen"] = d.Screen
	return data
}
