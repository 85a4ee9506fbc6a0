// Package classifier 변경 이벤트를 알림 여부와 알림 문구(Decision)로 분류합니다.
//
// 분류는 (이벤트, 부가 정보, 현재 시각)에만 의존하며 외부 호출을 하지 않습니다.
package classifier

import (
	"math"
	"strconv"
	"time"

	"github.com/darkkaiser/push-server/internal/service/catalog"
	"github.com/darkkaiser/push-server/internal/service/contract"
	"github.com/darkkaiser/push-server/internal/service/enrichment"
	"github.com/darkkaiser/push-server/internal/service/locale"
	"github.com/darkkaiser/push-server/pkg/strutil"
)

// 알림을 보내지 않는 사유
const (
	ReasonVolatileOnly     = "volatile_fields_only"
	ReasonNoChanges        = "no_changes"
	ReasonIncompleteInsert = "incomplete_insert"
	ReasonNotInsert        = "insert_only_table"
	ReasonEmptyText        = "empty_text"
	ReasonBulkInsert       = "bulk_insert"
)

const defaultExpiryWindowDays = 365

const fieldPrice = "price"

// DefaultVolatileFields 값이 바뀌어도 알림 대상이 아닌 필드
var DefaultVolatileFields = []string{"views", "views_count", "updated_at"}

// Options 분류 설정
type Options struct {
	VolatileFields   []string
	ExpiryWindowDays int
}

// Classifier 동시에 사용해도 안전합니다.
type Classifier struct {
	localizer *locale.Localizer

	volatile   map[string]struct{}
	windowDays int

	now func() time.Time
}

// New opts의 빈 값은 기본값을 사용합니다.
func New(localizer *locale.Localizer, opts Options) *Classifier {
	fields := opts.VolatileFields
	if len(fields) == 0 {
		fields = DefaultVolatileFields
	}
	volatile := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		volatile[f] = struct{}{}
	}

	windowDays := opts.ExpiryWindowDays
	if windowDays <= 0 {
		windowDays = defaultExpiryWindowDays
	}

	return &Classifier{
		localizer:  localizer,
		volatile:   volatile,
		windowDays: windowDays,
		now:        time.Now,
	}
}

// WithClock 현재 시각 공급 함수를 바꾼 복사본을 반환합니다.
func (c *Classifier) WithClock(now func() time.Time) *Classifier {
	cp := *c
	cp.now = now
	return &cp
}

// Classify 규칙은 우선순위 순서로 적용됩니다.
//
//  1. 조회수 같은 휘발성 필드만 바뀐 Update, 바뀐 필드가 없는 Update는 보내지 않는다.
//  2. 필수 필드가 비어 있는 Insert는 보내지 않는다. (후속 Update에서 채워짐)
//  3. 리뷰 테이블은 본문이 있는 Insert만 보낸다.
//  4. 가격 변경 여부를 판단한다.
//  5. 유통기한 임박 여부를 판단한다.
//  6. 신호 조합으로 분류를 결정한다.
//  7. 대량 등록 테이블의 단순 Insert는 보내지 않는다.
func (c *Classifier) Classify(ev contract.ChangeEvent, ec enrichment.EnrichedContext) contract.Decision {
	table := ec.Table

	if ev.Operation == contract.OperationUpdate {
		if len(ec.ChangedFields) > 0 && c.onlyVolatile(ec.ChangedFields) {
			return contract.Suppress(ReasonVolatileOnly)
		}
		// 이전 레코드와 완전히 같은 재전송
		if ec.Previous != nil && len(ec.ChangedFields) == 0 {
			return contract.Suppress(ReasonNoChanges)
		}
	}

	if ev.IsInsert() && ec.MissingRequired {
		return contract.Suppress(ReasonIncompleteInsert)
	}

	if table.InsertOnly && !ev.IsInsert() {
		return contract.Suppress(ReasonNotInsert)
	}
	if table.TextField != "" && strutil.IsBlank(ec.Text) {
		return contract.Suppress(ReasonEmptyText)
	}

	if table.Review {
		return c.review(ec)
	}

	priceChanged := table.TracksPrice && ev.Operation == contract.OperationUpdate &&
		ec.Changed(fieldPrice) && priceDiffers(ec.Previous, ec.Record)

	days, expiring := 0, false
	if table.TracksExpiry && ec.HasExpiration {
		days = daysUntil(ec.Expiration, c.now())
		expiring = days > 0 && days <= c.windowDays
	}

	d := contract.Decision{MessageType: table.MessageType}

	switch {
	case priceChanged && expiring:
		d.Category = contract.CategoryExpiringSoonPriceChanged
		d.Screen = contract.ScreenPriceAction
		d.Title = c.localizer.Text(catalog.MsgTitleExpiringSoonPriceChanged)
		d.Body = c.expiringBody(ec, days)

	case priceChanged:
		d.Category = contract.CategoryPriceChanged
		d.Screen = contract.ScreenPriceAction
		d.Title = c.localizer.Text(table.Titles.PriceChanged)
		d.Body = c.localizer.Text(catalog.MsgBodyName, ec.DisplayName)

	case expiring && ev.IsInsert():
		d.Category = contract.CategoryExpiringSoon
		d.Screen = contract.ScreenExpireSoon
		d.Title = c.localizer.Text(catalog.MsgTitleExpiringSoon)
		d.Body = c.expiringBody(ec, days)

	case expiring:
		d.Category = contract.CategoryExpiringSoonUpdated
		d.Screen = contract.ScreenExpireSoon
		d.Title = c.localizer.Text(catalog.MsgTitleExpiringSoonUpdated)
		d.Body = c.expiringBody(ec, days)

	case ev.IsInsert():
		if table.Bulk {
			return contract.Suppress(ReasonBulkInsert)
		}
		d.Category = contract.CategoryNew
		d.Screen = table.Screen
		d.Title = c.localizer.Text(table.Titles.New)
		d.Body = c.localizer.Text(catalog.MsgBodyName, ec.DisplayName)

	default:
		d.Category = contract.CategoryUpdated
		d.Screen = table.Screen
		d.Title = c.localizer.Text(table.Titles.Updated)
		d.Body = c.localizer.Text(catalog.MsgBodyName, ec.DisplayName)
	}

	d.ExtraData = extraData(d.Category, ec)

	return d
}

// Custom 운영자가 직접 작성한 알림입니다. 시스템 알림 영역에도 표시됩니다.
func (c *Classifier) Custom(title, message string) contract.Decision {
	return contract.Decision{
		Category:    contract.CategoryCustom,
		Title:       title,
		Body:        message,
		Screen:      contract.ScreenHome,
		MessageType: contract.MessageTypeCustom,
		ExtraData:   map[string]string{"category": contract.CategoryCustom.Code()},
		Alert:       true,
	}
}

func (c *Classifier) review(ec enrichment.EnrichedContext) contract.Decision {
	d := contract.Decision{
		Category:    contract.CategoryReview,
		Screen:      ec.Table.Screen,
		MessageType: ec.Table.MessageType,
		Title:       c.localizer.Text(ec.Table.Titles.New),
	}

	switch rec := ec.Record.(type) {
	case *catalog.ReviewRecord:
		if rec.Rating != nil {
			d.Body = c.localizer.Text(catalog.MsgBodyReviewRating, ec.DisplayName, strconv.FormatFloat(*rec.Rating, 'f', -1, 64), ec.Text)
		} else {
			d.Body = c.localizer.Text(catalog.MsgBodyReview, ec.DisplayName, ec.Text)
		}
	default:
		d.Body = c.localizer.Text(catalog.MsgBodyName, ec.DisplayName)
	}

	d.ExtraData = extraData(d.Category, ec)
	return d
}

func (c *Classifier) expiringBody(ec enrichment.EnrichedContext, days int) string {
	return c.localizer.Text(catalog.MsgBodyExpiring, ec.DisplayName, strconv.Itoa(days))
}

func (c *Classifier) onlyVolatile(fields []string) bool {
	for _, f := range fields {
		if _, ok := c.volatile[f]; !ok {
			return false
		}
	}
	return true
}

// priceDiffers 한쪽에만 가격이 있는 경우도 변경으로 봅니다.
func priceDiffers(prev, cur catalog.Record) bool {
	if prev == nil || cur == nil {
		return false
	}
	p, prevOK := prev.PriceValue()
	n, curOK := cur.PriceValue()
	if !prevOK && !curOK {
		return false
	}
	return prevOK != curOK || p != n
}

// daysUntil 남은 기간을 일 단위로 올림합니다. (1시간 남음 -> 1일)
func daysUntil(expiration, now time.Time) int {
	return int(math.Ceil(expiration.Sub(now).Hours() / 24))
}

func extraData(category contract.Category, ec enrichment.EnrichedContext) map[string]string {
	extra := map[string]string{"category": category.Code()}

	if ec.DistributorID == "" || !ec.Table.DistributorScoped {
		return extra
	}
	if category.IsPriceChange() || category == contract.CategoryNew {
		extra["distributor_id"] = ec.DistributorID
		if !strutil.IsBlank(ec.ItemName) {
			extra["product_name"] = ec.ItemName
		}
		if !strutil.IsBlank(ec.DistributorName) {
			extra["distributor_name"] = ec.DistributorName
		}
	}
	return extra
}
