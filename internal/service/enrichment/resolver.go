// Package enrichment 변경 이벤트에 알림 문구 작성에 필요한 부가 정보(상품명, 유통사명, 유통기한)를 채웁니다.
package enrichment

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/darkkaiser/push-server/internal/service/cache"
	"github.com/darkkaiser/push-server/internal/service/catalog"
	"github.com/darkkaiser/push-server/internal/service/contract"
	"github.com/darkkaiser/push-server/internal/service/locale"
	"github.com/darkkaiser/push-server/internal/service/store"
	"github.com/darkkaiser/push-server/pkg/concurrency"
	applog "github.com/darkkaiser/push-server/pkg/log"
	"github.com/darkkaiser/push-server/pkg/maputil"
	"github.com/darkkaiser/push-server/pkg/strutil"
	"golang.org/x/sync/errgroup"
)

const component = "enrichment"

const (
	defaultLookupTimeout = 10 * time.Second
	defaultNameCacheTTL  = 10 * time.Minute
)

// 부가 정보 조회 대상
const (
	tableProducts    = "products"
	tableOCRProducts = "ocr_products"
	tableUsers       = "users"

	columnExpirationDate = "expiration_date"
)

// Options Resolver 설정
type Options struct {
	LookupTimeout time.Duration
	NameCacheTTL  time.Duration
}

// Resolver 이벤트마다 EnrichedContext를 생성합니다.
type Resolver struct {
	registry  *catalog.Registry
	rows      store.RowFetcher
	names     cache.Cache
	localizer *locale.Localizer

	// lookups 같은 이름을 동시에 여러 번 조회하지 않도록 캐시 키 단위로 직렬화합니다.
	lookups *concurrency.KeyedMutex

	lookupTimeout time.Duration
	nameCacheTTL  time.Duration
}

// NewResolver rows가 nil이면 조회 없이 이벤트에 포함된 값만 사용합니다. names가 nil이면 캐시하지 않습니다.
func NewResolver(registry *catalog.Registry, rows store.RowFetcher, names cache.Cache, localizer *locale.Localizer, opts Options) *Resolver {
	if names == nil {
		names = cache.Nop{}
	}
	if opts.LookupTimeout <= 0 {
		opts.LookupTimeout = defaultLookupTimeout
	}
	if opts.NameCacheTTL <= 0 {
		opts.NameCacheTTL = defaultNameCacheTTL
	}

	return &Resolver{
		registry:      registry,
		rows:          rows,
		names:         names,
		localizer:     localizer,
		lookups:       concurrency.NewKeyedMutex(),
		lookupTimeout: opts.LookupTimeout,
		nameCacheTTL:  opts.NameCacheTTL,
	}
}

// Enrich 조회 실패는 반환하지 않고 대체 문구로 채운 뒤 Degraded를 설정합니다.
func (r *Resolver) Enrich(ctx context.Context, ev contract.ChangeEvent) EnrichedContext {
	table := r.registry.Lookup(ev.Table)
	if !table.IsKnown() {
		applog.WithComponentAndFields(component, applog.Fields{
			"table": ev.Table,
		}).Debug("등록되지 않은 테이블입니다. 기본 규칙을 적용합니다")
	}

	ec := EnrichedContext{Table: table}

	ec.Record, ec.Degraded = r.decode(table, ev.Record)
	if ev.PreviousRecord != nil {
		var degraded bool
		ec.Previous, degraded = r.decode(table, ev.PreviousRecord)
		ec.Degraded = ec.Degraded || degraded
	}
	if ev.Operation == contract.OperationUpdate {
		ec.ChangedFields = changedFields(ev.PreviousRecord, ev.Record)
	}
	if ev.IsInsert() {
		ec.MissingRequired = missingRequired(table.RequiredFields, ev.Record)
	}

	t := &task{resolver: r, ctx: ctx, table: table}

	switch rec := ec.Record.(type) {
	case *catalog.ListingRecord:
		r.enrichListing(t, &ec, rec, ev.Record)

	case *catalog.SurgicalToolRecord:
		ec.DistributorID = rec.DistributorID
		t.run(func() { ec.DistributorName = t.distributorName(rec.DistributorID) })
		t.wait()
		ec.ItemName = strutil.FirstNonBlank(rec.ToolName, rec.Description, r.placeholder(table))
		ec.DisplayName = joinDisplay(ec.ItemName, ec.DistributorName)

	case *catalog.OfferRecord:
		ec.DistributorID = rec.DistributorID
		var product string
		t.run(func() {
			if rec.IsOCR {
				product = t.name(tableOCRProducts, rec.ProductID, "product_name")
			} else {
				product = t.name(tableProducts, rec.ProductID, "name")
			}
		})
		t.run(func() { ec.DistributorName = t.distributorName(rec.DistributorID) })
		t.wait()
		ec.ItemName = strutil.FirstNonBlank(product, r.localizer.Text(catalog.MsgPlaceholderProduct))
		ec.DisplayName = joinDisplay(ec.ItemName, strutil.FirstNonBlank(rec.DescriptionText(), r.localizer.Text(catalog.MsgPlaceholderOffer)))

	case *catalog.BookRecord:
		ec.ItemName = strutil.FirstNonBlank(rec.Name, r.placeholder(table))
		ec.DisplayName = ec.ItemName

	case *catalog.CourseRecord:
		ec.ItemName = strutil.FirstNonBlank(rec.Title, r.placeholder(table))
		ec.DisplayName = ec.ItemName

	case *catalog.ReviewRecord:
		ec.ItemName = strutil.FirstNonBlank(rec.ProductName, r.placeholder(table))
		ec.DisplayName = ec.ItemName
		ec.Text = strutil.NormalizeSpaces(rec.Comment)

	case *catalog.ReviewRequestRecord:
		ec.ItemName = strutil.FirstNonBlank(rec.ProductName, r.placeholder(table))
		ec.DisplayName = ec.ItemName
		ec.Text = strutil.NormalizeSpaces(rec.ProductName)

	case *catalog.GenericRecord:
		ec.ItemName = strutil.FirstNonBlank(
			stringValue(rec.Fields["name"]),
			stringValue(rec.Fields["title"]),
			stringValue(rec.Fields["product_name"]),
			stringValue(rec.Fields["tool_name"]),
			r.placeholder(table),
		)
		ec.DisplayName = ec.ItemName
		if table.TextField != "" {
			ec.Text = strutil.NormalizeSpaces(stringValue(rec.Fields[table.TextField]))
		}
	}

	ec.Degraded = ec.Degraded || t.degraded

	return ec
}

func (r *Resolver) enrichListing(t *task, ec *EnrichedContext, rec *catalog.ListingRecord, raw map[string]any) {
	ec.DistributorID = rec.DistributorID

	var product string
	t.run(func() {
		if t.table.Name == catalog.TableDistributorOCRProducts {
			product = t.name(tableOCRProducts, rec.OCRProductID, "product_name")
		} else {
			product = t.name(tableProducts, rec.ProductID, "name")
		}
	})
	t.run(func() { ec.DistributorName = t.distributorName(rec.DistributorID) })

	if rec.ExpirationDate != nil {
		ec.Expiration, ec.HasExpiration = *rec.ExpirationDate, true
	} else if t.table.TracksExpiry && raw[columnExpirationDate] == nil {
		t.run(func() { ec.Expiration, ec.HasExpiration = t.expiration(rec.RecordID()) })
	}

	t.wait()

	ec.ItemName = strutil.FirstNonBlank(product, r.placeholder(t.table))
	ec.DisplayName = joinDisplay(ec.ItemName, ec.DistributorName)
}

func (r *Resolver) decode(table catalog.Table, raw map[string]any) (catalog.Record, bool) {
	rec, err := catalog.Decode(table.Kind, raw)
	if err == nil {
		return rec, false
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"table": table.Name,
		"error": newErrDecodeRecord(err, table.Name),
	}).Warn("레코드를 테이블 형식으로 해석하지 못해 일반 레코드로 처리합니다")

	return &catalog.GenericRecord{Fields: raw}, true
}

func (r *Resolver) placeholder(table catalog.Table) string {
	key := table.Placeholder
	if key == "" {
		key = catalog.MsgPlaceholderProduct
	}
	return r.localizer.Text(key)
}

// task 이벤트 하나의 조회 작업입니다. 조회는 서로 독립적이므로 동시에 수행합니다.
type task struct {
	resolver *Resolver
	ctx      context.Context
	table    catalog.Table

	g errgroup.Group

	mu       sync.Mutex
	degraded bool
}

func (t *task) run(fn func()) {
	t.g.Go(func() error {
		fn()
		return nil
	})
}

func (t *task) wait() {
	_ = t.g.Wait()
}

func (t *task) fail(err error, table, column, id string) {
	t.mu.Lock()
	t.degraded = true
	t.mu.Unlock()

	applog.WithComponentAndFields(component, applog.Fields{
		"event_table": t.table.Name,
		"table":       table,
		"column":      column,
		"id":          id,
		"error":       newErrLookupFailed(err, table, column, id),
	}).Warn("부가 정보 조회 실패, 대체 문구를 사용합니다")
}

// name columns 중 처음으로 비어 있지 않은 값을 반환합니다. 결과는 캐시합니다.
func (t *task) name(table, id string, columns ...string) string {
	r := t.resolver
	if r.rows == nil || strutil.IsBlank(id) {
		return ""
	}

	key := fmt.Sprintf("name:%s:%s:%s", table, strings.Join(columns, ","), id)
	if v, ok, err := r.names.Get(t.ctx, key); err == nil && ok {
		return v
	}

	r.lookups.Lock(key)
	defer r.lookups.Unlock(key)

	// 대기하는 동안 다른 이벤트가 채웠을 수 있습니다.
	if v, ok, err := r.names.Get(t.ctx, key); err == nil && ok {
		return v
	}

	ctx, cancel := context.WithTimeout(t.ctx, r.lookupTimeout)
	defer cancel()

	row, err := r.rows.FetchRow(ctx, table, id, columns...)
	if err != nil {
		t.fail(err, table, strings.Join(columns, ","), id)
		return ""
	}

	values := make([]string, 0, len(columns))
	for _, c := range columns {
		values = append(values, stringValue(row[c]))
	}
	name := strutil.FirstNonBlank(values...)

	if name != "" {
		if err := r.names.Set(t.ctx, key, name, r.nameCacheTTL); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"key":   key,
				"error": err,
			}).Debug("이름 캐시 저장 실패")
		}
	}
	return name
}

func (t *task) distributorName(id string) string {
	return t.name(tableUsers, id, "full_name", "username")
}

// expiration 유통기한은 자주 바뀌므로 캐시하지 않습니다.
func (t *task) expiration(id string) (time.Time, bool) {
	r := t.resolver
	if r.rows == nil || strutil.IsBlank(id) {
		return time.Time{}, false
	}

	ctx, cancel := context.WithTimeout(t.ctx, r.lookupTimeout)
	defer cancel()

	row, err := r.rows.FetchRow(ctx, t.table.Name, id, columnExpirationDate)
	if err != nil {
		t.fail(err, t.table.Name, columnExpirationDate, id)
		return time.Time{}, false
	}

	holder, err := maputil.Decode[expirationHolder](row)
	if err != nil {
		t.fail(err, t.table.Name, columnExpirationDate, id)
		return time.Time{}, false
	}
	if holder.ExpirationDate == nil {
		return time.Time{}, false
	}
	return *holder.ExpirationDate, true
}

type expirationHolder struct {
	ExpirationDate *time.Time `json:"expiration_date"`
}

// joinDisplay "상품 - 유통사" 형식입니다. suffix가 비어 있으면 name만 반환합니다.
func joinDisplay(name, suffix string) string {
	return strutil.JoinNonBlank(" - ", name, suffix)
}

func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	default:
		return strings.TrimSpace(fmt.Sprint(s))
	}
}

// missingRequired 값이 없거나 nil이거나 공백 문자열이면 누락으로 봅니다.
func missingRequired(fields []string, record map[string]any) bool {
	for _, f := range fields {
		v, ok := record[f]
		if !ok || v == nil {
			return true
		}
		if s, isString := v.(string); isString && strutil.IsBlank(s) {
			return true
		}
	}
	return false
}

// changedFields 한쪽에만 있는 키도 변경된 것으로 봅니다.
func changedFields(prev, cur map[string]any) []string {
	changed := make([]string, 0)
	for k, v := range cur {
		pv, ok := prev[k]
		if !ok || !reflect.DeepEqual(pv, v) {
			changed = append(changed, k)
		}
	}
	for k := range prev {
		if _, ok := cur[k]; !ok {
			changed = append(changed, k)
		}
	}
	slices.Sort(changed)
	return changed
}
