package enrichment

import (
	"context"
	"sync"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/push-server/internal/pkg/errors"
	"github.com/darkkaiser/push-server/internal/service/cache"
	"github.com/darkkaiser/push-server/internal/service/catalog"
	"github.com/darkkaiser/push-server/internal/service/contract"
	"github.com/darkkaiser/push-server/internal/service/locale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRows 테이블/id별 행을 돌려주는 테스트용 RowFetcher
type fakeRows struct {
	mu      sync.Mutex
	rows    map[string]map[string]map[string]any // table -> id -> row
	failing map[string]bool
	calls   map[string]int
}

func newFakeRows() *fakeRows {
	return &fakeRows{
		rows:    make(map[string]map[string]map[string]any),
		failing: make(map[string]bool),
		calls:   make(map[string]int),
	}
}

func (f *fakeRows) put(table, id string, row map[string]any) *fakeRows {
	if f.rows[table] == nil {
		f.rows[table] = make(map[string]map[string]any)
	}
	f.rows[table][id] = row
	return f
}

func (f *fakeRows) callCount(table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[table]
}

func (f *fakeRows) FetchRow(_ context.Context, table, id string, columns ...string) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[table]++
	if f.failing[table] {
		return nil, apperrors.New(apperrors.Unavailable, "connection refused")
	}
	row, ok := f.rows[table][id]
	if !ok {
		return nil, apperrors.New(apperrors.NotFound, "not found")
	}

	out := make(map[string]any, len(columns))
	for _, c := range columns {
		if v, ok := row[c]; ok {
			out[c] = v
		}
	}
	return out, nil
}

func newTestResolver(rows *fakeRows, names cache.Cache) *Resolver {
	return NewResolver(catalog.DefaultRegistry(), rows, names, locale.MustNew("ar"), Options{})
}

func TestResolver_Listing(t *testing.T) {
	rows := newFakeRows().
		put("products", "p1", map[string]any{"name": "Amoxicillin"}).
		put("ocr_products", "o1", map[string]any{"product_name": "Ivermectin"}).
		put("users", "d1", map[string]any{"full_name": "", "username": "vetco"}).
		put(catalog.TableDistributorProducts, "row-1", map[string]any{"expiration_date": "2026-11-15"})

	r := newTestResolver(rows, nil)
	ctx := context.Background()

	t.Run("상품명과 유통사명을 조회하여 표시 이름을 만든다", func(t *testing.T) {
		ec := r.Enrich(ctx, contract.ChangeEvent{
			Operation: contract.OperationInsert,
			Table:     catalog.TableDistributorProducts,
			Record: map[string]any{
				"id":              "row-1",
				"product_id":      "p1",
				"distributor_id":  "d1",
				"price":           100,
				"expiration_date": "2026-12-01",
			},
		})

		assert.Equal(t, "Amoxicillin", ec.ItemName)
		assert.Equal(t, "vetco", ec.DistributorName)
		assert.Equal(t, "Amoxicillin - vetco", ec.DisplayName)
		assert.Equal(t, "d1", ec.DistributorID)
		assert.True(t, ec.HasExpiration)
		assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), ec.Expiration.UTC())
		assert.False(t, ec.Degraded)

		// 이벤트에 유통기한이 있으면 다시 조회하지 않는다
		assert.Equal(t, 0, rows.callCount(catalog.TableDistributorProducts))
	})

	t.Run("유통기한이 없으면 같은 테이블에서 조회한다", func(t *testing.T) {
		ec := r.Enrich(ctx, contract.ChangeEvent{
			Operation: contract.OperationInsert,
			Table:     catalog.TableDistributorProducts,
			Record:    map[string]any{"id": "row-1", "product_id": "p1", "distributor_id": "d1"},
		})

		assert.True(t, ec.HasExpiration)
		assert.Equal(t, time.Date(2026, 11, 15, 0, 0, 0, 0, time.UTC), ec.Expiration.UTC())
		assert.Equal(t, 1, rows.callCount(catalog.TableDistributorProducts))
	})

	t.Run("OCR 상품은 ocr_products에서 이름을 조회한다", func(t *testing.T) {
		ec := r.Enrich(ctx, contract.ChangeEvent{
			Operation: contract.OperationInsert,
			Table:     catalog.TableDistributorOCRProducts,
			Record:    map[string]any{"id": "row-9", "ocr_product_id": "o1", "expiration_date": nil},
		})

		assert.Equal(t, "Ivermectin", ec.ItemName)
		assert.Equal(t, "Ivermectin", ec.DisplayName)
		assert.False(t, ec.HasExpiration)
	})
}

func TestResolver_LookupFailureUsesPlaceholder(t *testing.T) {
	rows := newFakeRows()
	rows.failing["products"] = true
	rows.failing["users"] = true

	r := newTestResolver(rows, nil)

	ec := r.Enrich(context.Background(), contract.ChangeEvent{
		Operation: contract.OperationInsert,
		Table:     catalog.TableDistributorProducts,
		Record:    map[string]any{"id": "row-1", "product_id": "p1", "distributor_id": "d1", "expiration_date": "2026-12-01"},
	})

	assert.Equal(t, "منتج", ec.ItemName)
	assert.Equal(t, "", ec.DistributorName)
	assert.Equal(t, "منتج", ec.DisplayName)
	assert.True(t, ec.Degraded)
}

func TestResolver_NameCache(t *testing.T) {
	rows := newFakeRows().
		put("products", "p1", map[string]any{"name": "Amoxicillin"}).
		put("users", "d1", map[string]any{"full_name": "Vet Co"})

	r := newTestResolver(rows, cache.NewMemory(100))
	ev := contract.ChangeEvent{
		Operation: contract.OperationInsert,
		Table:     catalog.TableDistributorProducts,
		Record:    map[string]any{"id": "row-1", "product_id": "p1", "distributor_id": "d1", "expiration_date": "2026-12-01"},
	}

	first := r.Enrich(context.Background(), ev)
	second := r.Enrich(context.Background(), ev)

	assert.Equal(t, first.DisplayName, second.DisplayName)
	assert.Equal(t, "Amoxicillin - Vet Co", second.DisplayName)
	assert.Equal(t, 1, rows.callCount("products"))
	assert.Equal(t, 1, rows.callCount("users"))
}

func TestResolver_ConcurrentLookupsShareCache(t *testing.T) {
	rows := newFakeRows().
		put("products", "p1", map[string]any{"name": "Amoxicillin"}).
		put("users", "d1", map[string]any{"full_name": "Vet Co"})

	r := newTestResolver(rows, cache.NewMemory(100))
	ev := contract.ChangeEvent{
		Operation: contract.OperationInsert,
		Table:     catalog.TableDistributorProducts,
		Record:    map[string]any{"id": "row-1", "product_id": "p1", "distributor_id": "d1", "expiration_date": "2026-12-01"},
	}

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ec := r.Enrich(context.Background(), ev)
			assert.Equal(t, "Amoxicillin - Vet Co", ec.DisplayName)
		}()
	}
	wg.Wait()

	// 동시에 들어온 이벤트도 같은 이름은 한 번만 조회한다
	assert.Equal(t, 1, rows.callCount("products"))
	assert.Equal(t, 1, rows.callCount("users"))
}

func TestResolver_Offer(t *testing.T) {
	rows := newFakeRows().
		put("products", "p1", map[string]any{"name": "Amoxicillin"}).
		put("ocr_products", "p2", map[string]any{"product_name": "Ivermectin"})

	r := newTestResolver(rows, nil)

	tests := []struct {
		name   string
		record map[string]any
		want   string
	}{
		{"일반 상품과 설명", map[string]any{"id": "1", "product_id": "p1", "description": "خصم 20%"}, "Amoxicillin - خصم 20%"},
		{"OCR 상품", map[string]any{"id": "2", "product_id": "p2", "is_ocr": true, "description": "1+1"}, "Ivermectin - 1+1"},
		{"설명이 없으면 대체 문구", map[string]any{"id": "3", "product_id": "p1", "description": nil}, "Amoxicillin - عرض"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ec := r.Enrich(context.Background(), contract.ChangeEvent{
				Operation: contract.OperationInsert,
				Table:     catalog.TableOffers,
				Record:    tt.record,
			})
			assert.Equal(t, tt.want, ec.DisplayName)
		})
	}
}

func TestResolver_MissingRequired(t *testing.T) {
	r := NewResolver(catalog.DefaultRegistry(), nil, nil, locale.MustNew("ar"), Options{})
	ctx := context.Background()

	tests := []struct {
		name   string
		op     contract.Operation
		table  string
		record map[string]any
		want   bool
	}{
		{"설명이 nil인 행사 Insert", contract.OperationInsert, catalog.TableOffers, map[string]any{"id": "1", "description": nil}, true},
		{"설명 키가 없는 행사 Insert", contract.OperationInsert, catalog.TableOffers, map[string]any{"id": "1"}, true},
		{"설명이 공백인 행사 Insert", contract.OperationInsert, catalog.TableOffers, map[string]any{"id": "1", "description": "  "}, true},
		{"설명이 있는 행사 Insert", contract.OperationInsert, catalog.TableOffers, map[string]any{"id": "1", "description": "1+1"}, false},
		{"설명이 없는 행사 Update", contract.OperationUpdate, catalog.TableOffers, map[string]any{"id": "1", "description": nil}, false},
		{"필수 필드가 없는 테이블", contract.OperationInsert, catalog.TableBooks, map[string]any{"id": "1"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := contract.ChangeEvent{Operation: tt.op, Table: tt.table, Record: tt.record}
			if tt.op == contract.OperationUpdate {
				ev.PreviousRecord = map[string]any{"id": "1", "description": "old"}
			}

			assert.Equal(t, tt.want, r.Enrich(ctx, ev).MissingRequired)
		})
	}
}

func TestResolver_RecordsWithoutLookup(t *testing.T) {
	r := NewResolver(catalog.DefaultRegistry(), nil, nil, locale.MustNew("ar"), Options{})
	ctx := context.Background()

	tests := []struct {
		name     string
		table    string
		record   map[string]any
		wantName string
		wantText string
	}{
		{"수술 도구 이름", catalog.TableSurgicalTools, map[string]any{"id": "1", "tool_name": "Scalpel"}, "Scalpel", ""},
		{"수술 도구 설명으로 대체", catalog.TableSurgicalTools, map[string]any{"id": "1", "description": "Forceps"}, "Forceps", ""},
		{"수술 도구 대체 문구", catalog.TableSurgicalTools, map[string]any{"id": "1"}, "أداة جراحية", ""},
		{"도서", catalog.TableBooks, map[string]any{"id": "1", "name": "Small Animal Surgery"}, "Small Animal Surgery", ""},
		{"강좌", catalog.TableCourses, map[string]any{"id": "1", "title": "Ultrasound 101"}, "Ultrasound 101", ""},
		{"리뷰", catalog.TableProductReviews, map[string]any{"id": "1", "product_name": "Amoxicillin", "comment": "  very   good "}, "Amoxicillin", "very good"},
		{"리뷰 요청", catalog.TableReviewRequests, map[string]any{"id": "1", "product_name": "Ivermectin"}, "Ivermectin", "Ivermectin"},
		{"등록되지 않은 테이블", "vet_events", map[string]any{"id": "1", "title": "Congress"}, "Congress", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ec := r.Enrich(ctx, contract.ChangeEvent{Operation: contract.OperationInsert, Table: tt.table, Record: tt.record})
			assert.Equal(t, tt.wantName, ec.ItemName)
			assert.Equal(t, tt.wantText, ec.Text)
			assert.False(t, ec.Degraded)
		})
	}
}

func TestResolver_DecodeFailureFallsBackToGeneric(t *testing.T) {
	r := NewResolver(catalog.DefaultRegistry(), nil, nil, locale.MustNew("ar"), Options{})

	ec := r.Enrich(context.Background(), contract.ChangeEvent{
		Operation: contract.OperationInsert,
		Table:     catalog.TableBooks,
		Record:    map[string]any{"id": "1", "name": "Anatomy", "price": "not-a-number"},
	})

	require.IsType(t, &catalog.GenericRecord{}, ec.Record)
	assert.True(t, ec.Degraded)
	assert.Equal(t, "Anatomy", ec.ItemName)
}

func TestChangedFields(t *testing.T) {
	prev := map[string]any{"id": "1", "price": 100.0, "views": 3.0, "note": "x"}
	cur := map[string]any{"id": "1", "price": 120.0, "views": 4.0, "updated_at": "now"}

	got := changedFields(prev, cur)
	assert.Equal(t, []string{"note", "price", "updated_at", "views"}, got)

	ec := EnrichedContext{ChangedFields: got}
	assert.True(t, ec.Changed("price"))
	assert.False(t, ec.Changed("id"))

	assert.Empty(t, changedFields(cur, cur))
}
