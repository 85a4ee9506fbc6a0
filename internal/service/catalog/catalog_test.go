package catalog

import (
	"testing"
	"time"

	"github.com/darkkaiser/push-server/internal/service/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry_Lookup(t *testing.T) {
	r := DefaultRegistry()

	t.Run("대량 등록 테이블", func(t *testing.T) {
		for _, name := range []string{TableDistributorProducts, TableDistributorOCRProducts} {
			tbl := r.Lookup(name)
			assert.Equal(t, name, tbl.Name)
			assert.Equal(t, KindListing, tbl.Kind)
			assert.True(t, tbl.Bulk)
			assert.True(t, tbl.TracksExpiry)
			assert.True(t, tbl.DistributorScoped)
		}
	})

	t.Run("offers는 description이 필수", func(t *testing.T) {
		tbl := r.Lookup(TableOffers)
		assert.Equal(t, []string{"description"}, tbl.RequiredFields)
		assert.Equal(t, contract.ScreenOffers, tbl.Screen)
	})

	t.Run("리뷰 테이블은 Insert만 처리", func(t *testing.T) {
		tbl := r.Lookup(TableProductReviews)
		assert.True(t, tbl.InsertOnly)
		assert.True(t, tbl.Review)
		assert.Equal(t, "comment", tbl.TextField)
	})

	t.Run("등록되지 않은 테이블은 기본 규칙", func(t *testing.T) {
		tbl := r.Lookup("stories")
		assert.Equal(t, "stories", tbl.Name)
		assert.False(t, tbl.IsKnown())
		assert.Equal(t, contract.ScreenHome, tbl.Screen)
	})
}

func TestDecode(t *testing.T) {
	t.Run("유통사 상품", func(t *testing.T) {
		rec, err := Decode(KindListing, map[string]any{
			"id":              float64(7),
			"product_id":      "p1",
			"distributor_id":  "d1",
			"price":           float64(120),
			"expiration_date": "2026-12-01",
			"views":           float64(3),
		})
		require.NoError(t, err)

		listing, ok := rec.(*ListingRecord)
		require.True(t, ok)
		assert.Equal(t, "7", listing.RecordID())
		assert.Equal(t, "d1", listing.DistributorID)
		price, ok := listing.PriceValue()
		assert.True(t, ok)
		assert.Equal(t, 120.0, price)
		require.NotNil(t, listing.ExpirationDate)
		assert.True(t, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC).Equal(*listing.ExpirationDate))
	})

	t.Run("offers의 null description", func(t *testing.T) {
		rec, err := Decode(KindOffer, map[string]any{"description": nil, "is_ocr": "true"})
		require.NoError(t, err)

		offer := rec.(*OfferRecord)
		assert.Nil(t, offer.Description)
		assert.Equal(t, "", offer.DescriptionText())
		assert.True(t, offer.IsOCR)
	})

	t.Run("등록되지 않은 형태는 GenericRecord", func(t *testing.T) {
		rec, err := Decode(KindGeneric, map[string]any{"id": "s1", "price": "15.5"})
		require.NoError(t, err)

		generic := rec.(*GenericRecord)
		assert.Equal(t, "s1", generic.RecordID())
		price, ok := generic.PriceValue()
		assert.True(t, ok)
		assert.Equal(t, 15.5, price)
	})

	t.Run("가격이 없는 레코드", func(t *testing.T) {
		rec, err := Decode(KindReview, map[string]any{"comment": "good"})
		require.NoError(t, err)
		_, ok := rec.PriceValue()
		assert.False(t, ok)
	})

	t.Run("nil 레코드", func(t *testing.T) {
		rec, err := Decode(KindListing, nil)
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("해석할 수 없는 값은 에러", func(t *testing.T) {
		_, err := Decode(KindListing, map[string]any{"expiration_date": "언젠가"})
		assert.Error(t, err)
	})
}
