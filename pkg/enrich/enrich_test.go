package enrich

import (
	"context"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/azalea/pkg/models"
	"github.com/Ramsey-B/azalea/pkg/projection"
)

var referenceTime = time.Date(2025, 2, 25, 0, 0, 0, 0, time.UTC)

type stubPredictor struct {
	value *float64
	err   error
}

func (s *stubPredictor) PredictValue(ctx context.Context, listing models.Listing) (*float64, error) {
	return s.value, s.err
}

func fptr(f float64) *float64 { return &f }

func newTestEnricher(predictor projection.ValuePredictor) *Enricher {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	provider := projection.NewProvider(func() (projection.Engine, error) {
		return projection.NewResidualProjector(predictor), nil
	})
	return New(logger, provider).WithClock(func() time.Time { return referenceTime })
}

func TestDaysOnMarket(t *testing.T) {
	e := newTestEnricher(&stubPredictor{})

	tests := []struct {
		name     string
		listing  models.Listing
		expected *int
	}{
		{"bare date", models.Listing{AddedAt: "2025-02-20"}, iptr(5)},
		{"full timestamp", models.Listing{AddedAt: "2025-02-20T00:00:00Z"}, iptr(5)},
		{"first_seen fallback", models.Listing{FirstSeen: "2025-02-15"}, iptr(10)},
		{"added_at preferred", models.Listing{AddedAt: "2025-02-24", FirstSeen: "2025-01-01"}, iptr(1)},
		{"no date is unknown", models.Listing{}, nil},
		{"garbage is unknown", models.Listing{AddedAt: "最近"}, nil},
		{"future date clamps to zero", models.Listing{AddedAt: "2025-03-01"}, iptr(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := e.DaysOnMarket(tt.listing)
			if tt.expected == nil {
				assert.Nil(t, result)
				return
			}
			require.NotNil(t, result)
			assert.Equal(t, *tt.expected, *result)
		})
	}
}

func iptr(i int) *int { return &i }

func TestCompetingListings(t *testing.T) {
	t.Run("same building same ward", func(t *testing.T) {
		batch := []models.Listing{
			{Name: "パークタワー渋谷", Address: "東京都渋谷区神南1丁目"},
			{Name: "【値下げ】パークタワー渋谷（3階）", Address: "東京都渋谷区神南1丁目"},
			{Name: "六本木ヒルズレジデンス", Address: "東京都港区六本木"},
		}

		assert.Equal(t, 2, CompetingListings(batch[0], batch))
		assert.Equal(t, 2, CompetingListings(batch[1], batch))
		assert.Equal(t, 1, CompetingListings(batch[2], batch))
	})

	t.Run("same name different ward does not compete", func(t *testing.T) {
		batch := []models.Listing{
			{Name: "パークハウス", Address: "東京都渋谷区神南"},
			{Name: "パークハウス", Address: "東京都港区六本木"},
		}

		assert.Equal(t, 1, CompetingListings(batch[0], batch))
	})

	t.Run("singleton batch returns 1", func(t *testing.T) {
		l := models.Listing{Name: "単独物件", Address: "東京都中央区"}
		assert.Equal(t, 1, CompetingListings(l, []models.Listing{l}))
	})

	t.Run("never below 1", func(t *testing.T) {
		l := models.Listing{Name: "迷子", Address: "どこか"}
		assert.Equal(t, 1, CompetingListings(l, nil))
	})
}

func TestInvestmentScore(t *testing.T) {
	ctx := context.Background()

	t.Run("healthy projection scores above zero", func(t *testing.T) {
		e := newTestEnricher(&stubPredictor{value: fptr(12000)})
		listing := models.Listing{Name: "テスト", PriceMan: 8000}

		score, rank := e.InvestmentScore(ctx, listing)

		assert.Greater(t, score, 0.0)
		assert.LessOrEqual(t, score, 100.0)
		assert.NotEqual(t, models.AssetRankC, rank.Rank)
	})

	t.Run("projection error degrades to worst case", func(t *testing.T) {
		e := newTestEnricher(&stubPredictor{err: errors.New("model unavailable")})

		score, rank := e.InvestmentScore(ctx, models.Listing{PriceMan: 8000})

		assert.Equal(t, 0.0, score)
		assert.Equal(t, models.AssetRankC, rank.Rank)
	})

	t.Run("provider failure degrades to worst case", func(t *testing.T) {
		logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
		provider := projection.NewProvider(func() (projection.Engine, error) {
			return nil, errors.New("model file missing")
		})
		e := New(logger, provider)

		score, rank := e.InvestmentScore(ctx, models.Listing{PriceMan: 8000})

		assert.Equal(t, 0.0, score)
		assert.Equal(t, models.AssetRankC, rank.Rank)
	})
}

func TestEnrich(t *testing.T) {
	ctx := context.Background()

	t.Run("preserves all original fields", func(t *testing.T) {
		e := newTestEnricher(&stubPredictor{value: fptr(9500)})
		listing := models.Listing{
			URL:      "https://suumo.jp/x",
			Name:     "パークタワー渋谷",
			Layout:   "2LDK",
			AreaM2:   55.3,
			PriceMan: 8980,
			Address:  "東京都渋谷区神南1丁目",
			AddedAt:  "2025-02-20",
			Source:   models.SourceSuumo,
		}

		enriched := e.Enrich(ctx, listing, []models.Listing{listing}, nil)

		assert.Equal(t, listing, enriched.Listing)
		require.NotNil(t, enriched.DaysOnMarket)
		assert.Equal(t, 5, *enriched.DaysOnMarket)
		assert.Equal(t, 1, enriched.CompetingListings)
	})

	t.Run("empty history is omitted", func(t *testing.T) {
		e := newTestEnricher(&stubPredictor{})

		enriched := e.Enrich(ctx, models.Listing{Name: "x"}, nil, []models.PricePoint{})

		assert.Nil(t, enriched.PriceHistory)
	})

	t.Run("non-empty history is attached verbatim", func(t *testing.T) {
		e := newTestEnricher(&stubPredictor{})
		history := []models.PricePoint{
			{Date: "2025-01-01", PriceMan: 9200},
			{Date: "2025-02-01", PriceMan: 8980},
		}

		enriched := e.Enrich(ctx, models.Listing{Name: "x"}, nil, history)

		assert.Equal(t, history, enriched.PriceHistory)
	})
}

func TestEnrichBatch(t *testing.T) {
	e := newTestEnricher(&stubPredictor{value: fptr(9500)})
	batch := []models.Listing{
		{Name: "パークタワー渋谷", Address: "東京都渋谷区神南", PriceMan: 8980},
		{Name: "パークタワー渋谷", Address: "東京都渋谷区神南", PriceMan: 9100},
	}

	enriched := e.EnrichBatch(context.Background(), batch, nil)

	require.Len(t, enriched, 2)
	assert.Equal(t, 2, enriched[0].CompetingListings)
	assert.Equal(t, 2, enriched[1].CompetingListings)
}
