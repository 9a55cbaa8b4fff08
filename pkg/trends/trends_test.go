package trends

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/azalea/pkg/models"
)

func TestAggregate(t *testing.T) {
	t.Run("groups by ward and quarter", func(t *testing.T) {
		listings := []models.Listing{
			{Address: "東京都渋谷区神南1丁目", AddedAt: "2025-01-15"},
			{Address: "東京都渋谷区桜丘町", AddedAt: "2025-04-02"},
			{Address: "東京都港区六本木", AddedAt: "2025-02-28"},
		}

		trend := Aggregate(listings)

		assert.Equal(t, 3, trend.TotalCount)
		assert.Equal(t, []string{"渋谷区", "港区"}, trend.Wards)
		assert.Equal(t, []string{"2025Q1", "2025Q2"}, trend.Quarters)

		shibuya := trend.ByWard["渋谷区"]
		require.Equal(t, 2, shibuya.Count)
		assert.Equal(t, 1, shibuya.Quarters["2025Q1"])
		assert.Equal(t, 1, shibuya.Quarters["2025Q2"])

		minato := trend.ByWard["港区"]
		assert.Equal(t, 1, minato.Count)
		assert.Equal(t, 1, minato.Quarters["2025Q1"])
	})

	t.Run("sentinel buckets", func(t *testing.T) {
		listings := []models.Listing{
			{Address: "北海道札幌市", AddedAt: "not-a-date"},
			{Address: "", AddedAt: ""},
		}

		trend := Aggregate(listings)

		assert.Equal(t, 2, trend.TotalCount)
		unknown, ok := trend.ByWard[WardUnknown]
		require.True(t, ok)
		assert.Equal(t, 2, unknown.Count)
		assert.Equal(t, 2, unknown.Quarters[QuarterUnclassified])
		assert.Equal(t, []string{QuarterUnclassified}, trend.Quarters)
	})

	t.Run("prefers added_at over first_seen", func(t *testing.T) {
		listings := []models.Listing{
			{Address: "東京都港区", AddedAt: "2025-07-01", FirstSeen: "2024-01-01"},
		}

		trend := Aggregate(listings)

		assert.Equal(t, []string{"2025Q3"}, trend.Quarters)
	})

	t.Run("empty input", func(t *testing.T) {
		trend := Aggregate(nil)

		assert.Equal(t, 0, trend.TotalCount)
		assert.Empty(t, trend.ByWard)
		assert.Empty(t, trend.Wards)
		assert.Empty(t, trend.Quarters)
	})
}

func TestQuarterLabel(t *testing.T) {
	tests := []struct {
		date     string
		expected string
	}{
		{"2025-01-15", "2025Q1"},
		{"2025-03-31", "2025Q1"},
		{"2025-04-01", "2025Q2"},
		{"2025-09-30", "2025Q3"},
		{"2025-12-25", "2025Q4"},
		{"2025-07", "2025Q3"},
		{"2025-07-01T12:00:00Z", "2025Q3"},
		{"", QuarterUnclassified},
		{"2025", QuarterUnclassified},
		{"2025/07/01", QuarterUnclassified},
		{"2025-13-01", QuarterUnclassified},
		{"abcd-ef", QuarterUnclassified},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.expected, QuarterLabel(tt.date))
		})
	}
}
