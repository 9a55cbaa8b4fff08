package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/azalea/pkg/models"
)

func validListing(url string) models.Listing {
	return models.Listing{
		URL:      url,
		Name:     "パークタワー渋谷",
		PriceMan: 8980,
		Address:  "東京都渋谷区神南1丁目",
	}
}

func TestValidate(t *testing.T) {
	t.Run("empty batch is an error", func(t *testing.T) {
		report := Validate(nil)

		assert.True(t, report.HasErrors())
		assert.False(t, report.HasWarnings())
	})

	t.Run("clean batch has no findings", func(t *testing.T) {
		report := Validate([]models.Listing{
			validListing("https://example.jp/a"),
			validListing("https://example.jp/b"),
		})

		assert.False(t, report.HasErrors())
		assert.False(t, report.HasWarnings())
	})

	t.Run("missing fields accumulate as warnings", func(t *testing.T) {
		report := Validate([]models.Listing{{}})

		assert.False(t, report.HasErrors())
		fields := make([]string, 0, len(report.Warnings))
		for _, w := range report.Warnings {
			assert.Equal(t, 0, w.Index)
			fields = append(fields, w.Field)
		}
		assert.ElementsMatch(t, []string{"url", "name", "price_man", "address"}, fields)
	})

	t.Run("duplicate url", func(t *testing.T) {
		report := Validate([]models.Listing{
			validListing("https://example.jp/a"),
			validListing("https://example.jp/a"),
		})

		require.Len(t, report.Warnings, 1)
		assert.Equal(t, 1, report.Warnings[0].Index)
		assert.Equal(t, "url", report.Warnings[0].Field)
		assert.Contains(t, report.Warnings[0].Message, "duplicate")
	})

	t.Run("price range checks", func(t *testing.T) {
		tests := []struct {
			name    string
			price   float64
			message string
		}{
			{"negative", -100, "negative"},
			{"zero", 0, "missing or zero"},
			{"implausibly large", 2_000_000, "implausibly large"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				l := validListing("https://example.jp/a")
				l.PriceMan = tt.price

				report := Validate([]models.Listing{l})

				require.Len(t, report.Warnings, 1)
				assert.Contains(t, report.Warnings[0].Message, tt.message)
			})
		}
	})

	t.Run("soft problems never halt later records", func(t *testing.T) {
		report := Validate([]models.Listing{
			{},
			validListing("https://example.jp/b"),
			{Name: "名前のみ"},
		})

		assert.False(t, report.HasErrors())
		indexes := make(map[int]bool)
		for _, w := range report.Warnings {
			indexes[w.Index] = true
		}
		assert.True(t, indexes[0])
		assert.True(t, indexes[2])
		assert.False(t, indexes[1])
	})
}
