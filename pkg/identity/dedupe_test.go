package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/azalea/pkg/models"
)

func TestDedupe(t *testing.T) {
	t.Run("first occurrence wins", func(t *testing.T) {
		a := sampleListing()
		dup := sampleListing()
		dup.URL = "https://www.homes.co.jp/mansion/b-98765/"
		dup.Source = models.SourceHomes
		other := sampleListing()
		other.Name = "別のマンション"

		result := Dedupe([]models.Listing{a, dup, other})

		assert.Len(t, result, 2)
		assert.Equal(t, a.URL, result[0].URL)
		assert.Equal(t, other.Name, result[1].Name)
	})

	t.Run("preserves order", func(t *testing.T) {
		listings := make([]models.Listing, 5)
		for i := range listings {
			listings[i] = sampleListing()
			listings[i].WalkMin = i
		}

		result := Dedupe(listings)

		assert.Len(t, result, 5)
		for i, l := range result {
			assert.Equal(t, i, l.WalkMin)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		listings := []models.Listing{sampleListing(), sampleListing(), sampleListing()}

		once := Dedupe(listings)
		twice := Dedupe(once)

		assert.Equal(t, once, twice)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Dedupe(nil))
		assert.Empty(t, Dedupe([]models.Listing{}))
	})
}

func TestDetectChanges(t *testing.T) {
	t.Run("new listing is created", func(t *testing.T) {
		cs := DetectChanges(nil, []models.Listing{sampleListing()})

		assert.Len(t, cs.Created, 1)
		assert.Empty(t, cs.Updated)
		assert.Empty(t, cs.PriceChanged)
	})

	t.Run("known listing is updated", func(t *testing.T) {
		l := sampleListing()
		cs := DetectChanges([]models.Listing{l}, []models.Listing{l})

		assert.Empty(t, cs.Created)
		assert.Len(t, cs.Updated, 1)
		assert.Empty(t, cs.PriceChanged)
	})

	t.Run("price movement is a price change", func(t *testing.T) {
		old := sampleListing()
		updated := sampleListing()
		updated.PriceMan = 8480

		cs := DetectChanges([]models.Listing{old}, []models.Listing{updated})

		assert.Empty(t, cs.Created)
		assert.Empty(t, cs.Updated)
		assert.Len(t, cs.PriceChanged, 1)
		assert.Equal(t, 8980.0, cs.PriceChanged[0].OldPrice)
		assert.Equal(t, 8480.0, cs.PriceChanged[0].NewPrice)
	})

	t.Run("different unit with new price is created", func(t *testing.T) {
		old := sampleListing()
		incoming := sampleListing()
		incoming.Name = "クレストタワー品川"
		incoming.PriceMan = 6500

		cs := DetectChanges([]models.Listing{old}, []models.Listing{incoming})

		assert.Len(t, cs.Created, 1)
		assert.Empty(t, cs.PriceChanged)
	})
}
