package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/azalea/pkg/kafka"
	"github.com/Ramsey-B/azalea/pkg/models"
)

type capturingPublisher struct {
	published []*kafka.ListingEvent
	err       error
}

func (p *capturingPublisher) PublishListingEvent(ctx context.Context, event *kafka.ListingEvent) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, event)
	return nil
}

func (p *capturingPublisher) PublishListingEvents(ctx context.Context, events []*kafka.ListingEvent) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, events...)
	return nil
}

func newTestEmitter() (*Emitter, *capturingPublisher) {
	publisher := &capturingPublisher{}
	logger := ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {})
	return NewEmitter(publisher, logger), publisher
}

func storedFixture() *models.StoredListing {
	return &models.StoredListing{
		IdentityHash: "abc123",
		Source:       "suumo",
		Ward:         "渋谷区",
		PriceMan:     8980,
		Data:         json.RawMessage(`{"name":"パークコート渋谷"}`),
	}
}

func TestEmitterLifecycleEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("created event carries identity and price", func(t *testing.T) {
		emitter, publisher := newTestEmitter()

		err := emitter.EmitListingCreated(ctx, storedFixture())
		require.NoError(t, err)
		require.Len(t, publisher.published, 1)

		event := publisher.published[0]
		assert.Equal(t, "listing.created", event.EventType)
		assert.Equal(t, "abc123", event.IdentityHash)
		assert.Equal(t, "渋谷区", event.Ward)
		assert.Equal(t, 8980.0, event.PriceMan)
	})

	t.Run("price change event keeps the old price", func(t *testing.T) {
		emitter, publisher := newTestEmitter()

		err := emitter.EmitPriceChanged(ctx, storedFixture(), 9480)
		require.NoError(t, err)
		require.Len(t, publisher.published, 1)

		event := publisher.published[0]
		assert.Equal(t, "listing.price_changed", event.EventType)
		assert.Equal(t, 9480.0, event.OldPriceMan)
		assert.Equal(t, 8980.0, event.PriceMan)
	})

	t.Run("publisher failure propagates", func(t *testing.T) {
		emitter, publisher := newTestEmitter()
		publisher.err = errors.New("broker unavailable")

		err := emitter.EmitListingUpdated(ctx, storedFixture())
		assert.Error(t, err)
	})
}

func TestEmitListingEnriched(t *testing.T) {
	ctx := context.Background()
	emitter, publisher := newTestEmitter()

	days := 12
	enriched := models.EnrichedListing{
		InvestmentScore:   74.5,
		AssetRank:         "A",
		CompetingListings: 3,
		DaysOnMarket:      &days,
	}
	enriched.PriceMan = 8980

	err := emitter.EmitListingEnriched(ctx, "abc123", "suumo", enriched)
	require.NoError(t, err)
	require.Len(t, publisher.published, 1)

	event := publisher.published[0]
	assert.Equal(t, "listing.enriched", event.EventType)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(event.Data, &payload))
	assert.Equal(t, SchemaVersion, payload["schema_version"])
	assert.Equal(t, 74.5, payload["investment_score"])
	assert.Equal(t, "A", payload["asset_rank"])
	assert.Equal(t, 3.0, payload["competing_listings"])
	assert.Equal(t, 12.0, payload["days_on_market"])
}

func TestEmitListingEnrichedOmitsAbsentDaysOnMarket(t *testing.T) {
	ctx := context.Background()
	emitter, publisher := newTestEmitter()

	err := emitter.EmitListingEnriched(ctx, "abc123", "suumo", models.EnrichedListing{AssetRank: "C"})
	require.NoError(t, err)
	require.Len(t, publisher.published, 1)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(publisher.published[0].Data, &payload))
	_, present := payload["days_on_market"]
	assert.False(t, present)
}
