// Package events handles event emission for listing lifecycle changes
package events

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/azalea/pkg/kafka"
	"github.com/Ramsey-B/azalea/pkg/models"
	"github.com/Ramsey-B/azalea/pkg/tracing"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// Publisher is the Kafka surface the emitter needs, an interface so
// the pipeline can be tested without a broker.
type Publisher interface {
	PublishListingEvent(ctx context.Context, event *kafka.ListingEvent) error
	PublishListingEvents(ctx context.Context, events []*kafka.ListingEvent) error
}

// Emitter publishes listing lifecycle events
type Emitter struct {
	producer Publisher
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer Publisher, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitListingCreated emits a listing.created event
func (e *Emitter) EmitListingCreated(ctx context.Context, stored *models.StoredListing) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitListingCreated")
	defer span.End()

	event := &kafka.ListingEvent{
		EventType:    "listing.created",
		IdentityHash: stored.IdentityHash,
		Source:       stored.Source,
		Ward:         stored.Ward,
		PriceMan:     stored.PriceMan,
		Data:         stored.Data,
	}

	if err := e.producer.PublishListingEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit listing.created event")
		return err
	}

	return nil
}

// EmitListingUpdated emits a listing.updated event when a known
// identity is seen again with changed non-key fields.
func (e *Emitter) EmitListingUpdated(ctx context.Context, stored *models.StoredListing) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitListingUpdated")
	defer span.End()

	event := &kafka.ListingEvent{
		EventType:    "listing.updated",
		IdentityHash: stored.IdentityHash,
		Source:       stored.Source,
		Ward:         stored.Ward,
		PriceMan:     stored.PriceMan,
		Data:         stored.Data,
	}

	if err := e.producer.PublishListingEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit listing.updated event")
		return err
	}

	return nil
}

// EmitPriceChanged emits a listing.price_changed event
func (e *Emitter) EmitPriceChanged(ctx context.Context, stored *models.StoredListing, oldPriceMan float64) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitPriceChanged")
	defer span.End()

	event := &kafka.ListingEvent{
		EventType:    "listing.price_changed",
		IdentityHash: stored.IdentityHash,
		Source:       stored.Source,
		Ward:         stored.Ward,
		PriceMan:     stored.PriceMan,
		OldPriceMan:  oldPriceMan,
		Data:         stored.Data,
	}

	if err := e.producer.PublishListingEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit listing.price_changed event")
		return err
	}

	return nil
}

// EmitListingEnriched emits a listing.enriched event carrying the
// derived investment metrics.
func (e *Emitter) EmitListingEnriched(ctx context.Context, identityHash, source string, enriched models.EnrichedListing) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitListingEnriched")
	defer span.End()

	data := map[string]any{
		"schema_version":     SchemaVersion,
		"investment_score":   enriched.InvestmentScore,
		"asset_rank":         enriched.AssetRank,
		"competing_listings": enriched.CompetingListings,
	}
	if enriched.DaysOnMarket != nil {
		data["days_on_market"] = *enriched.DaysOnMarket
	}
	dataJSON, _ := json.Marshal(data)

	event := &kafka.ListingEvent{
		EventType:    "listing.enriched",
		IdentityHash: identityHash,
		Source:       source,
		PriceMan:     enriched.PriceMan,
		Data:         dataJSON,
	}

	if err := e.producer.PublishListingEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit listing.enriched event")
		return err
	}

	return nil
}
