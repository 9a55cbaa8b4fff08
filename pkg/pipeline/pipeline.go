// Package pipeline runs scraped listing batches through validation,
// deduplication, change detection, enrichment and persistence.
package pipeline

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/azalea/pkg/enrich"
	"github.com/Ramsey-B/azalea/pkg/identity"
	"github.com/Ramsey-B/azalea/pkg/models"
	"github.com/Ramsey-B/azalea/pkg/normalizers"
	"github.com/Ramsey-B/azalea/pkg/quality"
	"github.com/Ramsey-B/azalea/pkg/tracing"
)

// ListingStore is the persistence surface the pipeline needs
type ListingStore interface {
	GetAll(ctx context.Context) ([]models.StoredListing, error)
	UpsertBatch(ctx context.Context, stored []models.StoredListing) error
}

// PriceHistoryStore records and serves per-identity price series
type PriceHistoryStore interface {
	Record(ctx context.Context, identityHash, observedOn string, priceMan float64) error
	HistoryForAll(ctx context.Context, identityHashes []string) (map[string][]models.PricePoint, error)
}

// EventEmitter publishes listing lifecycle events
type EventEmitter interface {
	EmitListingCreated(ctx context.Context, stored *models.StoredListing) error
	EmitListingUpdated(ctx context.Context, stored *models.StoredListing) error
	EmitPriceChanged(ctx context.Context, stored *models.StoredListing, oldPriceMan float64) error
	EmitListingEnriched(ctx context.Context, identityHash, source string, enriched models.EnrichedListing) error
}

// Processor orchestrates batch processing
type Processor struct {
	store    ListingStore
	history  PriceHistoryStore
	emitter  EventEmitter
	enricher *enrich.Enricher
	logger   ectologger.Logger
	clock    func() time.Time
}

// NewProcessor creates a pipeline processor
func NewProcessor(store ListingStore, history PriceHistoryStore, emitter EventEmitter, enricher *enrich.Enricher, logger ectologger.Logger) *Processor {
	return &Processor{
		store:    store,
		history:  history,
		emitter:  emitter,
		enricher: enricher,
		logger:   logger,
		clock:    time.Now,
	}
}

// WithClock overrides the clock used for price observation dates
func (p *Processor) WithClock(clock func() time.Time) *Processor {
	p.clock = clock
	return p
}

// ProcessBatch runs one scraped batch through the full pipeline. A
// batch that fails hard validation is rejected; per-listing warnings
// are logged and counted but never stop the batch.
func (p *Processor) ProcessBatch(ctx context.Context, source string, incoming []models.Listing) (*models.IngestListingsResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "pipeline.Processor.ProcessBatch")
	defer span.End()

	log := p.logger.WithContext(ctx).WithFields(map[string]any{
		"source":   source,
		"received": len(incoming),
	})

	report := quality.Validate(incoming)
	if report.HasErrors() {
		return nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "batch rejected: %s", report.Errors[0].Message)
	}
	for _, warning := range report.Warnings {
		log.WithField("finding", warning.String()).Warn("Listing failed a soft check")
	}

	deduped := identity.Dedupe(incoming)

	previous, err := p.loadPrevious(ctx)
	if err != nil {
		return nil, err
	}

	changes := identity.DetectChanges(previous, deduped)

	if err := p.persist(ctx, source, deduped); err != nil {
		return nil, err
	}
	p.recordPrices(ctx, deduped)
	p.emitChanges(ctx, source, changes)
	p.enrichAndEmit(ctx, source, deduped)

	response := &models.IngestListingsResponse{
		Received:  len(incoming),
		Deduped:   len(incoming) - len(deduped),
		Created:   len(changes.Created),
		Updated:   len(changes.PriceChanged),
		Unchanged: len(changes.Updated),
		Warnings:  len(report.Warnings),
	}

	log.WithFields(map[string]any{
		"created":   response.Created,
		"updated":   response.Updated,
		"unchanged": response.Unchanged,
	}).Info("Processed listing batch")

	return response, nil
}

func (p *Processor) loadPrevious(ctx context.Context) ([]models.Listing, error) {
	stored, err := p.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	previous := make([]models.Listing, 0, len(stored))
	for i := range stored {
		l, err := stored[i].Unpack()
		if err != nil {
			p.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"identity_hash": stored[i].IdentityHash,
			}).Warn("Skipping stored listing with undecodable data")
			continue
		}
		previous = append(previous, l)
	}
	return previous, nil
}

func (p *Processor) persist(ctx context.Context, source string, listings []models.Listing) error {
	stored := make([]models.StoredListing, 0, len(listings))
	for i := range listings {
		s, err := Pack(source, listings[i])
		if err != nil {
			p.logger.WithContext(ctx).WithError(err).Warn("Skipping unencodable listing")
			continue
		}
		stored = append(stored, *s)
	}
	return p.store.UpsertBatch(ctx, stored)
}

func (p *Processor) recordPrices(ctx context.Context, listings []models.Listing) {
	observedOn := p.clock().UTC().Format("2006-01-02")
	for i := range listings {
		l := &listings[i]
		if l.PriceMan <= 0 {
			continue
		}
		if err := p.history.Record(ctx, identity.HashOf(*l), observedOn, l.PriceMan); err != nil {
			p.logger.WithContext(ctx).WithError(err).Warn("Failed to record price observation")
		}
	}
}

func (p *Processor) emitChanges(ctx context.Context, source string, changes identity.ChangeSet) {
	for i := range changes.Created {
		stored, err := Pack(source, changes.Created[i])
		if err != nil {
			continue
		}
		if err := p.emitter.EmitListingCreated(ctx, stored); err != nil {
			p.logger.WithContext(ctx).WithError(err).Warn("Failed to emit created event")
		}
	}
	for i := range changes.Updated {
		stored, err := Pack(source, changes.Updated[i])
		if err != nil {
			continue
		}
		if err := p.emitter.EmitListingUpdated(ctx, stored); err != nil {
			p.logger.WithContext(ctx).WithError(err).Warn("Failed to emit updated event")
		}
	}
	for i := range changes.PriceChanged {
		change := changes.PriceChanged[i]
		stored, err := Pack(source, change.Listing)
		if err != nil {
			continue
		}
		if err := p.emitter.EmitPriceChanged(ctx, stored, change.OldPrice); err != nil {
			p.logger.WithContext(ctx).WithError(err).Warn("Failed to emit price_changed event")
		}
	}
}

func (p *Processor) enrichAndEmit(ctx context.Context, source string, listings []models.Listing) {
	hashes := make([]string, len(listings))
	for i := range listings {
		hashes[i] = identity.HashOf(listings[i])
	}

	histories, err := p.history.HistoryForAll(ctx, hashes)
	if err != nil {
		p.logger.WithContext(ctx).WithError(err).Warn("Price history unavailable, enriching without it")
		histories = map[string][]models.PricePoint{}
	}

	enriched := p.enricher.EnrichBatch(ctx, listings, func(l models.Listing) []models.PricePoint {
		return histories[identity.HashOf(l)]
	})

	for i := range enriched {
		if err := p.emitter.EmitListingEnriched(ctx, hashes[i], source, enriched[i]); err != nil {
			p.logger.WithContext(ctx).WithError(err).Warn("Failed to emit enriched event")
		}
	}
}

// Pack builds the persisted form of a listing: identity hash, the
// extracted ward and the full record as JSON.
func Pack(source string, l models.Listing) (*models.StoredListing, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	if source == "" {
		source = string(l.Source)
	}
	return &models.StoredListing{
		IdentityHash: identity.HashOf(l),
		URL:          l.URL,
		Source:       source,
		Ward:         normalizers.ExtractWard(l.Address),
		PriceMan:     l.PriceMan,
		Data:         data,
	}, nil
}
