// Package enrich attaches derived investment metrics to listings.
package enrich

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/azalea/pkg/models"
	"github.com/Ramsey-B/azalea/pkg/normalizers"
	"github.com/Ramsey-B/azalea/pkg/projection"
	"github.com/Ramsey-B/azalea/pkg/ranking"
	"github.com/Ramsey-B/azalea/pkg/tracing"
)

// Enricher computes investment metadata for listings. The clock is
// injectable so days-on-market is deterministic under test; it
// defaults to time.Now.
type Enricher struct {
	logger   ectologger.Logger
	provider *projection.Provider
	clock    func() time.Time
}

// New creates an Enricher backed by the shared projection provider.
func New(logger ectologger.Logger, provider *projection.Provider) *Enricher {
	return &Enricher{
		logger:   logger,
		provider: provider,
		clock:    time.Now,
	}
}

// WithClock overrides the reference clock. Returns the enricher for
// chaining during construction.
func (e *Enricher) WithClock(clock func() time.Time) *Enricher {
	e.clock = clock
	return e
}

// Enrich computes all investment metrics for a listing and returns an
// augmented copy. Every original field survives untouched; failures in
// individual metrics degrade to their zero/absent forms rather than
// failing the whole listing.
func (e *Enricher) Enrich(ctx context.Context, listing models.Listing, all []models.Listing, history []models.PricePoint) models.EnrichedListing {
	ctx, span := tracing.StartSpan(ctx, "enrich.Enricher.Enrich")
	defer span.End()

	enriched := models.EnrichedListing{Listing: listing}

	score, rank := e.InvestmentScore(ctx, listing)
	enriched.InvestmentScore = score
	enriched.AssetRank = string(rank.Rank)
	enriched.RankDetail = rank.Breakdown

	enriched.DaysOnMarket = e.DaysOnMarket(listing)
	enriched.CompetingListings = CompetingListings(listing, all)

	if len(history) > 0 {
		enriched.PriceHistory = history
	}

	return enriched
}

// InvestmentScore projects the listing and classifies its implied gain
// ratio. Any projection failure or missing input yields score 0 and
// rank C; enrichment never raises on a single bad listing.
func (e *Enricher) InvestmentScore(ctx context.Context, listing models.Listing) (float64, models.RankResult) {
	log := e.logger.WithContext(ctx).WithFields(map[string]any{
		"listingName": listing.Name,
		"listingURL":  listing.URL,
	})

	engine, err := e.provider.Get()
	if err != nil {
		log.WithError(err).Warn("projection engine unavailable, scoring worst case")
		return 0, ranking.Classify(nil)
	}

	proj, err := engine.Project(ctx, listing)
	if err != nil {
		log.WithError(err).Warn("projection failed, scoring worst case")
		return 0, ranking.Classify(nil)
	}

	var ratio *float64
	if proj != nil {
		ratio = proj.ImpliedGainRatio
	}
	result := ranking.Classify(ratio)
	return result.Score, result
}

// DaysOnMarket returns whole days between the listing's listed date
// and the reference clock, nil when no date is present or parseable.
// Unknown is distinct from zero days. Negative spans (clock skew
// between scraper and enricher) clamp to zero.
func (e *Enricher) DaysOnMarket(listing models.Listing) *int {
	listed, ok := parseListingDate(listing.ListedDate())
	if !ok {
		return nil
	}

	days := int(e.clock().Sub(listed).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return &days
}

// parseListingDate accepts either a bare date or a full RFC3339
// timestamp, the two forms scrapers emit.
func parseListingDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// CompetingListings counts listings in the batch that share the
// subject's ward and normalized building name, the subject included.
// Normalization tolerates agent decorations and whitespace so the same
// building posted by different agents still matches. Minimum is 1.
func CompetingListings(listing models.Listing, all []models.Listing) int {
	ward := normalizers.ExtractWard(listing.Address)
	name := normalizers.NormalizeBuildingName(listing.Name)

	count := 0
	for i := range all {
		other := &all[i]
		if normalizers.ExtractWard(other.Address) == ward &&
			normalizers.NormalizeBuildingName(other.Name) == name {
			count++
		}
	}
	if count < 1 {
		count = 1
	}
	return count
}

// EnrichBatch enriches every listing against the full batch. History
// lookups are keyed by identity hash via the supplied function; a nil
// function means no history is attached.
func (e *Enricher) EnrichBatch(ctx context.Context, listings []models.Listing, historyFor func(models.Listing) []models.PricePoint) []models.EnrichedListing {
	ctx, span := tracing.StartSpan(ctx, "enrich.Enricher.EnrichBatch")
	defer span.End()

	enriched := make([]models.EnrichedListing, 0, len(listings))
	for _, l := range listings {
		var history []models.PricePoint
		if historyFor != nil {
			history = historyFor(l)
		}
		enriched = append(enriched, e.Enrich(ctx, l, listings, history))
	}
	return enriched
}
