package models

import (
	"encoding/json"
	"time"
)

// ListingSource identifies the site a listing was scraped from
type ListingSource string

const (
	SourceSuumo  ListingSource = "suumo"
	SourceHomes  ListingSource = "homes"
	SourceAthome ListingSource = "athome"
)

// PropertyType distinguishes existing stock from new construction
type PropertyType string

const (
	PropertyTypeExisting PropertyType = "existing"
	PropertyTypeNew      PropertyType = "new"
)

// Listing represents a single scraped listing record.
// Fields are optional in the wire form; absent strings normalize to ""
// and absent numerics to zero. The URL is unique per source site but
// NOT per physical unit - the same unit shows up under different URLs
// across sites and re-crawls, which is why identity is resolved from
// the field tuple instead (see pkg/identity).
type Listing struct {
	URL          string        `json:"url,omitempty" db:"url"`
	Name         string        `json:"name" db:"name"`
	Layout       string        `json:"layout,omitempty" db:"layout"`
	AreaM2       float64       `json:"area_m2,omitempty" db:"area_m2"`
	PriceMan     float64       `json:"price_man,omitempty" db:"price_man"`
	Address      string        `json:"address,omitempty" db:"address"`
	BuiltYear    int           `json:"built_year,omitempty" db:"built_year"`
	StationLine  string        `json:"station_line,omitempty" db:"station_line"`
	WalkMin      int           `json:"walk_min,omitempty" db:"walk_min"`
	AddedAt      string        `json:"added_at,omitempty" db:"added_at"`
	FirstSeen    string        `json:"first_seen,omitempty" db:"first_seen"`
	Source       ListingSource `json:"source,omitempty" db:"source"`
	PropertyType PropertyType  `json:"property_type,omitempty" db:"property_type"`
}

// ListedDate returns the date string the listing first appeared under,
// preferring added_at over first_seen. Empty when neither is present.
func (l *Listing) ListedDate() string {
	if l.AddedAt != "" {
		return l.AddedAt
	}
	return l.FirstSeen
}

// PricePoint is a single observed price for a listing identity
type PricePoint struct {
	Date     string  `json:"date"`
	PriceMan float64 `json:"price"`
}

// EnrichedListing is a Listing augmented with derived investment
// metrics. DaysOnMarket is nil (and omitted) when no listed date is
// available - "unknown" is distinct from "zero days". PriceHistory is
// omitted entirely when there are no observations.
type EnrichedListing struct {
	Listing

	InvestmentScore   float64      `json:"investment_score"`
	AssetRank         string       `json:"asset_rank,omitempty"`
	RankDetail        string       `json:"rank_detail,omitempty"`
	DaysOnMarket      *int         `json:"days_on_market,omitempty"`
	CompetingListings int          `json:"competing_listings"`
	PriceHistory      []PricePoint `json:"price_history,omitempty"`
}

// StoredListing is the persisted form of a listing. The identity hash
// is the canonical hash of the listing's identity key; data holds the
// full scraped record as JSONB.
type StoredListing struct {
	ID           string          `json:"id" db:"id"`
	IdentityHash string          `json:"identity_hash" db:"identity_hash"`
	URL          string          `json:"url" db:"url"`
	Source       string          `json:"source" db:"source"`
	Ward         string          `json:"ward" db:"ward"`
	PriceMan     float64         `json:"price_man" db:"price_man"`
	Data         json.RawMessage `json:"data" db:"data"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
	LastSeenAt   time.Time       `json:"last_seen_at" db:"last_seen_at"`
}

// Unpack decodes the stored JSONB record back into a Listing
func (s *StoredListing) Unpack() (Listing, error) {
	var l Listing
	err := json.Unmarshal(s.Data, &l)
	return l, err
}

// PriceObservation is a persisted price-history row for an identity
type PriceObservation struct {
	ID           string    `json:"id" db:"id"`
	IdentityHash string    `json:"identity_hash" db:"identity_hash"`
	ObservedOn   string    `json:"observed_on" db:"observed_on"`
	PriceMan     float64   `json:"price_man" db:"price_man"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// IngestListingsRequest is the request for ingesting a scraped batch
type IngestListingsRequest struct {
	Source   string    `json:"source" validate:"required"`
	Listings []Listing `json:"listings" validate:"required"`
}

// IngestListingsResponse reports what the pipeline did with a batch
type IngestListingsResponse struct {
	Received  int `json:"received"`
	Deduped   int `json:"deduped"`
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Warnings  int `json:"warnings"`
}

// ListingListResponse is the response for listing queries
type ListingListResponse struct {
	Items      []StoredListing `json:"items"`
	TotalCount int             `json:"total_count"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
}
