package identity

import "github.com/Ramsey-B/azalea/pkg/models"

// Dedupe removes duplicate listings from a batch. The first occurrence
// of each identity key wins and keeps its position; later occurrences
// are dropped. Input order is otherwise preserved, and the input slice
// is never mutated.
func Dedupe(listings []models.Listing) []models.Listing {
	seen := make(map[Key]struct{}, len(listings))
	result := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		key := KeyOf(l)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, l)
	}
	return result
}

// ChangeSet partitions an incoming batch against the previously known
// population keyed by identity hash.
type ChangeSet struct {
	Created      []models.Listing
	Updated      []models.Listing
	PriceChanged []PriceChange
}

// PriceChange records a price movement for a listing whose other
// identity fields are unchanged.
type PriceChange struct {
	Listing  models.Listing
	OldPrice float64
	NewPrice float64
}

// priceBlindKey is the identity key with the price zeroed, used to
// recognize "same unit, new price" across snapshots.
func priceBlindKey(l models.Listing) Key {
	k := KeyOf(l)
	k.PriceMan = 0
	return k
}

// DetectChanges classifies each incoming listing against the previous
// snapshot. A listing whose full key is already known is an update
// (re-seen); a listing whose price-blind key is known but whose price
// moved is a price change; anything else is new.
func DetectChanges(previous, current []models.Listing) ChangeSet {
	known := make(map[Key]struct{}, len(previous))
	knownPrice := make(map[Key]float64, len(previous))
	for _, l := range previous {
		known[KeyOf(l)] = struct{}{}
		knownPrice[priceBlindKey(l)] = l.PriceMan
	}

	var cs ChangeSet
	for _, l := range current {
		if _, ok := known[KeyOf(l)]; ok {
			cs.Updated = append(cs.Updated, l)
			continue
		}
		if old, ok := knownPrice[priceBlindKey(l)]; ok && old != l.PriceMan {
			cs.PriceChanged = append(cs.PriceChanged, PriceChange{
				Listing:  l,
				OldPrice: old,
				NewPrice: l.PriceMan,
			})
			continue
		}
		cs.Created = append(cs.Created, l)
	}
	return cs
}
