// Package identity resolves listing identity across sources and crawls
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Ramsey-B/azalea/pkg/models"
)

// Key is the stable comparison key for a listing. Two listings with
// equal keys are considered the same physical unit regardless of URL
// or source: the same unit is listed under different URLs across sites
// and re-crawls, so the URL is deliberately excluded. Equality is pure
// tuple equality - no fuzzy matching at this layer.
type Key struct {
	Name        string
	Layout      string
	AreaM2      float64
	PriceMan    float64
	Address     string
	BuiltYear   int
	StationLine string
	WalkMin     int
}

// KeyOf builds the identity key for a listing. Total: missing fields
// normalize to zero values, string fields are trimmed of surrounding
// whitespace. Price is taken as given - a price change makes two
// otherwise-identical snapshots distinct, and the caller decides
// whether that means "duplicate" or "same listing, updated price".
func KeyOf(l models.Listing) Key {
	return Key{
		Name:        strings.TrimSpace(l.Name),
		Layout:      strings.TrimSpace(l.Layout),
		AreaM2:      l.AreaM2,
		PriceMan:    l.PriceMan,
		Address:     strings.TrimSpace(l.Address),
		BuiltYear:   l.BuiltYear,
		StationLine: strings.TrimSpace(l.StationLine),
		WalkMin:     l.WalkMin,
	}
}

// canonical returns a deterministic string representation of the key.
// Field order is fixed; %v keeps float formatting stable for equal
// values.
func (k Key) canonical() string {
	return fmt.Sprintf("%s|%s|%v|%v|%s|%d|%s|%d",
		k.Name, k.Layout, k.AreaM2, k.PriceMan, k.Address, k.BuiltYear, k.StationLine, k.WalkMin)
}

// Hash returns the SHA256 hex digest of the canonical key form, used
// as the persisted identity of a listing.
func (k Key) Hash() string {
	sum := sha256.Sum256([]byte(k.canonical()))
	return hex.EncodeToString(sum[:])
}

// HashOf is shorthand for KeyOf(l).Hash()
func HashOf(l models.Listing) string {
	return KeyOf(l).Hash()
}

// HasChanged compares two identity hashes to detect changes
func HasChanged(oldHash, newHash string) bool {
	return oldHash != newHash
}
