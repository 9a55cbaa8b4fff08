// Package trends aggregates listing supply by ward and calendar
// quarter for reporting.
package trends

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/Ramsey-B/azalea/pkg/models"
	"github.com/Ramsey-B/azalea/pkg/normalizers"
)

// Sentinel buckets. Listings without a recognizable ward or listing
// date are counted, not dropped.
const (
	WardUnknown         = "unknown"
	QuarterUnclassified = "unclassified"
)

// Aggregate groups listings by ward and calendar quarter. Ward and
// quarter lists in the result are sorted so report output is
// deterministic. An empty batch yields empty structures, never an
// error.
func Aggregate(listings []models.Listing) models.SupplyTrend {
	trend := models.SupplyTrend{
		ByWard:   make(map[string]models.WardTrend),
		Wards:    []string{},
		Quarters: []string{},
	}

	quarterSet := make(map[string]struct{})
	for i := range listings {
		l := &listings[i]

		ward := normalizers.ExtractWard(l.Address)
		if ward == "" {
			ward = WardUnknown
		}
		quarter := QuarterLabel(l.ListedDate())
		quarterSet[quarter] = struct{}{}

		wt, ok := trend.ByWard[ward]
		if !ok {
			wt = models.WardTrend{Quarters: make(map[string]int)}
		}
		wt.Count++
		wt.Quarters[quarter]++
		trend.ByWard[ward] = wt
		trend.TotalCount++
	}

	for ward := range trend.ByWard {
		trend.Wards = append(trend.Wards, ward)
	}
	sort.Strings(trend.Wards)

	for quarter := range quarterSet {
		trend.Quarters = append(trend.Quarters, quarter)
	}
	sort.Strings(trend.Quarters)

	return trend
}

// QuarterLabel derives a "2025Q1" style label from the YYYY-MM prefix
// of a date string. Missing or unparseable dates land in the
// unclassified bucket.
func QuarterLabel(date string) string {
	if len(date) < 7 || date[4] != '-' {
		return QuarterUnclassified
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return QuarterUnclassified
	}
	month, err := strconv.Atoi(date[5:7])
	if err != nil || month < 1 || month > 12 {
		return QuarterUnclassified
	}
	return fmt.Sprintf("%dQ%d", year, (month-1)/3+1)
}
