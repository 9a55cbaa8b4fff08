// Package quality runs structural sanity checks over scraped listing
// batches before any downstream computation trusts them.
package quality

import (
	"fmt"

	"github.com/Ramsey-B/azalea/pkg/models"
)

// MaxPlausiblePriceMan is the upper bound for a believable listing
// price. Scrapers occasionally pick up a yen figure where a man figure
// belongs; 100 oku is far beyond any residential unit.
const MaxPlausiblePriceMan = 1_000_000

// Validate checks a listing batch and accumulates findings. Batch
// level problems (an empty batch) are errors; per-listing problems are
// warnings and never halt processing of the remaining records.
func Validate(listings []models.Listing) models.BatchReport {
	var report models.BatchReport

	if len(listings) == 0 {
		report.Errors = append(report.Errors, models.Finding{
			Index:   -1,
			Message: "batch contains no listings",
		})
		return report
	}

	seenURLs := make(map[string]int, len(listings))
	for i, l := range listings {
		report.Warnings = append(report.Warnings, checkListing(i, l, seenURLs)...)
	}
	return report
}

func checkListing(i int, l models.Listing, seenURLs map[string]int) []models.Finding {
	var findings []models.Finding
	warn := func(field, message string) {
		findings = append(findings, models.Finding{Index: i, Field: field, Message: message})
	}

	if l.URL == "" {
		warn("url", "missing url")
	} else if first, ok := seenURLs[l.URL]; ok {
		warn("url", fmt.Sprintf("duplicate url, first seen at listing[%d]", first))
	} else {
		seenURLs[l.URL] = i
	}

	if l.Name == "" {
		warn("name", "missing name")
	}

	switch {
	case l.PriceMan == 0:
		warn("price_man", "missing or zero price")
	case l.PriceMan < 0:
		warn("price_man", "negative price")
	case l.PriceMan > MaxPlausiblePriceMan:
		warn("price_man", fmt.Sprintf("implausibly large price %.0f man", l.PriceMan))
	}

	if l.Address == "" {
		warn("address", "missing address")
	}

	return findings
}
