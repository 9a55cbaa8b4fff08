package models

import "time"

// ScrapeMessage is an incoming batch of scraped listings published by
// the per-site scrapers. The batch is the complete result of one crawl
// of one source; deduplication against other sources happens here, not
// in the scrapers.
type ScrapeMessage struct {
	Source    ScrapeMessageSource `json:"source"`
	ScrapedAt time.Time           `json:"scraped_at"`
	Listings  []Listing           `json:"listings"`
}

// ScrapeMessageSource identifies the scraper run that produced a batch
type ScrapeMessageSource struct {
	Site  string `json:"site"`
	RunID string `json:"run_id,omitempty"`
}
