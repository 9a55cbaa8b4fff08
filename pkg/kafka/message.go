package kafka

import (
	"encoding/json"
	"time"

	"github.com/Ramsey-B/azalea/pkg/models"
)

// IncomingMessage wraps a raw Kafka message with parsed headers
type IncomingMessage struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Partition int
	Offset    int64
	Timestamp time.Time
	Topic     string

	// Parsed content
	ScrapeMessage *models.ScrapeMessage
}

// ParseScrapeMessage parses the message value as a scraper batch
func (m *IncomingMessage) ParseScrapeMessage() error {
	var msg models.ScrapeMessage
	if err := json.Unmarshal(m.Value, &msg); err != nil {
		return err
	}
	m.ScrapeMessage = &msg
	return nil
}

// GetSite returns the scraper site that produced the batch, falling
// back to the message header for older scrapers that predate the
// envelope format.
func (m *IncomingMessage) GetSite() string {
	if m.ScrapeMessage != nil && m.ScrapeMessage.Source.Site != "" {
		return m.ScrapeMessage.Source.Site
	}
	return m.Headers["site"]
}

// GetRunID returns the scraper run that produced the batch
func (m *IncomingMessage) GetRunID() string {
	if m.ScrapeMessage != nil {
		return m.ScrapeMessage.Source.RunID
	}
	return ""
}

// GetListings returns the scraped listings in the batch
func (m *IncomingMessage) GetListings() []models.Listing {
	if m.ScrapeMessage == nil {
		return nil
	}
	return m.ScrapeMessage.Listings
}
