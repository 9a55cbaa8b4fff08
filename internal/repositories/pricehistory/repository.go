// Package pricehistory persists observed prices per listing identity
package pricehistory

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/azalea/pkg/database"
	"github.com/Ramsey-B/azalea/pkg/models"
	"github.com/Ramsey-B/azalea/pkg/tracing"
)

// Repository handles price observation persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a price history repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Record stores one price observation. At most one observation per
// identity per day; a repeat on the same day is a no-op.
func (r *Repository) Record(ctx context.Context, identityHash, observedOn string, priceMan float64) error {
	ctx, span := tracing.StartSpan(ctx, "pricehistory.Repository.Record")
	defer span.End()

	ib := database.NewInsertBuilder()
	ib = ib.InsertInto("price_observations").
		Cols("id", "identity_hash", "observed_on", "price_man", "created_at").
		Values(uuid.New().String(), identityHash, observedOn, priceMan, time.Now().UTC())
	ib = ib.OnConflictDoNothing()

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"identity_hash": identityHash}).Error("Failed to record price observation")
		return httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to record price observation: %v", err)
	}
	return nil
}

// HistoryFor returns the ordered price series for an identity, oldest
// first.
func (r *Repository) HistoryFor(ctx context.Context, identityHash string) ([]models.PricePoint, error) {
	ctx, span := tracing.StartSpan(ctx, "pricehistory.Repository.HistoryFor")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("observed_on", "price_man")
	sb.From("price_observations")
	sb.Where(sb.Equal("identity_hash", identityHash))
	sb.OrderBy("observed_on ASC")

	query, args := sb.Build()
	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to load price history: %v", err)
	}
	defer rows.Close()

	var history []models.PricePoint
	for rows.Next() {
		var point models.PricePoint
		if err := rows.Scan(&point.Date, &point.PriceMan); err != nil {
			return nil, httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to scan price observation: %v", err)
		}
		history = append(history, point)
	}
	return history, rows.Err()
}

// HistoryForAll returns price series for many identities in one query
func (r *Repository) HistoryForAll(ctx context.Context, identityHashes []string) (map[string][]models.PricePoint, error) {
	ctx, span := tracing.StartSpan(ctx, "pricehistory.Repository.HistoryForAll")
	defer span.End()

	if len(identityHashes) == 0 {
		return map[string][]models.PricePoint{}, nil
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("identity_hash", "observed_on", "price_man")
	sb.From("price_observations")
	values := make([]any, len(identityHashes))
	for i, h := range identityHashes {
		values[i] = h
	}
	sb.Where(sb.In("identity_hash", values...))
	sb.OrderBy("identity_hash", "observed_on ASC")

	query, args := sb.Build()
	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to load price histories: %v", err)
	}
	defer rows.Close()

	histories := make(map[string][]models.PricePoint)
	for rows.Next() {
		var hash string
		var point models.PricePoint
		if err := rows.Scan(&hash, &point.Date, &point.PriceMan); err != nil {
			return nil, httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to scan price observation: %v", err)
		}
		histories[hash] = append(histories[hash], point)
	}
	return histories, rows.Err()
}
