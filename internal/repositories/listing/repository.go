// Package listing handles persisted listing identities
package listing

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

const listingColumns = "id, identity_hash, url, source, ward, price_man, data, created_at, updated_at, last_seen_at"

// Repository handles listing persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a listing repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts a listing identity or refreshes an existing one. The
// identity hash is the conflict target; a re-seen identity keeps its
// id and created_at and refreshes everything else.
func (r *Repository) Upsert(ctx context.Context, stored *models.StoredListing) error {
	ctx, span := tracing.StartSpan(ctx, "listing.Repository.Upsert")
	defer span.End()

	now := time.Now().UTC()
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}

	ib := database.NewInsertBuilder()
	ib = ib.InsertInto("listings").
		Cols("id", "identity_hash", "url", "source", "ward", "price_man", "data", "created_at", "updated_at", "last_seen_at").
		Values(stored.ID, stored.IdentityHash, stored.URL, stored.Source, stored.Ward, stored.PriceMan, stored.Data, now, now, now)

	ub := ib.OnConflict("identity_hash")
	ub.Set(
		ub.Assign("url", database.Excluded("url")),
		ub.Assign("source", database.Excluded("source")),
		ub.Assign("ward", database.Excluded("ward")),
		ub.Assign("price_man", database.Excluded("price_man")),
		ub.Assign("data", database.Excluded("data")),
		ub.Assign("updated_at", database.Excluded("updated_at")),
		ub.Assign("last_seen_at", database.Excluded("last_seen_at")),
	)

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"identity_hash": stored.IdentityHash}).Error("Failed to upsert listing")
		return httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to upsert listing: %v", err)
	}
	return nil
}

// UpsertBatch upserts a batch of listing identities in one transaction
func (r *Repository) UpsertBatch(ctx context.Context, stored []models.StoredListing) error {
	ctx, span := tracing.StartSpan(ctx, "listing.Repository.UpsertBatch")
	defer span.End()

	if len(stored) == 0 {
		return nil
	}

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to begin transaction: %v", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for i := range stored {
		if err := r.Upsert(ctx, &stored[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to commit listing batch: %v", err)
	}
	return nil
}

// GetByIdentityHash returns the listing with the given identity hash
func (r *Repository) GetByIdentityHash(ctx context.Context, identityHash string) (*models.StoredListing, error) {
	ctx, span := tracing.StartSpan(ctx, "listing.Repository.GetByIdentityHash")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(listingColumns)
	sb.From("listings")
	sb.Where(sb.Equal("identity_hash", identityHash))

	query, args := sb.Build()
	var stored models.StoredListing
	if err := r.db.GetContext(ctx, &stored, query, args...); err != nil {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "listing %s not found", identityHash)
	}
	return &stored, nil
}

// GetAll returns every persisted listing, used by change detection and
// competing-listing counts which both need the full population.
func (r *Repository) GetAll(ctx context.Context) ([]models.StoredListing, error) {
	ctx, span := tracing.StartSpan(ctx, "listing.Repository.GetAll")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(listingColumns)
	sb.From("listings")
	sb.OrderBy("created_at ASC")

	query, args := sb.Build()
	var listings []models.StoredListing
	if err := r.db.SelectContext(ctx, &listings, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to load listings")
		return nil, httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to load listings: %v", err)
	}
	return listings, nil
}

// ListFilter narrows List results
type ListFilter struct {
	Ward     string
	Source   string
	MinPrice float64
	MaxPrice float64
	Page     int
	PageSize int
}

// List returns a page of listings matching the filter plus the total
// match count.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.StoredListing, int, error) {
	ctx, span := tracing.StartSpan(ctx, "listing.Repository.List")
	defer span.End()

	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	where := func(sb *sqlbuilder.SelectBuilder) {
		var conds []string
		if filter.Ward != "" {
			conds = append(conds, sb.Equal("ward", filter.Ward))
		}
		if filter.Source != "" {
			conds = append(conds, sb.Equal("source", filter.Source))
		}
		if filter.MinPrice > 0 {
			conds = append(conds, sb.GreaterEqualThan("price_man", filter.MinPrice))
		}
		if filter.MaxPrice > 0 {
			conds = append(conds, sb.LessEqualThan("price_man", filter.MaxPrice))
		}
		if len(conds) > 0 {
			sb.Where(conds...)
		}
	}

	countBuilder := sqlbuilder.PostgreSQL.NewSelectBuilder()
	countBuilder.Select("COUNT(*)")
	countBuilder.From("listings")
	where(countBuilder)

	query, args := countBuilder.Build()
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return nil, 0, httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to count listings: %v", err)
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(listingColumns)
	sb.From("listings")
	where(sb)
	sb.OrderBy("price_man ASC")
	sb.Limit(filter.PageSize)
	sb.Offset((filter.Page - 1) * filter.PageSize)

	query, args = sb.Build()
	var listings []models.StoredListing
	if err := r.db.SelectContext(ctx, &listings, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list listings")
		return nil, 0, httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to list listings: %v", err)
	}
	return listings, total, nil
}

// CountByWard returns listing counts grouped by ward
func (r *Repository) CountByWard(ctx context.Context) (map[string]int, error) {
	ctx, span := tracing.StartSpan(ctx, "listing.Repository.CountByWard")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("ward", "COUNT(*) AS count")
	sb.From("listings")
	sb.GroupBy("ward")

	query, args := sb.Build()
	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to count listings by ward: %v", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var ward string
		var count int
		if err := rows.Scan(&ward, &count); err != nil {
			return nil, httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to scan ward count: %v", err)
		}
		counts[ward] = count
	}
	return counts, rows.Err()
}
