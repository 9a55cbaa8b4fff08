package listing

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/azalea/config"
	"github.com/Ramsey-B/azalea/internal/repositories/listing"
	"github.com/Ramsey-B/azalea/internal/repositories/pricehistory"
	"github.com/Ramsey-B/azalea/pkg/enrich"
	"github.com/Ramsey-B/azalea/pkg/loan"
	"github.com/Ramsey-B/azalea/pkg/models"
	"github.com/Ramsey-B/azalea/pkg/pipeline"
	"github.com/Ramsey-B/azalea/pkg/utils"
)

// Register registers listing routes
func Register(g *echo.Group) {
	g.POST("", IngestListings)
	g.GET("", ListListings)
	g.GET("/export", ExportListings)
	g.GET("/:identity_hash", GetListing)
	g.GET("/:identity_hash/history", GetPriceHistory)
	g.GET("/:identity_hash/loan", GetLoanSummary)
	g.POST("/enrich", EnrichListings)
}

// IngestListings runs a scraped batch through the pipeline
func IngestListings(c echo.Context) error {
	ctx := c.Request().Context()

	req, err := utils.BindRequest[models.IngestListingsRequest](c)
	if err != nil {
		return err
	}

	ctx, processor, err := ectoinject.GetContext[*pipeline.Processor](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	resp, err := processor.ProcessBatch(ctx, req.Source, req.Listings)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

// ListListings returns a filtered page of stored listings
func ListListings(c echo.Context) error {
	ctx := c.Request().Context()

	filter := listing.ListFilter{
		Ward:   c.QueryParam("ward"),
		Source: c.QueryParam("source"),
	}
	filter.MinPrice, _ = strconv.ParseFloat(c.QueryParam("min_price"), 64)
	filter.MaxPrice, _ = strconv.ParseFloat(c.QueryParam("max_price"), 64)
	filter.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filter.PageSize, _ = strconv.Atoi(c.QueryParam("page_size"))

	ctx, repo, err := ectoinject.GetContext[*listing.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	items, total, err := repo.List(ctx, filter)
	if err != nil {
		return err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}

	return c.JSON(http.StatusOK, models.ListingListResponse{
		Items:      items,
		TotalCount: total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
	})
}

// ExportListings returns every stored listing as an indented JSON
// array with non-ASCII text left unescaped, the form downstream upload
// scripts consume.
func ExportListings(c echo.Context) error {
	ctx := c.Request().Context()

	ctx, repo, err := ectoinject.GetContext[*listing.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	stored, err := repo.GetAll(ctx)
	if err != nil {
		return err
	}

	listings := make([]models.Listing, 0, len(stored))
	for i := range stored {
		l, err := stored[i].Unpack()
		if err != nil {
			continue
		}
		listings = append(listings, l)
	}

	payload, err := utils.MarshalRecords(listings)
	if err != nil {
		return err
	}

	return c.JSONBlob(http.StatusOK, payload)
}

// GetListing returns a single stored listing by identity hash
func GetListing(c echo.Context) error {
	ctx := c.Request().Context()
	identityHash := c.Param("identity_hash")

	ctx, repo, err := ectoinject.GetContext[*listing.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	stored, err := repo.GetByIdentityHash(ctx, identityHash)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stored)
}

// GetPriceHistory returns the observed price series for an identity
func GetPriceHistory(c echo.Context) error {
	ctx := c.Request().Context()
	identityHash := c.Param("identity_hash")

	ctx, repo, err := ectoinject.GetContext[*pricehistory.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	history, err := repo.HistoryFor(ctx, identityHash)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, history)
}

// LoanSummaryResponse is the consumer-facing cost breakdown
type LoanSummaryResponse struct {
	PriceMan float64             `json:"price_man"`
	Summary  *models.LoanSummary `json:"summary"`
}

// GetLoanSummary returns display-model loan figures for a stored
// listing.
func GetLoanSummary(c echo.Context) error {
	ctx := c.Request().Context()
	identityHash := c.Param("identity_hash")

	ctx, repo, err := ectoinject.GetContext[*listing.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	stored, err := repo.GetByIdentityHash(ctx, identityHash)
	if err != nil {
		return err
	}

	monthlyFee, feeErr := strconv.ParseFloat(c.QueryParam("monthly_fee_man"), 64)
	if feeErr != nil {
		if cfgCtx, cfg, cfgErr := ectoinject.GetContext[*config.Config](ctx); cfgErr == nil {
			ctx = cfgCtx
			monthlyFee = cfg.MonthlyCarryingFeeMan
		}
	}
	summary := loan.Summarize(stored.PriceMan, monthlyFee)
	if summary == nil {
		return httperror.NewHTTPError(http.StatusUnprocessableEntity, "listing has no usable price")
	}

	return c.JSON(http.StatusOK, LoanSummaryResponse{
		PriceMan: stored.PriceMan,
		Summary:  summary,
	})
}

// EnrichRequest is an on-demand enrichment request for an ad-hoc batch
type EnrichRequest struct {
	Listings []models.Listing `json:"listings" validate:"required,min=1"`
}

// EnrichListings enriches a caller-supplied batch without persisting
// it. Competing-listing counts are computed within the supplied batch.
func EnrichListings(c echo.Context) error {
	ctx := c.Request().Context()

	req, err := utils.BindRequest[EnrichRequest](c)
	if err != nil {
		return err
	}

	ctx, enricher, err := ectoinject.GetContext[*enrich.Enricher](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	enriched := enricher.EnrichBatch(ctx, req.Listings, nil)
	return c.JSON(http.StatusOK, enriched)
}
