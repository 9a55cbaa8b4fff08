package trends

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/azalea/internal/repositories/listing"
	"github.com/Ramsey-B/azalea/pkg/models"
	"github.com/Ramsey-B/azalea/pkg/trends"
	"github.com/Ramsey-B/azalea/pkg/utils"
)

// Register registers supply trend routes
func Register(g *echo.Group) {
	g.GET("", GetSupplyTrend)
	g.POST("", AggregateBatch)
}

// GetSupplyTrend aggregates supply over every stored listing
func GetSupplyTrend(c echo.Context) error {
	ctx := c.Request().Context()

	ctx, repo, err := ectoinject.GetContext[*listing.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	stored, err := repo.GetAll(ctx)
	if err != nil {
		return err
	}

	ctx, logger, _ := ectoinject.GetContext[ectologger.Logger](ctx)

	listings := make([]models.Listing, 0, len(stored))
	for i := range stored {
		l, err := stored[i].Unpack()
		if err != nil {
			if logger != nil {
				logger.WithContext(ctx).WithError(err).Warn("Skipping undecodable stored listing")
			}
			continue
		}
		listings = append(listings, l)
	}

	return c.JSON(http.StatusOK, trends.Aggregate(listings))
}

// AggregateRequest is an ad-hoc aggregation request
type AggregateRequest struct {
	Listings []models.Listing `json:"listings" validate:"required"`
}

// AggregateBatch aggregates supply over a caller-supplied batch
func AggregateBatch(c echo.Context) error {
	req, err := utils.BindRequest[AggregateRequest](c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, trends.Aggregate(req.Listings))
}
