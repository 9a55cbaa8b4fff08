package validation

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/azalea/pkg/models"
	"github.com/Ramsey-B/azalea/pkg/quality"
	"github.com/Ramsey-B/azalea/pkg/utils"
)

// Register registers validation routes
func Register(g *echo.Group) {
	g.POST("", ValidateBatch)
}

// ValidateRequest is a batch validation request
type ValidateRequest struct {
	Listings []models.Listing `json:"listings"`
}

// ValidateResponse pairs the report with a pass/fail verdict
type ValidateResponse struct {
	Valid  bool               `json:"valid"`
	Report models.BatchReport `json:"report"`
}

// ValidateBatch runs structural checks over a batch without ingesting
// it, so scraper changes can be smoke-tested against production rules.
func ValidateBatch(c echo.Context) error {
	req, err := utils.BindRequest[ValidateRequest](c)
	if err != nil {
		return err
	}

	report := quality.Validate(req.Listings)
	return c.JSON(http.StatusOK, ValidateResponse{
		Valid:  !report.HasErrors(),
		Report: report,
	})
}
