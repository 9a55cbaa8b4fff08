// Package projection produces 10-year value projections for listings.
package projection

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Ramsey-B/azalea/pkg/loan"
	"github.com/Ramsey-B/azalea/pkg/models"
	"github.com/Ramsey-B/azalea/pkg/tracing"
)

// Engine projects a listing's value and loan residual at the appraisal
// horizon. Implementations must be safe for concurrent use.
type Engine interface {
	Project(ctx context.Context, listing models.Listing) (*models.Projection, error)
}

// ValuePredictor estimates a listing's market value (man yen) at the
// appraisal horizon. External collaborators (a price-prediction model
// loaded from disk, a remote service) implement this; a nil or failed
// prediction makes the gain ratio unavailable rather than erroring the
// whole enrichment.
type ValuePredictor interface {
	PredictValue(ctx context.Context, listing models.Listing) (*float64, error)
}

// ResidualProjector combines a value predictor with the fixed-term
// appraisal loan residual to derive the implied gain ratio.
type ResidualProjector struct {
	predictor ValuePredictor
}

// NewResidualProjector creates a projector backed by the given value
// predictor.
func NewResidualProjector(predictor ValuePredictor) *ResidualProjector {
	return &ResidualProjector{predictor: predictor}
}

// Project computes the projected value, the projected loan residual
// and the implied gain ratio for a listing. The ratio is nil when the
// price or the predicted value is unavailable; that is a valid result,
// not an error.
func (p *ResidualProjector) Project(ctx context.Context, listing models.Listing) (*models.Projection, error) {
	ctx, span := tracing.StartSpan(ctx, "projection.ResidualProjector.Project")
	defer span.End()

	if p.predictor == nil {
		return nil, errors.New("no value predictor configured")
	}

	predicted, err := p.predictor.PredictValue(ctx, listing)
	if err != nil {
		return nil, errors.Wrap(err, "failed to predict listing value")
	}

	residual := loan.AppraisalResidual(listing.PriceMan)

	result := &models.Projection{}
	if predicted != nil {
		result.ProjectedValueMan = *predicted
	}
	if residual != nil {
		result.ProjectedLoanResMan = *residual
	}
	if predicted != nil && residual != nil && listing.PriceMan > 0 {
		ratio := (*predicted - *residual) / listing.PriceMan
		result.ImpliedGainRatio = &ratio
	}
	return result, nil
}
