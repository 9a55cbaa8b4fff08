package projection

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/Ramsey-B/azalea/pkg/models"
	"github.com/Ramsey-B/azalea/pkg/tracing"
)

// HTTPPredictor asks an external valuation service for the projected
// 10-year value of a listing. A non-200 response or an absent value in
// the response body is treated as "unavailable", not as an error.
type HTTPPredictor struct {
	url    string
	client *http.Client
}

// NewHTTPPredictor creates a predictor against the given service URL
func NewHTTPPredictor(url string, timeout time.Duration) *HTTPPredictor {
	return &HTTPPredictor{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type predictRequest struct {
	Listing models.Listing `json:"listing"`
}

type predictResponse struct {
	ProjectedValueMan *float64 `json:"projected_value_man"`
}

// PredictValue implements ValuePredictor
func (p *HTTPPredictor) PredictValue(ctx context.Context, listing models.Listing) (*float64, error) {
	ctx, span := tracing.StartSpan(ctx, "projection.HTTPPredictor.PredictValue")
	defer span.End()

	body, err := json.Marshal(predictRequest{Listing: listing})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal prediction request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build prediction request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "prediction request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var parsed predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, "failed to decode prediction response")
	}

	return parsed.ProjectedValueMan, nil
}

// UnavailablePredictor always reports that no prediction exists. It
// backs deployments that have no valuation service configured, where
// every listing falls through to the lowest rank.
type UnavailablePredictor struct{}

// PredictValue implements ValuePredictor
func (UnavailablePredictor) PredictValue(ctx context.Context, listing models.Listing) (*float64, error) {
	return nil, nil
}
