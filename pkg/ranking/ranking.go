// Package ranking maps implied gain ratios to asset ranks and scores.
package ranking

import (
	"fmt"

	"github.com/Ramsey-B/azalea/pkg/models"
)

// Rank thresholds on the implied 10-year gain ratio. Evaluated top
// down, first match wins, boundaries inclusive.
const (
	ThresholdS = 0.10
	ThresholdA = 0.05
	ThresholdB = 0.00
)

// scoreSaturation is the ratio at which the S band score reaches 100.
const scoreSaturation = 0.20

// Classify maps an implied gain ratio to a rank and score. The ratio
// is (projected 10-year value - projected 10-year loan residual) /
// current price, a dimensionless number owned by the projection
// collaborator. A nil ratio means the projection produced no result
// and is treated as worst case, never as an error.
func Classify(ratio *float64) models.RankResult {
	if ratio == nil {
		return models.RankResult{
			Rank:      models.AssetRankC,
			Score:     0,
			Breakdown: "gain ratio unavailable",
		}
	}

	r := *ratio
	result := models.RankResult{
		Breakdown: fmt.Sprintf("implied 10yr gain ratio %.1f%%", r*100),
	}

	switch {
	case r >= ThresholdS:
		result.Rank = models.AssetRankS
		result.Score = interpolate(r, ThresholdS, scoreSaturation, 90, 100)
	case r >= ThresholdA:
		result.Rank = models.AssetRankA
		result.Score = interpolate(r, ThresholdA, ThresholdS, 70, 90)
	case r >= ThresholdB:
		result.Rank = models.AssetRankB
		result.Score = interpolate(r, ThresholdB, ThresholdA, 50, 70)
	default:
		result.Rank = models.AssetRankC
		result.Score = 0
	}
	return result
}

// interpolate maps r linearly from [lo, hi) onto [scoreLo, scoreHi),
// clamping at scoreHi for r beyond the band.
func interpolate(r, lo, hi, scoreLo, scoreHi float64) float64 {
	if r >= hi {
		return scoreHi
	}
	return scoreLo + (r-lo)/(hi-lo)*(scoreHi-scoreLo)
}
