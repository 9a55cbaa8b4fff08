package models

// AssetRank is the four-tier classification of a listing's implied
// gain ratio over the appraisal horizon.
type AssetRank string

const (
	AssetRankS AssetRank = "S"
	AssetRankA AssetRank = "A"
	AssetRankB AssetRank = "B"
	AssetRankC AssetRank = "C"
)

// RankResult pairs the rank letter with its numeric score and a
// human-readable breakdown of the gain ratio that produced it.
type RankResult struct {
	Rank      AssetRank `json:"rank"`
	Score     float64   `json:"score"`
	Breakdown string    `json:"breakdown,omitempty"`
}

// Projection is the output of the price-projection collaborator for a
// single listing. ImpliedGainRatio is nil when the projection engine
// could not produce a result; callers treat that as worst case, not as
// an error.
type Projection struct {
	ProjectedValueMan   float64  `json:"projected_value_man"`
	ProjectedLoanResMan float64  `json:"projected_loan_residual_man"`
	ImpliedGainRatio    *float64 `json:"implied_gain_ratio,omitempty"`
}
