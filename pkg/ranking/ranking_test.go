package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/azalea/pkg/models"
)

func ptr(f float64) *float64 { return &f }

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		ratio    *float64
		expected models.AssetRank
	}{
		{"at S threshold", ptr(0.10), models.AssetRankS},
		{"above S threshold", ptr(0.25), models.AssetRankS},
		{"at A threshold", ptr(0.05), models.AssetRankA},
		{"between A and S", ptr(0.07), models.AssetRankA},
		{"at B threshold", ptr(0.00), models.AssetRankB},
		{"between B and A", ptr(0.03), models.AssetRankB},
		{"negative ratio", ptr(-0.01), models.AssetRankC},
		{"nil ratio", nil, models.AssetRankC},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(tt.ratio)
			assert.Equal(t, tt.expected, result.Rank)
		})
	}
}

func TestClassifyScore(t *testing.T) {
	t.Run("nil ratio scores zero", func(t *testing.T) {
		result := Classify(nil)
		assert.Equal(t, 0.0, result.Score)
		assert.Equal(t, models.AssetRankC, result.Rank)
	})

	t.Run("score stays within bounds", func(t *testing.T) {
		for _, r := range []float64{-1, -0.01, 0, 0.03, 0.05, 0.09, 0.10, 0.5, 2} {
			result := Classify(ptr(r))
			assert.GreaterOrEqual(t, result.Score, 0.0, "ratio %v", r)
			assert.LessOrEqual(t, result.Score, 100.0, "ratio %v", r)
		}
	})

	t.Run("score is monotone in ratio", func(t *testing.T) {
		ratios := []float64{-0.5, -0.01, 0, 0.01, 0.04, 0.05, 0.08, 0.10, 0.15, 0.20, 0.30}
		prev := Classify(ptr(ratios[0])).Score
		for _, r := range ratios[1:] {
			score := Classify(ptr(r)).Score
			assert.GreaterOrEqual(t, score, prev, "ratio %v", r)
			prev = score
		}
	})

	t.Run("saturates at 100", func(t *testing.T) {
		assert.Equal(t, 100.0, Classify(ptr(0.20)).Score)
		assert.Equal(t, 100.0, Classify(ptr(5.0)).Score)
	})
}

func TestClassifyBreakdown(t *testing.T) {
	t.Run("includes the ratio as a percentage", func(t *testing.T) {
		result := Classify(ptr(0.12))
		assert.Contains(t, result.Breakdown, "12.0%")
	})

	t.Run("explains unavailability", func(t *testing.T) {
		result := Classify(nil)
		assert.Contains(t, result.Breakdown, "unavailable")
	})
}
