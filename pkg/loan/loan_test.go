package loan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmortize(t *testing.T) {
	t.Run("non-positive principal is not computable", func(t *testing.T) {
		assert.Nil(t, Amortize(0, DisplayTerms, 0))
		assert.Nil(t, Amortize(-5000, DisplayTerms, 0))
	})

	t.Run("balance at start equals principal", func(t *testing.T) {
		result := Amortize(8980, DisplayTerms, 0)
		require.NotNil(t, result)
		assert.InDelta(t, 8980, result.RemainingBalance, 1e-6)
	})

	t.Run("balance at term is zero", func(t *testing.T) {
		result := Amortize(8980, DisplayTerms, DisplayTerms.TermMonths)
		require.NotNil(t, result)
		assert.InDelta(t, 0, result.RemainingBalance, 1e-6)
	})

	t.Run("balance decreases strictly", func(t *testing.T) {
		prev := Amortize(8980, DisplayTerms, 0).RemainingBalance
		for k := 1; k <= DisplayTerms.TermMonths; k++ {
			balance := Amortize(8980, DisplayTerms, k).RemainingBalance
			assert.Less(t, balance, prev, "month %d", k)
			prev = balance
		}
	})

	t.Run("payment covers principal plus interest", func(t *testing.T) {
		result := Amortize(10000, DisplayTerms, 0)
		require.NotNil(t, result)
		totalPaid := result.MonthlyPayment * float64(DisplayTerms.TermMonths)
		assert.Greater(t, totalPaid, 10000.0)
	})

	t.Run("zero rate is straight line", func(t *testing.T) {
		terms := Terms{AnnualRate: 0, TermMonths: 100}
		result := Amortize(1000, terms, 25)
		require.NotNil(t, result)
		assert.InDelta(t, 10, result.MonthlyPayment, 1e-9)
		assert.InDelta(t, 750, result.RemainingBalance, 1e-9)
	})

	t.Run("balance never goes negative", func(t *testing.T) {
		result := Amortize(1000, Terms{AnnualRate: 0.01, TermMonths: 120}, 240)
		require.NotNil(t, result)
		assert.Equal(t, 0.0, result.RemainingBalance)
	})
}

func TestAppraisalResidual(t *testing.T) {
	t.Run("ten year residual is below principal", func(t *testing.T) {
		residual := AppraisalResidual(8980)
		require.NotNil(t, residual)
		assert.Greater(t, *residual, 0.0)
		assert.Less(t, *residual, 8980.0)
	})

	t.Run("not computable without price", func(t *testing.T) {
		assert.Nil(t, AppraisalResidual(0))
	})

	t.Run("uses the appraisal rate not the display rate", func(t *testing.T) {
		appraisal := Amortize(8980, AppraisalTerms, AppraisalElapsedMonths)
		display := Amortize(8980, DisplayTerms, AppraisalElapsedMonths)
		require.NotNil(t, appraisal)
		require.NotNil(t, display)
		assert.Less(t, appraisal.RemainingBalance, display.RemainingBalance)
	})
}

func TestSummarize(t *testing.T) {
	t.Run("includes the carrying fee", func(t *testing.T) {
		base := Summarize(8980, 0)
		withFee := Summarize(8980, 2.5)
		require.NotNil(t, base)
		require.NotNil(t, withFee)
		assert.InDelta(t, base.MonthlyTotalMan+2.5, withFee.MonthlyTotalMan, 1e-9)
	})

	t.Run("nil for unpriced listing", func(t *testing.T) {
		assert.Nil(t, Summarize(0, 2.5))
	})
}

func TestFormatMonthlyMan(t *testing.T) {
	tests := []struct {
		name     string
		man      float64
		expected string
	}{
		{"two decimals under 10", 9.876, "9.88万円"},
		{"one decimal 10 to 100", 23.45, "23.5万円"},
		{"whole at 100 and above", 123.45, "123万円"},
		{"boundary at 10", 10, "10.0万円"},
		{"boundary at 100", 100, "100万円"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatMonthlyMan(tt.man))
		})
	}
}

func TestFormatTotalMan(t *testing.T) {
	tests := []struct {
		name     string
		man      float64
		expected string
	}{
		{"below one oku", 8980, "8980万円"},
		{"oku with remainder", 12345, "1億2345万円"},
		{"zero remainder suppressed", 20000, "2億円"},
		{"exactly one oku", 10000, "1億円"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatTotalMan(tt.man))
		})
	}
}
