// Package loan computes fixed-rate, zero-down, fully amortizing loan
// figures for listing prices expressed in man yen.
package loan

import (
	"math"

	"github.com/Ramsey-B/azalea/pkg/models"
)

// Terms is a rate and term configuration for amortization
type Terms struct {
	AnnualRate float64
	TermMonths int
}

// DisplayTerms is the consumer-facing configuration used for monthly
// and total cost strings. AppraisalTerms is the internal configuration
// whose 10-year residual feeds asset-value projection. They answer
// different questions (affordability vs projected equity) and must
// never be swapped.
var (
	DisplayTerms   = Terms{AnnualRate: 0.01, TermMonths: 50 * 12}
	AppraisalTerms = Terms{AnnualRate: 0.008, TermMonths: 50 * 12}
)

// AppraisalElapsedMonths is the fixed evaluation point for the
// appraisal residual balance.
const AppraisalElapsedMonths = 120

// Amortize computes the monthly payment and the outstanding balance
// after elapsedMonths for a fully amortizing loan of principal (man
// yen) under the given terms. Returns nil when the principal is not
// positive; never panics. A non-positive rate degenerates to
// straight-line division.
func Amortize(principal float64, terms Terms, elapsedMonths int) *models.LoanResult {
	if principal <= 0 || terms.TermMonths <= 0 {
		return nil
	}

	n := float64(terms.TermMonths)
	k := float64(elapsedMonths)

	if terms.AnnualRate <= 0 {
		balance := principal * (1 - k/n)
		if balance < 0 {
			balance = 0
		}
		return &models.LoanResult{
			MonthlyPayment:   principal / n,
			RemainingBalance: balance,
		}
	}

	r := terms.AnnualRate / 12
	growth := math.Pow(1+r, n)
	payment := principal * r * growth / (growth - 1)

	elapsed := math.Pow(1+r, k)
	balance := principal*elapsed - payment*(elapsed-1)/r
	if balance < 0 {
		balance = 0
	}

	return &models.LoanResult{
		MonthlyPayment:   payment,
		RemainingBalance: balance,
	}
}

// AppraisalResidual returns the outstanding balance at the fixed
// 10-year appraisal point, or nil when the price is not computable.
func AppraisalResidual(priceMan float64) *float64 {
	result := Amortize(priceMan, AppraisalTerms, AppraisalElapsedMonths)
	if result == nil {
		return nil
	}
	return &result.RemainingBalance
}

// Summarize builds the consumer-facing cost summary for a listing
// price. monthlyFeeMan is the flat non-loan carrying cost (management
// fee plus repair reserve) added to every monthly figure. Returns nil
// when the price is not computable.
func Summarize(priceMan, monthlyFeeMan float64) *models.LoanSummary {
	result := Amortize(priceMan, DisplayTerms, DisplayTerms.TermMonths)
	if result == nil {
		return nil
	}

	monthly := result.MonthlyPayment + monthlyFeeMan
	total := result.MonthlyPayment*float64(DisplayTerms.TermMonths) + monthlyFeeMan*float64(DisplayTerms.TermMonths)

	return &models.LoanSummary{
		MonthlyTotalMan: monthly,
		TotalPaidMan:    total,
		MonthlyLabel:    FormatMonthlyMan(monthly),
		TotalLabel:      FormatTotalMan(total),
	}
}
