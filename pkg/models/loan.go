package models

// LoanResult holds the outcome of an amortization computation, in the
// same unit as the principal (man). A nil *LoanResult means the loan
// was not computable (no price on the listing).
type LoanResult struct {
	MonthlyPayment   float64 `json:"monthly_payment"`
	RemainingBalance float64 `json:"remaining_balance"`
}

// LoanSummary is the consumer-facing cost breakdown for a listing:
// loan payment plus the fixed monthly carrying fee, and the total paid
// over the full term.
type LoanSummary struct {
	MonthlyTotalMan float64 `json:"monthly_total_man"`
	TotalPaidMan    float64 `json:"total_paid_man"`
	MonthlyLabel    string  `json:"monthly_label"`
	TotalLabel      string  `json:"total_label"`
}
