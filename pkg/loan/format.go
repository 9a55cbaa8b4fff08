package loan

import (
	"fmt"
	"math"
)

// FormatMonthlyMan renders a monthly man-yen figure with precision
// inversely proportional to magnitude. Small payments keep two decimal
// places, mid-range keeps one, and anything at or above 100 man is
// shown whole.
func FormatMonthlyMan(man float64) string {
	switch {
	case man < 10:
		return fmt.Sprintf("%.2f万円", man)
	case man < 100:
		return fmt.Sprintf("%.1f万円", man)
	default:
		return fmt.Sprintf("%.0f万円", man)
	}
}

// FormatTotalMan renders a total man-yen figure, splitting sums of one
// oku (10,000 man) or more into oku and man parts. A zero man
// remainder is suppressed.
func FormatTotalMan(man float64) string {
	whole := math.Round(man)
	if whole < 10000 {
		return fmt.Sprintf("%.0f万円", whole)
	}
	oku := math.Floor(whole / 10000)
	remainder := whole - oku*10000
	if remainder == 0 {
		return fmt.Sprintf("%.0f億円", oku)
	}
	return fmt.Sprintf("%.0f億%.0f万円", oku, remainder)
}
