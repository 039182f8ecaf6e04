package payments

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DiscountEconomics holds the structured economics of an early-payment
// discount term. Rate is the fraction of the invoice amount saved when
// paying inside the discount window.
type DiscountEconomics struct {
	Rate               decimal.Decimal
	DiscountWindowDays *int // days until the discount expires; nil when unknown
	NetDueDays         *int // informational only; nil when unknown
}

// HasDiscount returns true if the term carries a usable discount rate
func (e DiscountEconomics) HasDiscount() bool {
	return e.Rate.IsPositive()
}

// SavingsRate returns the discount rate normalized by the discount window
// length (savings per day of early payment). The second return value is
// false when the window is absent or non-positive, in which case the term
// cannot be ranked against dated discounts.
func (e DiscountEconomics) SavingsRate() (decimal.Decimal, bool) {
	if e.DiscountWindowDays == nil || *e.DiscountWindowDays <= 0 {
		return decimal.Zero, false
	}
	return e.Rate.Div(decimal.NewFromInt(int64(*e.DiscountWindowDays))), true
}

// noDiscount is the degraded result for unparseable terms
func noDiscount() DiscountEconomics {
	return DiscountEconomics{Rate: decimal.Zero}
}

// ParseDiscountTerms parses a vendor discount term string like "2/10 Net 30"
// (2% discount if paid within 10 days, full amount due in 30 days).
//
// Malformed terms are not an error: anything that does not match the
// "<pct>/<days> Net <netdays>" shape degrades to a zero rate with no
// discount window, so the invoice simply ranks as having no discount.
func ParseDiscountTerms(term string) DiscountEconomics {
	parts := strings.Split(term, " Net ")
	if len(parts) != 2 {
		return noDiscount()
	}

	pctPart := strings.Split(parts[0], "/")
	if len(pctPart) != 2 {
		return noDiscount()
	}

	pct, err := decimal.NewFromString(strings.TrimSpace(pctPart[0]))
	if err != nil {
		return noDiscount()
	}
	windowDays, err := strconv.Atoi(strings.TrimSpace(pctPart[1]))
	if err != nil {
		return noDiscount()
	}
	netDays, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return noDiscount()
	}

	return DiscountEconomics{
		Rate:               pct.Div(decimal.NewFromInt(100)),
		DiscountWindowDays: &windowDays,
		NetDueDays:         &netDays,
	}
}
