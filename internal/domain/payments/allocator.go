package payments

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// RunParameters are the finance-user inputs for one allocation run.
// RunwayDays is accepted and recorded but does not currently alter the
// allocation; it is reserved for future cash-runway constraints.
type RunParameters struct {
	CurrentCash decimal.Decimal
	RunwayDays  int
	Frequency   Frequency
	MaxSpend    decimal.Decimal // zero means no override
}

// SpendCap returns the maximum total the allocator may commit to in one
// run: min(currentCash, maxSpend) when a non-zero override is present,
// otherwise currentCash.
func (p RunParameters) SpendCap() decimal.Decimal {
	if !p.MaxSpend.IsZero() && p.MaxSpend.LessThan(p.CurrentCash) {
		return p.MaxSpend
	}
	return p.CurrentCash
}

// ScheduledPayment is one selected invoice in the output schedule
type ScheduledPayment struct {
	VendorName         string          `json:"vendor_name"`
	InvoiceID          string          `json:"invoice_id"`
	OrigDueDate        time.Time       `json:"orig_due_date"`
	RecommendedPayDate time.Time       `json:"recommended_pay_date"`
	Amount             decimal.Decimal `json:"amount"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	Priority           int             `json:"priority"`
}

// candidate pairs an invoice with the discount rate that applies to it in
// the candidate ordering. Rates are only computed for the residual bucket;
// must-pay and due invoices carry a zero rate.
type candidate struct {
	record InvoiceRecord
	rate   decimal.Decimal
}

// buckets is the three-way partition of a batch. The buckets are disjoint
// and their union is the full input set.
type buckets struct {
	mustPay  []InvoiceRecord // priority 1 and due on or before the next run
	due      []InvoiceRecord // due on or before the next run, not must-pay
	residual []InvoiceRecord // due strictly after the next run
}

// classify partitions invoices by priority and due date relative to the
// next pay run. Membership is evaluated in fixed precedence so that no
// invoice lands in more than one bucket.
func classify(invoices []InvoiceRecord, nextRun time.Time) buckets {
	var b buckets
	for _, inv := range invoices {
		switch {
		case inv.IsMustPay() && inv.DueOnOrBefore(nextRun):
			b.mustPay = append(b.mustPay, inv)
		case inv.DueOnOrBefore(nextRun):
			b.due = append(b.due, inv)
		default:
			b.residual = append(b.residual, inv)
		}
	}
	return b
}

// rankByDiscount orders the residual bucket by discount attractiveness:
// descending savings rate, with undiscounted or window-less invoices last.
// The sort is stable so equal savings rates keep their input order, which
// keeps the schedule deterministic.
func rankByDiscount(residual []InvoiceRecord) []candidate {
	type ranked struct {
		cand    candidate
		savings decimal.Decimal
		hasRate bool
	}

	rankedList := make([]ranked, 0, len(residual))
	for _, inv := range residual {
		econ := ParseDiscountTerms(inv.DiscountTerms)
		savings, ok := econ.SavingsRate()
		rankedList = append(rankedList, ranked{
			cand:    candidate{record: inv, rate: econ.Rate},
			savings: savings,
			hasRate: ok,
		})
	}

	sort.SliceStable(rankedList, func(i, j int) bool {
		if rankedList[i].hasRate && rankedList[j].hasRate {
			return rankedList[i].savings.GreaterThan(rankedList[j].savings)
		}
		return rankedList[i].hasRate && !rankedList[j].hasRate
	})

	out := make([]candidate, len(rankedList))
	for i, r := range rankedList {
		out[i] = r.cand
	}
	return out
}

// Allocate decides which invoices of a batch to pay on the next pay run
// under the spend cap. The candidate ordering is must-pay, then due, then
// the discount-ranked residual; the walk is a single greedy pass that
// skips any candidate that would push the running total over the cap and
// keeps scanning, so a later smaller invoice can still be selected. There
// is no backtracking and no optimality guarantee.
//
// The reference date is passed explicitly to keep the computation
// deterministic; Allocate never reads the ambient clock.
func Allocate(invoices []InvoiceRecord, params RunParameters, today time.Time) []ScheduledPayment {
	schedule := make([]ScheduledPayment, 0)

	spendCap := params.SpendCap()
	if !spendCap.IsPositive() {
		return schedule
	}

	nextRun := DateOnly(NextRunDate(today, params.Frequency))
	b := classify(invoices, nextRun)

	candidates := make([]candidate, 0, len(invoices))
	for _, inv := range b.mustPay {
		candidates = append(candidates, candidate{record: inv, rate: decimal.Zero})
	}
	for _, inv := range b.due {
		candidates = append(candidates, candidate{record: inv, rate: decimal.Zero})
	}
	candidates = append(candidates, rankByDiscount(b.residual)...)

	totalSpent := decimal.Zero
	for _, c := range candidates {
		if totalSpent.Add(c.record.Amount).GreaterThan(spendCap) {
			continue
		}
		schedule = append(schedule, ScheduledPayment{
			VendorName:         c.record.VendorName,
			InvoiceID:          c.record.InvoiceID,
			OrigDueDate:        DateOnly(c.record.DueDate),
			RecommendedPayDate: nextRun,
			Amount:             c.record.Amount,
			DiscountAmount:     c.record.Amount.Mul(c.rate).Round(2),
			Priority:           c.record.Priority,
		})
		totalSpent = totalSpent.Add(c.record.Amount)
	}

	return schedule
}
