package payments

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testToday = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	// monthly cadence puts the next run on 2024-01-31
	testNextRun = time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
)

func testInvoice(id string, amount float64, due time.Time, terms string, priority int) InvoiceRecord {
	return InvoiceRecord{
		InvoiceID:     id,
		VendorName:    "Vendor " + id,
		Amount:        decimal.NewFromFloat(amount),
		DueDate:       due,
		DiscountTerms: terms,
		Priority:      priority,
	}
}

func monthlyParams(cash float64) RunParameters {
	return RunParameters{
		CurrentCash: decimal.NewFromFloat(cash),
		RunwayDays:  90,
		Frequency:   FrequencyMonthly,
	}
}

func scheduledIDs(schedule []ScheduledPayment) []string {
	ids := make([]string, len(schedule))
	for i, p := range schedule {
		ids[i] = p.InvoiceID
	}
	return ids
}

func TestRunParameters_SpendCap(t *testing.T) {
	tests := []struct {
		name     string
		cash     float64
		maxSpend float64
		expected float64
	}{
		{"no override", 1000, 0, 1000},
		{"override below cash", 1000, 600, 600},
		{"override above cash", 1000, 5000, 1000},
		{"negative override wins the min", 1000, -1, -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := RunParameters{
				CurrentCash: decimal.NewFromFloat(tc.cash),
				MaxSpend:    decimal.NewFromFloat(tc.maxSpend),
			}
			assert.True(t, p.SpendCap().Equal(decimal.NewFromFloat(tc.expected)),
				"got %s", p.SpendCap())
		})
	}
}

func TestClassify_DisjointAndComplete(t *testing.T) {
	dueBefore := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	dueAfter := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	invoices := []InvoiceRecord{
		testInvoice("INV-1", 100, dueBefore, "", 1),
		testInvoice("INV-2", 200, dueBefore, "", 2),
		testInvoice("INV-3", 300, dueAfter, "2/10 Net 30", 1),
		testInvoice("INV-4", 400, dueAfter, "", 2),
		testInvoice("INV-5", 500, testNextRun, "", 3), // due exactly on the run date
	}

	b := classify(invoices, testNextRun)

	assert.Len(t, b.mustPay, 1)
	assert.Equal(t, "INV-1", b.mustPay[0].InvoiceID)
	// due exactly on the next run date counts as due
	assert.Len(t, b.due, 2)
	// priority 1 does not rescue an invoice due after the next run
	assert.Len(t, b.residual, 2)

	seen := make(map[string]int)
	for _, bucket := range [][]InvoiceRecord{b.mustPay, b.due, b.residual} {
		for _, inv := range bucket {
			seen[inv.InvoiceID]++
		}
	}
	require.Len(t, seen, len(invoices), "every invoice must land in a bucket")
	for id, count := range seen {
		assert.Equal(t, 1, count, "invoice %s appears in more than one bucket", id)
	}
}

func TestRankByDiscount_OrdersBySavingsRate(t *testing.T) {
	dueAfter := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	residual := []InvoiceRecord{
		testInvoice("SLOW", 100, dueAfter, "1/30 Net 60", 2),  // 0.000333/day
		testInvoice("NONE", 100, dueAfter, "garbage", 2),      // unrankable
		testInvoice("FAST", 100, dueAfter, "3/5 Net 30", 2),   // 0.006/day
		testInvoice("MID", 100, dueAfter, "2/10 Net 30", 2),   // 0.002/day
		testInvoice("BLANK", 100, dueAfter, "", 2),            // unrankable
		testInvoice("ZEROWIN", 100, dueAfter, "2/0 Net 30", 2), // unrankable window
	}

	ranked := rankByDiscount(residual)

	ids := make([]string, len(ranked))
	for i, c := range ranked {
		ids[i] = c.record.InvoiceID
	}
	// unrankable invoices sort last, preserving their relative input order
	assert.Equal(t, []string{"FAST", "MID", "SLOW", "NONE", "BLANK", "ZEROWIN"}, ids)
}

func TestRankByDiscount_StableOnTies(t *testing.T) {
	dueAfter := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	residual := []InvoiceRecord{
		testInvoice("TIE-1", 100, dueAfter, "2/10 Net 30", 2),
		testInvoice("TIE-2", 200, dueAfter, "2/10 Net 30", 2),
		testInvoice("TIE-3", 300, dueAfter, "2/10 Net 30", 2),
	}

	ranked := rankByDiscount(residual)

	require.Len(t, ranked, 3)
	assert.Equal(t, "TIE-1", ranked[0].record.InvoiceID)
	assert.Equal(t, "TIE-2", ranked[1].record.InvoiceID)
	assert.Equal(t, "TIE-3", ranked[2].record.InvoiceID)
}

func TestAllocate_GreedySkipAndContinue(t *testing.T) {
	dueBefore := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	invoices := []InvoiceRecord{
		testInvoice("INV-80", 80, dueBefore, "", 2),
		testInvoice("INV-50", 50, dueBefore, "", 2),
		testInvoice("INV-30", 30, dueBefore, "", 2),
	}

	schedule := Allocate(invoices, monthlyParams(100), testToday)

	// 80 is selected, 50 is skipped (130 > 100), and the walk continues to
	// 30 which is also skipped (110 > 100). Nothing stops early.
	assert.Equal(t, []string{"INV-80"}, scheduledIDs(schedule))
}

func TestAllocate_SkippedLargeLeavesRoomForSmall(t *testing.T) {
	dueBefore := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	invoices := []InvoiceRecord{
		testInvoice("INV-60", 60, dueBefore, "", 2),
		testInvoice("INV-90", 90, dueBefore, "", 2),
		testInvoice("INV-35", 35, dueBefore, "", 2),
	}

	schedule := Allocate(invoices, monthlyParams(100), testToday)

	// 60 selected, 90 skipped (150 > 100), 35 still selected (95 <= 100)
	assert.Equal(t, []string{"INV-60", "INV-35"}, scheduledIDs(schedule))
}

func TestAllocate_SpendCapInvariant(t *testing.T) {
	dueBefore := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	dueAfter := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	invoices := []InvoiceRecord{
		testInvoice("A", 120.50, dueBefore, "", 1),
		testInvoice("B", 75.25, dueBefore, "", 2),
		testInvoice("C", 310, dueAfter, "2/10 Net 30", 2),
		testInvoice("D", 42.99, dueAfter, "1/15 Net 45", 2),
		testInvoice("E", 999, dueAfter, "", 2),
	}

	params := monthlyParams(400)
	params.MaxSpend = decimal.NewFromFloat(250)
	schedule := Allocate(invoices, params, testToday)

	total := decimal.Zero
	for _, p := range schedule {
		total = total.Add(p.Amount)
	}
	assert.True(t, total.LessThanOrEqual(params.SpendCap()),
		"selected %s exceeds cap %s", total, params.SpendCap())
}

func TestAllocate_PriorityPrecedesDiscount(t *testing.T) {
	dueBefore := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)

	invoices := []InvoiceRecord{
		testInvoice("NORMAL", 100, dueBefore, "5/5 Net 30", 2),
		testInvoice("FORCED", 100, dueBefore, "", 1),
	}

	schedule := Allocate(invoices, monthlyParams(1000), testToday)

	require.Len(t, schedule, 2)
	// the must-pay invoice leads the candidate ordering even though the
	// normal one carries a generous discount term
	assert.Equal(t, "FORCED", schedule[0].InvoiceID)
	assert.Equal(t, "NORMAL", schedule[1].InvoiceID)
	// discounts are never computed for invoices due before the next run
	assert.True(t, schedule[1].DiscountAmount.IsZero())
}

func TestAllocate_DiscountAmountRounding(t *testing.T) {
	dueAfter := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	invoices := []InvoiceRecord{
		testInvoice("ROUND", 33.335, dueAfter, "2/10 Net 30", 2),
	}

	schedule := Allocate(invoices, monthlyParams(1000), testToday)

	require.Len(t, schedule, 1)
	// 33.335 * 0.02 = 0.6667, rounded half-up to 0.67
	assert.Equal(t, "0.67", schedule[0].DiscountAmount.StringFixed(2))
}

func TestAllocate_RecommendedPayDateIsNextRun(t *testing.T) {
	dueBefore := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	dueAfter := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	invoices := []InvoiceRecord{
		testInvoice("A", 10, dueBefore, "", 1),
		testInvoice("B", 20, dueAfter, "2/10 Net 30", 2),
	}

	schedule := Allocate(invoices, monthlyParams(1000), testToday)

	require.Len(t, schedule, 2)
	for _, p := range schedule {
		assert.Equal(t, testNextRun, p.RecommendedPayDate)
	}
}

func TestAllocate_EmptyWhenCapNotPositive(t *testing.T) {
	dueBefore := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	invoices := []InvoiceRecord{
		testInvoice("A", 10, dueBefore, "", 1),
	}

	t.Run("zero cash", func(t *testing.T) {
		schedule := Allocate(invoices, monthlyParams(0), testToday)
		assert.Empty(t, schedule)
	})

	t.Run("negative max spend override", func(t *testing.T) {
		params := monthlyParams(1000)
		params.MaxSpend = decimal.NewFromFloat(-5)
		schedule := Allocate(invoices, params, testToday)
		assert.Empty(t, schedule)
	})

	t.Run("no invoices", func(t *testing.T) {
		schedule := Allocate(nil, monthlyParams(1000), testToday)
		assert.Empty(t, schedule)
	})
}

func TestAllocate_Deterministic(t *testing.T) {
	dueBefore := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	dueAfter := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	invoices := []InvoiceRecord{
		testInvoice("A", 120, dueBefore, "", 1),
		testInvoice("B", 75, dueBefore, "", 2),
		testInvoice("C", 310, dueAfter, "2/10 Net 30", 2),
		testInvoice("D", 42, dueAfter, "2/10 Net 30", 2),
		testInvoice("E", 99, dueAfter, "garbage", 2),
	}
	params := monthlyParams(500)

	first := Allocate(invoices, params, testToday)
	second := Allocate(invoices, params, testToday)

	assert.Equal(t, first, second)
}
