package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/tally/internal/model"
	"github.com/shopspring/decimal"
)

// FormatAmount renders a signed amount with a currency sign, e.g. -$45.99.
func FormatAmount(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-$" + amount.Abs().StringFixed(2)
	}
	return "$" + amount.StringFixed(2)
}

// FormatConfidence renders a confidence score as a coloured percentage.
func FormatConfidence(score *float64) string {
	if score == nil {
		return SubtleStyle.Render("-")
	}
	return ConfidenceStyle(*score).Render(fmt.Sprintf("%3.0f%%", *score*100))
}

// FormatStatus renders a reconciliation status.
func FormatStatus(status model.ReconciliationStatus) string {
	return StatusStyle(status).Render(string(status))
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// TransactionLine renders a transaction as one row of a listing.
func TransactionLine(txn *model.BankTransaction) string {
	category := "-"
	switch {
	case txn.ApprovedCategory != nil:
		category = *txn.ApprovedCategory
	case txn.SuggestedCategory != nil:
		category = *txn.SuggestedCategory
	}

	return strings.Join([]string{
		SubtleStyle.Render(txn.ID[:min(8, len(txn.ID))]),
		txn.Date.Format("2006-01-02"),
		fmt.Sprintf("%-30s", Truncate(txn.DisplayName(), 30)),
		fmt.Sprintf("%12s", FormatAmount(txn.Amount)),
		fmt.Sprintf("%-24s", Truncate(category, 24)),
		FormatConfidence(txn.ConfidenceScore),
		FormatStatus(txn.Status),
	}, "  ")
}

// ChannelStatsLine summarizes channel totals on one line.
func ChannelStatsLine(stats model.ChannelStats) string {
	return fmt.Sprintf("%d orders (%d pending)  revenue %s  fees %s  net %s",
		stats.OrderCount, stats.PendingOrders,
		FormatAmount(stats.TotalRevenue), FormatAmount(stats.TotalFees), FormatAmount(stats.NetRevenue()))
}
