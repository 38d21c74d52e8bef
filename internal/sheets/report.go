package sheets

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
	"github.com/shopspring/decimal"
)

// ExpenseLister is the storage the export reads from.
type ExpenseLister interface {
	ListExpenses(ctx context.Context, filter service.ExpenseFilter) ([]model.Expense, error)
}

// ReportWriter publishes a report.
type ReportWriter interface {
	Write(ctx context.Context, report Report) error
}

// Export writes the expenses dated within the window.
func Export(ctx context.Context, store ExpenseLister, writer ReportWriter, window service.DateRange) (Report, error) {
	start, end := window.Start, window.End
	expenses, err := store.ListExpenses(ctx, service.ExpenseFilter{StartDate: &start, EndDate: &end})
	if err != nil {
		return Report{}, fmt.Errorf("failed to list expenses: %w", err)
	}

	report := BuildReport(expenses, window)
	if err := writer.Write(ctx, report); err != nil {
		return report, err
	}
	return report, nil
}

// BuildReport summarizes expenses. Rows are ordered by date, categories by
// descending amount.
func BuildReport(expenses []model.Expense, window service.DateRange) Report {
	report := Report{DateRange: window, Total: decimal.Zero}

	byCategory := make(map[string]*CategoryTotal)
	bySource := make(map[model.ExpenseSource]*SourceTotal)

	for _, e := range expenses {
		report.Rows = append(report.Rows, LedgerRow{
			Date:          e.Date,
			Description:   e.Description,
			Vendor:        e.Vendor,
			Category:      e.Category,
			PaymentMethod: e.PaymentMethod,
			Source:        e.Source,
			Amount:        e.Amount,
		})
		report.Total = report.Total.Add(e.Amount)

		ct, ok := byCategory[e.Category]
		if !ok {
			ct = &CategoryTotal{Category: e.Category, Amount: decimal.Zero}
			byCategory[e.Category] = ct
		}
		ct.Amount = ct.Amount.Add(e.Amount)
		ct.Count++

		st, ok := bySource[e.Source]
		if !ok {
			st = &SourceTotal{Source: e.Source, Amount: decimal.Zero}
			bySource[e.Source] = st
		}
		st.Amount = st.Amount.Add(e.Amount)
		st.Count++
	}

	slices.SortStableFunc(report.Rows, func(a, b LedgerRow) int {
		return a.Date.Compare(b.Date)
	})

	for _, ct := range byCategory {
		report.ByCategory = append(report.ByCategory, *ct)
	}
	slices.SortFunc(report.ByCategory, func(a, b CategoryTotal) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})

	for _, st := range bySource {
		report.BySource = append(report.BySource, *st)
	}
	slices.SortFunc(report.BySource, func(a, b SourceTotal) int {
		return cmp.Compare(a.Source, b.Source)
	})

	return report
}

// Values lays the report out as spreadsheet rows.
func (r Report) Values() [][]any {
	values := make([][]any, 0, 12+len(r.ByCategory)+len(r.BySource)+len(r.Rows))

	values = append(values,
		[]any{
			"Expense Ledger",
			fmt.Sprintf("%s - %s", r.DateRange.Start.Format("Jan 2, 2006"), r.DateRange.End.Format("Jan 2, 2006")),
		},
		[]any{},
		[]any{"Summary"},
		[]any{"Total Amount", r.Total.StringFixed(2)},
		[]any{"Total Expenses", len(r.Rows)},
		[]any{},
		[]any{"Category Breakdown"},
		[]any{"Category", "Count", "Amount"},
	)
	for _, ct := range r.ByCategory {
		values = append(values, []any{ct.Category, ct.Count, ct.Amount.StringFixed(2)})
	}

	values = append(values, []any{}, []any{"Source"})
	for _, st := range r.BySource {
		values = append(values, []any{string(st.Source), st.Count, st.Amount.StringFixed(2)})
	}

	values = append(values,
		[]any{},
		[]any{"Expense Details"},
		[]any{"Date", "Description", "Amount", "Category", "Vendor", "Payment Method", "Source"},
	)
	for _, row := range r.Rows {
		values = append(values, []any{
			row.Date.Format("2006-01-02"),
			row.Description,
			row.Amount.StringFixed(2),
			row.Category,
			row.Vendor,
			row.PaymentMethod,
			string(row.Source),
		})
	}
	return values
}
