package sheets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
	"github.com/Veraticus/tally/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expense(desc, category, amount string, date time.Time, source model.ExpenseSource) model.Expense {
	return model.Expense{
		Description: desc,
		Category:    category,
		Amount:      decimal.RequireFromString(amount),
		Date:        date,
		Source:      source,
	}
}

func TestBuildReport(t *testing.T) {
	window := service.DateRange{Start: testutil.Date(2024, 1, 1), End: testutil.Date(2024, 1, 31)}
	report := BuildReport([]model.Expense{
		expense("Staples", "Office Supplies", "89.99", testutil.Date(2024, 1, 20), model.SourceBankFeed),
		expense("Shell", "Fuel/Mileage Expenses", "45.99", testutil.Date(2024, 1, 15), model.SourceBankFeed),
		expense("Printer ink", "Office Supplies", "30.01", testutil.Date(2024, 1, 2), model.SourceManual),
		expense("AMAZON referral: Referral fee", "Amazon Fees", "6.00", testutil.Date(2024, 1, 9), model.SourceChannelFee),
	}, window)

	assert.True(t, report.Total.Equal(decimal.RequireFromString("171.99")))
	require.Len(t, report.Rows, 4)
	assert.Equal(t, "Printer ink", report.Rows[0].Description)
	assert.Equal(t, "Staples", report.Rows[3].Description)

	require.Len(t, report.ByCategory, 3)
	assert.Equal(t, "Office Supplies", report.ByCategory[0].Category)
	assert.Equal(t, 2, report.ByCategory[0].Count)
	assert.True(t, report.ByCategory[0].Amount.Equal(decimal.RequireFromString("120")))
	assert.Equal(t, "Amazon Fees", report.ByCategory[2].Category)

	require.Len(t, report.BySource, 3)
	assert.Equal(t, model.SourceBankFeed, report.BySource[0].Source)
	assert.Equal(t, 2, report.BySource[0].Count)
}

func TestReportValues(t *testing.T) {
	window := service.DateRange{Start: testutil.Date(2024, 1, 1), End: testutil.Date(2024, 1, 31)}
	report := BuildReport([]model.Expense{
		expense("Staples", "Office Supplies", "89.9", testutil.Date(2024, 1, 20), model.SourceBankFeed),
	}, window)

	values := report.Values()
	assert.Equal(t, []any{"Expense Ledger", "Jan 1, 2024 - Jan 31, 2024"}, values[0])
	assert.Equal(t, []any{"Total Amount", "89.90"}, values[3])
	assert.Equal(t, []any{"2024-01-20", "Staples", "89.90", "Office Supplies", "", "", "bank_feed"}, values[len(values)-1])
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	db.Expense("Staples", "89.99", testutil.Date(2024, 1, 20))
	db.Expense("Last year", "10.00", testutil.Date(2023, 12, 31))

	writer := NewMockWriter()
	window := service.DateRange{Start: testutil.Date(2024, 1, 1), End: testutil.Date(2024, 1, 31)}

	report, err := Export(ctx, db.Storage, writer, window)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	require.Len(t, writer.Reports, 1)
	assert.Equal(t, "Staples", writer.Reports[0].Rows[0].Description)

	writer.WriteFunc = func(context.Context, Report) error { return errors.New("quota exceeded") }
	_, err = Export(ctx, db.Storage, writer, window)
	assert.ErrorContains(t, err, "quota exceeded")
}
