package sheets

import (
	"time"

	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
	"github.com/shopspring/decimal"
)

// LedgerRow is one expense in the export.
type LedgerRow struct {
	Date          time.Time
	Description   string
	Vendor        string
	Category      string
	PaymentMethod string
	Source        model.ExpenseSource
	Amount        decimal.Decimal
}

// CategoryTotal sums the expenses of one category.
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
	Count    int
}

// SourceTotal sums the expenses that entered the ledger the same way.
type SourceTotal struct {
	Source model.ExpenseSource
	Amount decimal.Decimal
	Count  int
}

// Report is everything written to the spreadsheet.
type Report struct {
	DateRange  service.DateRange
	Total      decimal.Decimal
	Rows       []LedgerRow
	ByCategory []CategoryTotal
	BySource   []SourceTotal
}
