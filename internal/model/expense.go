package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseSource records where an expense entered the ledger.
type ExpenseSource string

// Expense source constants.
const (
	SourceManual     ExpenseSource = "manual"
	SourceBankFeed   ExpenseSource = "bank_feed"
	SourceChannelFee ExpenseSource = "channel_fee"
)

// PaymentMethodBankAccount is the payment method of every expense promoted
// from a bank transaction.
const PaymentMethodBankAccount = "Bank Account"

// Expense is an entry in the expense ledger. Amount is always non-negative.
type Expense struct {
	Date          time.Time
	CreatedAt     time.Time
	ID            string
	Description   string
	Category      string
	Vendor        string
	PaymentMethod string
	Source        ExpenseSource
	Amount        decimal.Decimal
}
