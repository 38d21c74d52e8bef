// Package service defines the interfaces for all application services.
package service

//go:generate mockgen -destination=storage_mock.go -package=service . Storage

import (
	"context"
	"time"

	"github.com/Veraticus/tally/internal/model"
	"github.com/shopspring/decimal"
)

// BankTransactionFilter defines filtering options for bank transaction queries.
type BankTransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Status    *model.ReconciliationStatus
	AbsAmount *decimal.Decimal
	AccountID string
	ExcludeID string
	Limit     int
	Offset    int
}

// ExpenseFilter defines filtering options for expense queries.
type ExpenseFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Amount    *decimal.Decimal
	Source    model.ExpenseSource
	Limit     int
}

// StatusUpdate carries the review fields written alongside a status change.
type StatusUpdate struct {
	ReviewedAt       time.Time
	ApprovedCategory *string
	Notes            *string
	ReviewedBy       string
}

// Storage defines the contract for our persistence layer.
//
// Methods returning (bool, error) perform conditional writes: false with a nil
// error means the row was not in the expected state and nothing was changed.
type Storage interface {
	// Bank account operations
	UpsertBankAccount(ctx context.Context, account *model.BankAccount) error
	GetBankAccount(ctx context.Context, id string) (*model.BankAccount, error)
	GetBankAccountByExternalID(ctx context.Context, externalID string) (*model.BankAccount, error)
	ListBankAccounts(ctx context.Context, activeOnly bool) ([]model.BankAccount, error)
	DeactivateBankAccount(ctx context.Context, id string) error
	MarkBankAccountSynced(ctx context.Context, id string, at time.Time) error

	// Bank transaction operations
	InsertBankTransaction(ctx context.Context, txn *model.BankTransaction) (bool, error)
	GetBankTransaction(ctx context.Context, id string) (*model.BankTransaction, error)
	ListBankTransactions(ctx context.Context, filter BankTransactionFilter) ([]model.BankTransaction, error)
	UpdateSuggestion(ctx context.Context, id, category string, confidence float64) (bool, error)
	TransitionStatus(ctx context.Context, id string, from, to model.ReconciliationStatus, update StatusUpdate) (bool, error)
	PromoteToExpense(ctx context.Context, transactionID string, expense *model.Expense) (bool, error)

	// Expense operations
	CreateExpense(ctx context.Context, expense *model.Expense) error
	GetExpense(ctx context.Context, id string) (*model.Expense, error)
	ListExpenses(ctx context.Context, filter ExpenseFilter) ([]model.Expense, error)

	// Rule operations
	CreateRule(ctx context.Context, rule *model.TransactionRule) error
	GetRule(ctx context.Context, id int) (*model.TransactionRule, error)
	ListRules(ctx context.Context, activeOnly bool) ([]model.TransactionRule, error)
	UpdateRule(ctx context.Context, rule *model.TransactionRule) error
	DeleteRule(ctx context.Context, id int) error

	// Channel operations
	InsertChannelOrder(ctx context.Context, order *model.ChannelOrder) (bool, error)
	GetChannelOrder(ctx context.Context, id string) (*model.ChannelOrder, error)
	ListChannelOrders(ctx context.Context, unmatchedOnly bool) ([]model.ChannelOrder, error)
	CreateInvoice(ctx context.Context, invoice *model.Invoice) error
	FindInvoiceCandidates(ctx context.Context, total decimal.Decimal, start, end time.Time) ([]model.Invoice, error)
	LinkOrderToInvoice(ctx context.Context, orderID, invoiceID string, at time.Time) (bool, error)
	ListUnsyncedFees(ctx context.Context, orderID string) ([]model.ChannelFee, error)
	PromoteFeeToExpense(ctx context.Context, feeID string, expense *model.Expense) (bool, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// FeedSource supplies accounts and transactions from a bank feed.
// Amounts must already follow the negative-is-money-out convention.
type FeedSource interface {
	Accounts(ctx context.Context) ([]model.FeedAccount, error)
	Transactions(ctx context.Context, window DateRange) ([]model.FeedTransaction, error)
}

// DateRange represents a time period with start and end dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the range, inclusive at both ends.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
