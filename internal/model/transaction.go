package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationStatus tracks a bank transaction through review and promotion.
type ReconciliationStatus string

// Reconciliation status constants.
const (
	StatusPending  ReconciliationStatus = "pending"
	StatusApproved ReconciliationStatus = "approved"
	StatusRejected ReconciliationStatus = "rejected"
	StatusSynced   ReconciliationStatus = "synced"
)

// Valid reports whether s is one of the known statuses.
func (s ReconciliationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusSynced:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are possible from s.
func (s ReconciliationStatus) Terminal() bool {
	return s == StatusSynced || s == StatusRejected
}

// UncategorizedCategory is assigned when neither a rule nor a provider hint applies.
const UncategorizedCategory = "Uncategorized"

// BankTransaction is a single transaction delivered by a bank feed, together
// with its reconciliation state.
//
// Amount is signed: negative is money leaving the account, positive is money
// arriving. Feed adapters convert to this convention on ingestion.
type BankTransaction struct {
	Date               time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ReviewedAt         *time.Time
	ConfidenceScore    *float64
	SuggestedCategory  *string
	ApprovedCategory   *string
	LinkedExpenseID    *string
	ReviewedBy         *string
	Notes              *string
	ID                 string
	BankAccountID      string
	ExternalID         string
	Name               string // Raw transaction description
	MerchantName       string // Normalized merchant name, may be empty
	Status             ReconciliationStatus
	ProviderCategories []string // Category hints from the feed (e.g., Plaid categories)
	Amount             decimal.Decimal
	IsPending          bool // Source-side pending flag, unrelated to Status
}

// DisplayName returns the merchant name, falling back to the raw name.
func (t *BankTransaction) DisplayName() string {
	if t.MerchantName != "" {
		return t.MerchantName
	}
	return t.Name
}

// AbsAmount returns the unsigned transaction amount.
func (t *BankTransaction) AbsAmount() decimal.Decimal {
	return t.Amount.Abs()
}

// FeedTransaction is a transaction candidate as delivered by a bank feed,
// before it has been recorded.
type FeedTransaction struct {
	Date              time.Time
	ExternalID        string
	AccountExternalID string
	Name              string
	MerchantName      string
	Type              string // Transaction type (e.g., DEBIT, CHECK, ONLINE)
	Categories        []string
	Amount            decimal.Decimal
	Pending           bool
}
