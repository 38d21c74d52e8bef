// Package model defines the core domain models used throughout the application.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount is an account linked through a bank feed. Accounts are never
// deleted, only deactivated.
type BankAccount struct {
	CreatedAt         time.Time
	LastSyncedAt      *time.Time
	ID                string
	UserID            string
	InstitutionName   string
	ExternalAccountID string
	Name              string
	Type              string
	Subtype           string
	Mask              string
	CurrentBalance    decimal.Decimal
	AvailableBalance  decimal.Decimal
	IsActive          bool
}

// FeedAccount describes an account as reported by a bank feed.
type FeedAccount struct {
	ExternalAccountID string
	InstitutionName   string
	Name              string
	Type              string
	Subtype           string
	Mask              string
	CurrentBalance    decimal.Decimal
	AvailableBalance  decimal.Decimal
}
