// Package testutil provides database fixtures shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/storage"
	"github.com/shopspring/decimal"
)

// TestDB represents a migrated in-memory database with fixture helpers.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
	seq     int
}

// SetupTestDB creates a new in-memory test database.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	acct := db.Account("plaid-123")
//	txn := db.Transaction(acct, "SHELL OIL", "-45.99", testutil.Date(2024, 1, 15))
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// Date returns midnight UTC on the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Account links a bank account with the given external ID.
func (db *TestDB) Account(externalID string) *model.BankAccount {
	db.t.Helper()

	account := &model.BankAccount{
		ExternalAccountID: externalID,
		InstitutionName:   "Test Bank",
		Name:              "Checking",
		Type:              "depository",
	}
	if err := db.Storage.UpsertBankAccount(context.Background(), account); err != nil {
		db.t.Fatalf("failed to create account %q: %v", externalID, err)
	}
	return account
}

// Transaction records a pending bank transaction. The merchant name is set
// to name; opts may adjust any field before insertion.
func (db *TestDB) Transaction(account *model.BankAccount, name, amount string, date time.Time, opts ...func(*model.BankTransaction)) *model.BankTransaction {
	db.t.Helper()

	db.seq++
	txn := &model.BankTransaction{
		BankAccountID: account.ID,
		ExternalID:    fmt.Sprintf("test-%d", db.seq),
		Name:          name,
		MerchantName:  name,
		Amount:        decimal.RequireFromString(amount),
		Date:          date,
	}
	for _, opt := range opts {
		opt(txn)
	}

	inserted, err := db.Storage.InsertBankTransaction(context.Background(), txn)
	if err != nil {
		db.t.Fatalf("failed to insert transaction %q: %v", name, err)
	}
	if !inserted {
		db.t.Fatalf("transaction %q was not inserted", txn.ExternalID)
	}
	return txn
}

// Expense records a manual expense.
func (db *TestDB) Expense(description, amount string, date time.Time) *model.Expense {
	db.t.Helper()

	expense := &model.Expense{
		Description: description,
		Category:    "General",
		Amount:      decimal.RequireFromString(amount),
		Date:        date,
		Vendor:      description,
		Source:      model.SourceManual,
	}
	if err := db.Storage.CreateExpense(context.Background(), expense); err != nil {
		db.t.Fatalf("failed to create expense %q: %v", description, err)
	}
	return expense
}

// Rule creates an active rule.
func (db *TestDB) Rule(pattern string, matchType model.MatchType, category string, priority int, autoApprove bool) *model.TransactionRule {
	db.t.Helper()

	rule := &model.TransactionRule{
		Name:            pattern + " rule",
		MerchantPattern: pattern,
		MatchType:       matchType,
		Category:        category,
		Priority:        priority,
		AutoApprove:     autoApprove,
		IsActive:        true,
	}
	if err := db.Storage.CreateRule(context.Background(), rule); err != nil {
		db.t.Fatalf("failed to create rule %q: %v", pattern, err)
	}
	return rule
}

// Reload fetches the current state of a transaction.
func (db *TestDB) Reload(txn *model.BankTransaction) *model.BankTransaction {
	db.t.Helper()

	got, err := db.Storage.GetBankTransaction(context.Background(), txn.ID)
	if err != nil {
		db.t.Fatalf("failed to reload transaction %s: %v", txn.ID, err)
	}
	return got
}
