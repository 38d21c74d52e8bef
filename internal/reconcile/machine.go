// Package reconcile moves bank transactions through review and promotes
// approved ones to expenses.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
)

var transitions = map[model.ReconciliationStatus][]model.ReconciliationStatus{
	model.StatusPending:  {model.StatusApproved, model.StatusRejected},
	model.StatusApproved: {model.StatusSynced},
}

// CanTransition reports whether a transaction may move from one status to another.
func CanTransition(from, to model.ReconciliationStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Store is the persistence the machine needs.
type Store interface {
	GetBankTransaction(ctx context.Context, id string) (*model.BankTransaction, error)
	TransitionStatus(ctx context.Context, id string, from, to model.ReconciliationStatus, update service.StatusUpdate) (bool, error)
	PromoteToExpense(ctx context.Context, transactionID string, expense *model.Expense) (bool, error)
}

// Machine applies reconciliation transitions with conditional writes, so
// concurrent callers can never both succeed on the same transaction.
type Machine struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewMachine creates a state machine over store.
func NewMachine(store Store) *Machine {
	return &Machine{
		store:  store,
		logger: slog.Default().With("component", "reconcile"),
		now:    time.Now,
	}
}

// Approve moves a pending transaction to approved with the given category.
// It returns false when the transaction is not pending or does not exist.
// A blank category is a caller error and returns ErrCategoryRequired
// without touching the store.
func (m *Machine) Approve(ctx context.Context, id, category, reviewer string) (bool, error) {
	if strings.TrimSpace(category) == "" {
		return false, common.ErrCategoryRequired
	}
	ok, err := m.transition(ctx, id, model.StatusPending, model.StatusApproved, service.StatusUpdate{
		ApprovedCategory: &category,
		ReviewedBy:       reviewer,
		ReviewedAt:       m.now(),
	})
	if ok {
		m.logger.Info("Transaction approved", "transaction_id", id, "category", category, "reviewer", reviewer)
	}
	return ok, err
}

// Reject moves a pending transaction to rejected.
// It returns false when the transaction is not pending or does not exist.
func (m *Machine) Reject(ctx context.Context, id, reviewer string) (bool, error) {
	ok, err := m.transition(ctx, id, model.StatusPending, model.StatusRejected, service.StatusUpdate{
		ReviewedBy: reviewer,
		ReviewedAt: m.now(),
	})
	if ok {
		m.logger.Info("Transaction rejected", "transaction_id", id, "reviewer", reviewer)
	}
	return ok, err
}

func (m *Machine) transition(ctx context.Context, id string, from, to model.ReconciliationStatus, update service.StatusUpdate) (bool, error) {
	if !CanTransition(from, to) {
		return false, fmt.Errorf("%w: %s -> %s", common.ErrInvalidTransition, from, to)
	}

	ok, err := m.store.TransitionStatus(ctx, id, from, to, update)
	if err != nil {
		return false, fmt.Errorf("failed to move transaction %s to %s: %w", id, to, err)
	}
	if !ok {
		m.logger.Debug("Transition guard failed", "transaction_id", id, "from", from, "to", to)
	}
	return ok, nil
}

// Sync promotes an approved transaction to an expense. The expense insert
// and the status change commit together; when the transaction is not
// approved, or another caller synced it first, nothing is written and
// ("", false, nil) is returned.
func (m *Machine) Sync(ctx context.Context, id string) (string, bool, error) {
	txn, err := m.store.GetBankTransaction(ctx, id)
	if errors.Is(err, common.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to load transaction %s: %w", id, err)
	}
	if txn.Status != model.StatusApproved || txn.ApprovedCategory == nil {
		m.logger.Debug("Transaction not approved, skipping sync", "transaction_id", id, "status", txn.Status)
		return "", false, nil
	}

	expense := ExpenseFor(txn)
	ok, err := m.store.PromoteToExpense(ctx, id, expense)
	if err != nil {
		return "", false, fmt.Errorf("failed to promote transaction %s: %w", id, err)
	}
	if !ok {
		m.logger.Debug("Transaction synced concurrently", "transaction_id", id)
		return "", false, nil
	}

	m.logger.Info("Transaction synced",
		"transaction_id", id,
		"expense_id", expense.ID,
		"amount", expense.Amount.StringFixed(2))
	return expense.ID, true, nil
}

// ExpenseFor builds the expense an approved transaction is promoted to.
func ExpenseFor(txn *model.BankTransaction) *model.Expense {
	var category string
	if txn.ApprovedCategory != nil {
		category = *txn.ApprovedCategory
	}
	return &model.Expense{
		Description:   txn.DisplayName(),
		Category:      category,
		Amount:        txn.AbsAmount(),
		Date:          txn.Date,
		Vendor:        txn.MerchantName,
		PaymentMethod: model.PaymentMethodBankAccount,
		Source:        model.SourceBankFeed,
	}
}
