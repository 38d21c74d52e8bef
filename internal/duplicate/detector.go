// Package duplicate finds recorded expenses that may already account for a
// bank transaction.
package duplicate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
)

const (
	// WindowDays is how far either side of the transaction date to search.
	WindowDays = 3
	// MaxDistance is the exclusive edit-distance bound for similar names.
	MaxDistance = 5
)

// ExpenseLister is the store capability the detector needs.
type ExpenseLister interface {
	ListExpenses(ctx context.Context, filter service.ExpenseFilter) ([]model.Expense, error)
}

// Detector matches bank transactions against the expense ledger.
type Detector struct {
	store  ExpenseLister
	logger *slog.Logger
	policy common.FailurePolicy
}

// NewDetector creates a detector. An empty policy means PolicyDegrade.
func NewDetector(store ExpenseLister, policy common.FailurePolicy) *Detector {
	if policy == "" {
		policy = common.PolicyDegrade
	}
	return &Detector{
		store:  store,
		policy: policy,
		logger: slog.Default().With("component", "duplicate"),
	}
}

// Find returns the IDs of expenses dated within WindowDays of txn whose
// amount equals the absolute transaction amount and whose description is
// similar to the transaction's merchant name.
func (d *Detector) Find(ctx context.Context, txn *model.BankTransaction) ([]string, error) {
	start := txn.Date.AddDate(0, 0, -WindowDays)
	end := txn.Date.AddDate(0, 0, WindowDays)

	amount := txn.AbsAmount()

	candidates, err := d.store.ListExpenses(ctx, service.ExpenseFilter{
		StartDate: &start,
		EndDate:   &end,
		Amount:    &amount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate expenses: %w", err)
	}

	merchant := txn.DisplayName()

	var ids []string
	for _, expense := range candidates {
		if Similar(merchant, expense.Description) {
			ids = append(ids, expense.ID)
		}
	}
	return ids, nil
}

// FindDuplicates is Find under the detector's failure policy. With
// PolicyDegrade a store failure is logged and no duplicates are reported.
func (d *Detector) FindDuplicates(ctx context.Context, txn *model.BankTransaction) ([]string, error) {
	ids, err := d.Find(ctx, txn)
	if err == nil {
		return ids, nil
	}
	if d.policy == common.PolicyPropagate {
		return nil, err
	}

	d.logger.Warn("Duplicate check failed, assuming no duplicates",
		"transaction_id", txn.ID,
		"error", err)
	return nil, nil
}

// Similar reports whether two names likely refer to the same payee: one
// contains the other, ignoring case, or they are fewer than MaxDistance
// edits apart.
func Similar(a, b string) bool {
	fold := cases.Fold()
	a = fold.String(a)
	b = fold.String(b)

	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	return levenshtein.ComputeDistance(a, b) < MaxDistance
}
