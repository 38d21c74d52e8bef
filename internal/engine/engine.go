// Package engine orchestrates bank-feed reconciliation: categorizing pending
// transactions, reviewing them, and promoting approved ones to expenses.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/duplicate"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/reconcile"
	"github.com/Veraticus/tally/internal/rules"
	"github.com/Veraticus/tally/internal/service"
)

// Options configures the engine.
type Options struct {
	// AutoApproveReviewer, when set, is recorded as the reviewer of
	// transactions approved by rules marked auto-approve. When empty those
	// rules only suggest.
	AutoApproveReviewer string
	DuplicatePolicy     common.FailurePolicy
	InvoiceWindowDays   int
}

// DefaultOptions returns the default engine options.
func DefaultOptions() Options {
	return Options{
		DuplicatePolicy:   common.PolicyDegrade,
		InvoiceWindowDays: 7,
	}
}

// ItemError records the failure of one item in a batch.
type ItemError struct {
	Err error
	ID  string
}

func (e ItemError) Error() string {
	return fmt.Sprintf("%s: %v", e.ID, e.Err)
}

func (e ItemError) Unwrap() error {
	return e.Err
}

// BatchResult summarizes a batch operation. Items in Errors are not counted
// in Succeeded, except that an auto-approval failure is reported in Errors
// while its categorization still counts.
type BatchResult struct {
	Errors       []ItemError
	Total        int
	Succeeded    int
	Skipped      int
	AutoApproved int
}

func (r *BatchResult) fail(id string, err error) {
	r.Errors = append(r.Errors, ItemError{ID: id, Err: err})
}

// Engine coordinates the reconciliation components over a store.
type Engine struct {
	storage     service.Storage
	categorizer *rules.Categorizer
	detector    *duplicate.Detector
	machine     *reconcile.Machine
	progress    Progress
	logger      *slog.Logger
	now         func() time.Time
	opts        Options
}

// New creates an engine with the given options.
func New(storage service.Storage, opts Options) *Engine {
	if opts.DuplicatePolicy == "" {
		opts.DuplicatePolicy = common.PolicyDegrade
	}
	if opts.InvoiceWindowDays <= 0 {
		opts.InvoiceWindowDays = DefaultOptions().InvoiceWindowDays
	}
	return &Engine{
		storage:     storage,
		categorizer: rules.NewCategorizer(),
		detector:    duplicate.NewDetector(storage, opts.DuplicatePolicy),
		machine:     reconcile.NewMachine(storage),
		progress:    noopProgress{},
		logger:      slog.Default().With("component", "engine"),
		now:         time.Now,
		opts:        opts,
	}
}

// SetProgress sets the progress reporter used by batch operations.
func (e *Engine) SetProgress(p Progress) {
	if p == nil {
		p = noopProgress{}
	}
	e.progress = p
}

// LoadRules compiles the active rules.
func (e *Engine) LoadRules(ctx context.Context) (*rules.RuleSet, error) {
	active, err := e.storage.ListRules(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	rs := rules.Compile(active)
	for _, bad := range rs.InvalidPatterns() {
		e.logger.Warn("Rule pattern does not compile, rule will never match",
			"rule_id", bad.Rule.ID,
			"rule_name", bad.Rule.Name,
			"error", bad.Err)
	}
	return rs, nil
}

// AutoCategorizePending suggests a category for every pending transaction.
// A failure to load rules or list transactions aborts the batch before any
// write; failures on single transactions are collected in the result.
func (e *Engine) AutoCategorizePending(ctx context.Context) (BatchResult, error) {
	var result BatchResult

	rs, err := e.LoadRules(ctx)
	if err != nil {
		return result, err
	}

	pending := model.StatusPending
	txns, err := e.storage.ListBankTransactions(ctx, service.BankTransactionFilter{Status: &pending})
	if err != nil {
		return result, fmt.Errorf("failed to list pending transactions: %w", err)
	}

	result.Total = len(txns)
	e.logger.Info("Categorizing pending transactions", "count", len(txns), "rules", rs.Len())

	e.progress.Start(len(txns), "Categorizing")
	defer e.progress.Finish()

	for i := range txns {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		e.categorizeOne(ctx, &txns[i], rs, &result)
		e.progress.Increment()
	}

	e.logger.Info("Categorization complete",
		"succeeded", result.Succeeded,
		"skipped", result.Skipped,
		"auto_approved", result.AutoApproved,
		"failed", len(result.Errors))
	return result, nil
}

func (e *Engine) categorizeOne(ctx context.Context, txn *model.BankTransaction, rs *rules.RuleSet, result *BatchResult) {
	suggestion := e.categorizer.Categorize(txn, rs)

	ok, err := e.storage.UpdateSuggestion(ctx, txn.ID, suggestion.Category, suggestion.Confidence)
	if err != nil {
		e.logger.Error("Failed to save suggestion", "transaction_id", txn.ID, "error", err)
		result.fail(txn.ID, err)
		return
	}
	if !ok {
		// Reviewed since it was listed.
		result.Skipped++
		return
	}
	result.Succeeded++

	if !suggestion.AutoApprove || e.opts.AutoApproveReviewer == "" {
		return
	}

	approved, err := e.machine.Approve(ctx, txn.ID, suggestion.Category, e.opts.AutoApproveReviewer)
	if err != nil {
		e.logger.Warn("Auto-approval failed", "transaction_id", txn.ID, "error", err)
		result.fail(txn.ID, err)
		return
	}
	if approved {
		result.AutoApproved++
	}
}

// Approve approves a pending transaction under category. It returns false
// when the transaction is not pending.
func (e *Engine) Approve(ctx context.Context, id, category, reviewer string) (bool, error) {
	if strings.TrimSpace(reviewer) == "" {
		return false, fmt.Errorf("approve %s: %w", id, common.ErrReviewerRequired)
	}
	return e.machine.Approve(ctx, id, category, reviewer)
}

// Reject rejects a pending transaction. It returns false when the
// transaction is not pending.
func (e *Engine) Reject(ctx context.Context, id, reviewer string) (bool, error) {
	if strings.TrimSpace(reviewer) == "" {
		return false, fmt.Errorf("reject %s: %w", id, common.ErrReviewerRequired)
	}
	return e.machine.Reject(ctx, id, reviewer)
}

// SyncTransactionToExpense promotes one approved transaction to an expense
// and returns the new expense ID.
func (e *Engine) SyncTransactionToExpense(ctx context.Context, id string) (string, bool, error) {
	return e.machine.Sync(ctx, id)
}

// SyncApproved promotes every approved transaction.
func (e *Engine) SyncApproved(ctx context.Context) (BatchResult, error) {
	var result BatchResult

	approved := model.StatusApproved
	txns, err := e.storage.ListBankTransactions(ctx, service.BankTransactionFilter{Status: &approved})
	if err != nil {
		return result, fmt.Errorf("failed to list approved transactions: %w", err)
	}

	result.Total = len(txns)
	e.progress.Start(len(txns), "Syncing")
	defer e.progress.Finish()

	for _, txn := range txns {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		_, synced, err := e.machine.Sync(ctx, txn.ID)
		switch {
		case err != nil:
			result.fail(txn.ID, err)
		case synced:
			result.Succeeded++
		default:
			result.Skipped++
		}
		e.progress.Increment()
	}

	e.logger.Info("Sync complete",
		"synced", result.Succeeded,
		"skipped", result.Skipped,
		"failed", len(result.Errors))
	return result, nil
}

// FindDuplicates returns IDs of expenses that may already record the
// transaction.
func (e *Engine) FindDuplicates(ctx context.Context, id string) ([]string, error) {
	txn, err := e.storage.GetBankTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.detector.FindDuplicates(ctx, txn)
}
