package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
	"github.com/google/uuid"
)

// errConditionFailed aborts a transaction whose conditional write matched no row.
var errConditionFailed = errors.New("conditional write matched no row")

const bankTransactionColumns = `
	id, bank_account_id, external_id, date, name, merchant_name, amount_cents,
	provider_categories, is_pending, suggested_category, confidence_score,
	status, approved_category, linked_expense_id, reviewed_by, reviewed_at,
	notes, created_at, updated_at`

// InsertBankTransaction records a transaction delivered by a feed. It returns
// false without error when a transaction with the same external ID exists.
func (s *SQLiteStorage) InsertBankTransaction(ctx context.Context, txn *model.BankTransaction) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateBankTransaction(txn); err != nil {
		return false, err
	}

	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	if txn.Status == "" {
		txn.Status = model.StatusPending
	}
	now := s.now()
	txn.CreatedAt = now
	txn.UpdatedAt = now

	var categories sql.NullString
	if len(txn.ProviderCategories) > 0 {
		data, err := json.Marshal(txn.ProviderCategories)
		if err != nil {
			return false, fmt.Errorf("failed to marshal provider categories: %w", err)
		}
		categories = sql.NullString{String: string(data), Valid: true}
	}

	var confidence sql.NullFloat64
	if txn.ConfidenceScore != nil {
		confidence = sql.NullFloat64{Float64: *txn.ConfidenceScore, Valid: true}
	}

	query := `
		INSERT INTO bank_transactions (` + bankTransactionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(external_id) DO NOTHING`

	result, err := s.db.ExecContext(ctx, query,
		txn.ID, txn.BankAccountID, txn.ExternalID, formatDate(txn.Date), txn.Name,
		txn.MerchantName, toCents(txn.Amount), categories, txn.IsPending,
		nullString(txn.SuggestedCategory), confidence, string(txn.Status),
		nullString(txn.ApprovedCategory), nullString(txn.LinkedExpenseID),
		nullString(txn.ReviewedBy), txn.ReviewedAt, nullString(txn.Notes),
		txn.CreatedAt, txn.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert bank transaction: %w", err)
	}
	return affected(result)
}

// GetBankTransaction retrieves a bank transaction by ID.
func (s *SQLiteStorage) GetBankTransaction(ctx context.Context, id string) (*model.BankTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+bankTransactionColumns+` FROM bank_transactions WHERE id = ?`, id)
	txn, err := scanBankTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bank transaction %s: %w", id, common.ErrNotFound)
	}
	return txn, err
}

// ListBankTransactions lists transactions matching the filter, newest first.
func (s *SQLiteStorage) ListBankTransactions(ctx context.Context, filter service.BankTransactionFilter) ([]model.BankTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, ErrInvalidDateRange
	}

	var (
		clauses []string
		args    []any
	)
	if filter.Status != nil {
		if !filter.Status.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *filter.Status)
		}
		clauses = append(clauses, "status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.AccountID != "" {
		clauses = append(clauses, "bank_account_id = ?")
		args = append(args, filter.AccountID)
	}
	if filter.ExcludeID != "" {
		clauses = append(clauses, "id != ?")
		args = append(args, filter.ExcludeID)
	}
	if filter.StartDate != nil {
		clauses = append(clauses, "date >= ?")
		args = append(args, formatDate(*filter.StartDate))
	}
	if filter.EndDate != nil {
		clauses = append(clauses, "date <= ?")
		args = append(args, formatDate(*filter.EndDate))
	}
	if filter.AbsAmount != nil {
		clauses = append(clauses, "ABS(amount_cents) = ?")
		args = append(args, toCents(filter.AbsAmount.Abs()))
	}

	query := `SELECT ` + bankTransactionColumns + ` FROM bank_transactions`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY date DESC, id ASC"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []model.BankTransaction
	for rows.Next() {
		txn, err := scanBankTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bank transactions: %w", err)
	}
	return txns, nil
}

// UpdateSuggestion stores a category suggestion on a pending transaction.
// Reviewed transactions are left untouched and false is returned.
func (s *SQLiteStorage) UpdateSuggestion(ctx context.Context, id, category string, confidence float64) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(id, "id"); err != nil {
		return false, err
	}
	if confidence < 0 || confidence > 1 {
		return false, fmt.Errorf("%w: confidence %v out of range", ErrInvalidTransaction, confidence)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE bank_transactions
		SET suggested_category = ?, confidence_score = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		category, confidence, s.now(), id, string(model.StatusPending))
	if err != nil {
		return false, fmt.Errorf("failed to update suggestion: %w", err)
	}
	return affected(result)
}

// TransitionStatus moves a transaction from one status to another, but only
// if it is still in the expected from status.
func (s *SQLiteStorage) TransitionStatus(ctx context.Context, id string, from, to model.ReconciliationStatus, update service.StatusUpdate) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(id, "id"); err != nil {
		return false, err
	}
	if !from.Valid() || !to.Valid() {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidStatus, from, to)
	}

	var reviewedBy sql.NullString
	if update.ReviewedBy != "" {
		reviewedBy = sql.NullString{String: update.ReviewedBy, Valid: true}
	}
	var reviewedAt sql.NullTime
	if !update.ReviewedAt.IsZero() {
		reviewedAt = sql.NullTime{Time: update.ReviewedAt.UTC(), Valid: true}
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE bank_transactions
		SET status = ?,
			approved_category = COALESCE(?, approved_category),
			reviewed_by = COALESCE(?, reviewed_by),
			reviewed_at = COALESCE(?, reviewed_at),
			notes = COALESCE(?, notes),
			updated_at = ?
		WHERE id = ? AND status = ?`,
		string(to), nullString(update.ApprovedCategory), reviewedBy, reviewedAt,
		nullString(update.Notes), s.now(), id, string(from))
	if err != nil {
		return false, fmt.Errorf("failed to transition bank transaction: %w", err)
	}
	return affected(result)
}

// PromoteToExpense creates the expense and marks the approved transaction
// synced in one database transaction. When the transaction is no longer
// approved nothing is written and false is returned.
func (s *SQLiteStorage) PromoteToExpense(ctx context.Context, transactionID string, expense *model.Expense) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(transactionID, "transactionID"); err != nil {
		return false, err
	}
	if err := validateExpense(expense); err != nil {
		return false, err
	}

	candidate := *expense
	candidate.ID = uuid.NewString()
	candidate.CreatedAt = s.now()

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := insertExpenseTx(ctx, tx, &candidate); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE bank_transactions
			SET status = ?, linked_expense_id = ?, updated_at = ?
			WHERE id = ? AND status = ?`,
			string(model.StatusSynced), candidate.ID, candidate.CreatedAt,
			transactionID, string(model.StatusApproved))
		if err != nil {
			return fmt.Errorf("failed to mark bank transaction synced: %w", err)
		}
		ok, err := affected(result)
		if err != nil {
			return err
		}
		if !ok {
			return errConditionFailed
		}
		return nil
	})
	if errors.Is(err, errConditionFailed) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	*expense = candidate
	return true, nil
}

func scanBankTransaction(row rowScanner) (*model.BankTransaction, error) {
	var (
		txn        model.BankTransaction
		date       string
		cents      int64
		categories sql.NullString
		suggested  sql.NullString
		confidence sql.NullFloat64
		status     string
		approved   sql.NullString
		linked     sql.NullString
		reviewedBy sql.NullString
		reviewedAt sql.NullTime
		notes      sql.NullString
	)
	err := row.Scan(
		&txn.ID, &txn.BankAccountID, &txn.ExternalID, &date, &txn.Name,
		&txn.MerchantName, &cents, &categories, &txn.IsPending, &suggested,
		&confidence, &status, &approved, &linked, &reviewedBy, &reviewedAt,
		&notes, &txn.CreatedAt, &txn.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan bank transaction: %w", err)
	}

	if txn.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	txn.Amount = fromCents(cents)
	txn.Status = model.ReconciliationStatus(status)
	txn.SuggestedCategory = stringPtr(suggested)
	txn.ApprovedCategory = stringPtr(approved)
	txn.LinkedExpenseID = stringPtr(linked)
	txn.ReviewedBy = stringPtr(reviewedBy)
	txn.ReviewedAt = timePtr(reviewedAt)
	txn.Notes = stringPtr(notes)
	if confidence.Valid {
		c := confidence.Float64
		txn.ConfidenceScore = &c
	}
	if categories.Valid && categories.String != "" {
		if err := json.Unmarshal([]byte(categories.String), &txn.ProviderCategories); err != nil {
			return nil, fmt.Errorf("failed to unmarshal provider categories: %w", err)
		}
	}
	return &txn, nil
}
