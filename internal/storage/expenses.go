package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
	"github.com/google/uuid"
)

const expenseColumns = `
	id, description, category, amount_cents, date, vendor, payment_method,
	source, created_at`

func insertExpenseTx(ctx context.Context, tx *sql.Tx, expense *model.Expense) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO expenses (`+expenseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Description, expense.Category, toCents(expense.Amount),
		formatDate(expense.Date), expense.Vendor, expense.PaymentMethod,
		string(expense.Source), expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

// CreateExpense records an expense entered outside the bank feed.
func (s *SQLiteStorage) CreateExpense(ctx context.Context, expense *model.Expense) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateExpense(expense); err != nil {
		return err
	}

	if expense.ID == "" {
		expense.ID = uuid.NewString()
	}
	if expense.Source == "" {
		expense.Source = model.SourceManual
	}
	expense.CreatedAt = s.now()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		err := insertExpenseTx(ctx, tx, expense)
		if isUniqueViolation(err) {
			return fmt.Errorf("expense %s: %w", expense.ID, common.ErrDuplicateEntry)
		}
		return err
	})
}

// GetExpense retrieves an expense by ID.
func (s *SQLiteStorage) GetExpense(ctx context.Context, id string) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)
	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", id, common.ErrNotFound)
	}
	return expense, err
}

// ListExpenses lists expenses in date order.
func (s *SQLiteStorage) ListExpenses(ctx context.Context, filter service.ExpenseFilter) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var (
		clauses []string
		args    []any
	)
	if filter.StartDate != nil {
		clauses = append(clauses, "date >= ?")
		args = append(args, formatDate(*filter.StartDate))
	}
	if filter.EndDate != nil {
		clauses = append(clauses, "date <= ?")
		args = append(args, formatDate(*filter.EndDate))
	}
	if filter.Amount != nil {
		clauses = append(clauses, "amount_cents = ?")
		args = append(args, toCents(*filter.Amount))
	}
	if filter.Source != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, string(filter.Source))
	}

	query := `SELECT ` + expenseColumns + ` FROM expenses`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY date ASC, created_at ASC, id ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var expenses []model.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}
	return expenses, nil
}

func scanExpense(row rowScanner) (*model.Expense, error) {
	var (
		expense model.Expense
		cents   int64
		date    string
		source  string
	)
	err := row.Scan(
		&expense.ID, &expense.Description, &expense.Category, &cents, &date,
		&expense.Vendor, &expense.PaymentMethod, &source, &expense.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan expense: %w", err)
	}

	if expense.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	expense.Amount = fromCents(cents)
	expense.Source = model.ExpenseSource(source)
	return &expense, nil
}
