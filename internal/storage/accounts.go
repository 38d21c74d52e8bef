package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
	"github.com/google/uuid"
)

const accountColumns = `
	id, user_id, institution_name, external_account_id, name, type, subtype,
	mask, current_balance_cents, available_balance_cents, is_active,
	last_synced_at, created_at`

// UpsertBankAccount inserts an account or refreshes the feed-owned fields of
// the account with the same external ID. The account's ID is set on return.
func (s *SQLiteStorage) UpsertBankAccount(ctx context.Context, account *model.BankAccount) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if account == nil {
		return fmt.Errorf("%w: account", ErrNilParameter)
	}
	if err := validateString(account.ExternalAccountID, "externalAccountID"); err != nil {
		return err
	}

	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = s.now()
	}

	query := `
		INSERT INTO bank_accounts (` + accountColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, NULL, ?)
		ON CONFLICT(external_account_id) DO UPDATE SET
			institution_name = excluded.institution_name,
			name = excluded.name,
			type = excluded.type,
			subtype = excluded.subtype,
			mask = excluded.mask,
			current_balance_cents = excluded.current_balance_cents,
			available_balance_cents = excluded.available_balance_cents`

	_, err := s.db.ExecContext(ctx, query,
		account.ID, account.UserID, account.InstitutionName, account.ExternalAccountID,
		account.Name, account.Type, account.Subtype, account.Mask,
		toCents(account.CurrentBalance), toCents(account.AvailableBalance),
		account.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert bank account: %w", err)
	}

	stored, err := s.GetBankAccountByExternalID(ctx, account.ExternalAccountID)
	if err != nil {
		return err
	}
	*account = *stored
	return nil
}

// GetBankAccount retrieves an account by ID.
func (s *SQLiteStorage) GetBankAccount(ctx context.Context, id string) (*model.BankAccount, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM bank_accounts WHERE id = ?`, id)
	return scanAccount(row)
}

// GetBankAccountByExternalID retrieves an account by its feed identifier.
func (s *SQLiteStorage) GetBankAccountByExternalID(ctx context.Context, externalID string) (*model.BankAccount, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(externalID, "externalID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM bank_accounts WHERE external_account_id = ?`, externalID)
	return scanAccount(row)
}

// ListBankAccounts lists accounts ordered by institution and name.
func (s *SQLiteStorage) ListBankAccounts(ctx context.Context, activeOnly bool) ([]model.BankAccount, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + accountColumns + ` FROM bank_accounts`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY institution_name, name, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.BankAccount
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bank accounts: %w", err)
	}
	return accounts, nil
}

// DeactivateBankAccount marks an account inactive. Its transactions are kept.
func (s *SQLiteStorage) DeactivateBankAccount(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `UPDATE bank_accounts SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate bank account: %w", err)
	}
	return requireRow(result, "bank account", id)
}

// MarkBankAccountSynced records the time of the last successful feed pull.
func (s *SQLiteStorage) MarkBankAccountSynced(ctx context.Context, id string, at time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `UPDATE bank_accounts SET last_synced_at = ? WHERE id = ?`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark bank account synced: %w", err)
	}
	return requireRow(result, "bank account", id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*model.BankAccount, error) {
	var (
		account        model.BankAccount
		current, avail int64
		lastSynced     sql.NullTime
	)
	err := row.Scan(
		&account.ID, &account.UserID, &account.InstitutionName, &account.ExternalAccountID,
		&account.Name, &account.Type, &account.Subtype, &account.Mask,
		&current, &avail, &account.IsActive, &lastSynced, &account.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bank account: %w", common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan bank account: %w", err)
	}

	account.CurrentBalance = fromCents(current)
	account.AvailableBalance = fromCents(avail)
	account.LastSyncedAt = timePtr(lastSynced)
	return &account, nil
}

// requireRow converts a zero-row update into ErrNotFound.
func requireRow(result sql.Result, what, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s %s: %w", what, id, common.ErrNotFound)
	}
	return nil
}

// affected reports whether a conditional write changed any row.
func affected(result sql.Result) (bool, error) {
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}
