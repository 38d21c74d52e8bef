package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
)

const ruleColumns = `
	id, rule_name, merchant_pattern, match_type, category, auto_approve,
	priority, is_active, created_at, updated_at`

// CreateRule creates a new transaction rule and sets its ID.
func (s *SQLiteStorage) CreateRule(ctx context.Context, rule *model.TransactionRule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRule(rule); err != nil {
		return err
	}

	now := s.now()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO transaction_rules (
			rule_name, merchant_pattern, match_type, category, auto_approve,
			priority, is_active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rule.Name, rule.MerchantPattern, string(rule.MatchType), rule.Category,
		rule.AutoApprove, rule.Priority, rule.IsActive, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get rule ID: %w", err)
	}

	rule.ID = int(id)
	rule.CreatedAt = now
	rule.UpdatedAt = now
	return nil
}

// GetRule retrieves a rule by ID.
func (s *SQLiteStorage) GetRule(ctx context.Context, id int) (*model.TransactionRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+ruleColumns+` FROM transaction_rules WHERE id = ?`, id)
	rule, err := scanRule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("rule %d: %w", id, common.ErrNotFound)
	}
	return rule, err
}

// ListRules lists rules by descending priority, ties broken by ascending ID.
func (s *SQLiteStorage) ListRules(ctx context.Context, activeOnly bool) ([]model.TransactionRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + ruleColumns + ` FROM transaction_rules`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY priority DESC, id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rules []model.TransactionRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, *rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rules: %w", err)
	}
	return rules, nil
}

// UpdateRule replaces the mutable fields of an existing rule.
func (s *SQLiteStorage) UpdateRule(ctx context.Context, rule *model.TransactionRule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRule(rule); err != nil {
		return err
	}

	now := s.now()
	result, err := s.db.ExecContext(ctx, `
		UPDATE transaction_rules SET
			rule_name = ?, merchant_pattern = ?, match_type = ?, category = ?,
			auto_approve = ?, priority = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		rule.Name, rule.MerchantPattern, string(rule.MatchType), rule.Category,
		rule.AutoApprove, rule.Priority, rule.IsActive, now, rule.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}
	if err := requireRow(result, "rule", fmt.Sprint(rule.ID)); err != nil {
		return err
	}

	rule.UpdatedAt = now
	return nil
}

// DeleteRule deletes a rule.
func (s *SQLiteStorage) DeleteRule(ctx context.Context, id int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM transaction_rules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}
	return requireRow(result, "rule", fmt.Sprint(id))
}

func scanRule(row rowScanner) (*model.TransactionRule, error) {
	var (
		rule      model.TransactionRule
		matchType string
	)
	err := row.Scan(
		&rule.ID, &rule.Name, &rule.MerchantPattern, &matchType, &rule.Category,
		&rule.AutoApprove, &rule.Priority, &rule.IsActive, &rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan rule: %w", err)
	}
	rule.MatchType = model.MatchType(matchType)
	return &rule, nil
}
