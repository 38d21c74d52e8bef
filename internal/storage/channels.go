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
	"github.com/shopspring/decimal"
)

const orderColumns = `
	id, channel, channel_order_id, order_date, customer_name, customer_email,
	subtotal_cents, tax_cents, shipping_cents, total_cents, status,
	payment_status, linked_invoice_id, matched_at`

const feeColumns = `
	id, order_id, channel, fee_type, fee_description, amount_cents, date,
	linked_expense_id, synced_at`

// InsertChannelOrder records an order and its fees. An order already known
// for the same channel is skipped and false is returned.
func (s *SQLiteStorage) InsertChannelOrder(ctx context.Context, order *model.ChannelOrder) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateChannelOrder(order); err != nil {
		return false, err
	}

	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	now := s.now()

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO channel_orders (`+orderColumns+`, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(channel, channel_order_id) DO NOTHING`,
			order.ID, order.Channel, order.ChannelOrderID, formatDate(order.OrderDate),
			order.CustomerName, order.CustomerEmail, toCents(order.Subtotal),
			toCents(order.TaxAmount), toCents(order.ShippingAmount), toCents(order.TotalAmount),
			order.Status, order.PaymentStatus, nullString(order.LinkedInvoiceID),
			order.MatchedAt, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert channel order: %w", err)
		}
		inserted, err := affected(result)
		if err != nil {
			return err
		}
		if !inserted {
			return errConditionFailed
		}

		for i := range order.Fees {
			fee := &order.Fees[i]
			if fee.ID == "" {
				fee.ID = uuid.NewString()
			}
			fee.OrderID = order.ID
			if fee.Channel == "" {
				fee.Channel = order.Channel
			}
			if fee.Date.IsZero() {
				fee.Date = order.OrderDate
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO channel_fees (`+feeColumns+`, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, NULL, NULL, ?)`,
				fee.ID, fee.OrderID, fee.Channel, fee.FeeType, fee.FeeDescription,
				toCents(fee.Amount), formatDate(fee.Date), now,
			)
			if err != nil {
				return fmt.Errorf("failed to insert channel fee: %w", err)
			}
		}
		return nil
	})
	if errors.Is(err, errConditionFailed) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetChannelOrder retrieves an order with its fees.
func (s *SQLiteStorage) GetChannelOrder(ctx context.Context, id string) (*model.ChannelOrder, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM channel_orders WHERE id = ?`, id)
	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("channel order %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	fees, err := s.listFees(ctx, `order_id = ?`, id)
	if err != nil {
		return nil, err
	}
	order.Fees = fees
	return order, nil
}

// ListChannelOrders lists orders by date. Fees are not loaded.
func (s *SQLiteStorage) ListChannelOrders(ctx context.Context, unmatchedOnly bool) ([]model.ChannelOrder, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + orderColumns + ` FROM channel_orders`
	if unmatchedOnly {
		query += ` WHERE linked_invoice_id IS NULL`
	}
	query += ` ORDER BY order_date ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list channel orders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var orders []model.ChannelOrder
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating channel orders: %w", err)
	}
	return orders, nil
}

// ChannelStats totals revenue, fees and open orders. An empty channel
// covers every channel.
func (s *SQLiteStorage) ChannelStats(ctx context.Context, channel string) (model.ChannelStats, error) {
	if err := validateContext(ctx); err != nil {
		return model.ChannelStats{}, err
	}

	var (
		stats             model.ChannelStats
		revenue, feeTotal int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(total_cents), 0), COUNT(*),
			COALESCE(SUM(CASE WHEN status IN (?, ?) THEN 1 ELSE 0 END), 0)
		FROM channel_orders
		WHERE ? = '' OR channel = ?`,
		model.OrderStatusPending, model.OrderStatusProcessing, channel, channel,
	).Scan(&revenue, &stats.OrderCount, &stats.PendingOrders)
	if err != nil {
		return model.ChannelStats{}, fmt.Errorf("failed to total channel orders: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(ABS(amount_cents)), 0)
		FROM channel_fees
		WHERE ? = '' OR channel = ?`,
		channel, channel,
	).Scan(&feeTotal)
	if err != nil {
		return model.ChannelStats{}, fmt.Errorf("failed to total channel fees: %w", err)
	}

	stats.TotalRevenue = fromCents(revenue)
	stats.TotalFees = fromCents(feeTotal)
	return stats, nil
}

// CreateInvoice records an invoice that orders can be matched against.
func (s *SQLiteStorage) CreateInvoice(ctx context.Context, invoice *model.Invoice) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if invoice == nil {
		return fmt.Errorf("%w: invoice", ErrNilParameter)
	}
	if invoice.InvoiceDate.IsZero() {
		return fmt.Errorf("%w: invoice date", ErrEmptyString)
	}
	if invoice.ID == "" {
		invoice.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invoices (id, invoice_number, customer_name, invoice_date, total_cents, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		invoice.ID, invoice.InvoiceNumber, invoice.CustomerName,
		formatDate(invoice.InvoiceDate), toCents(invoice.Total), s.now(),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("invoice %s: %w", invoice.ID, common.ErrDuplicateEntry)
	}
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

// FindInvoiceCandidates returns invoices for exactly total, dated within
// [start, end], that no order is linked to yet. Results are ordered by
// invoice date then ID.
func (s *SQLiteStorage) FindInvoiceCandidates(ctx context.Context, total decimal.Decimal, start, end time.Time) ([]model.Invoice, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.invoice_number, i.customer_name, i.invoice_date, i.total_cents
		FROM invoices i
		WHERE i.total_cents = ?
			AND i.invoice_date BETWEEN ? AND ?
			AND NOT EXISTS (SELECT 1 FROM channel_orders o WHERE o.linked_invoice_id = i.id)
		ORDER BY i.invoice_date ASC, i.id ASC`,
		toCents(total), formatDate(start), formatDate(end),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var invoices []model.Invoice
	for rows.Next() {
		var (
			invoice model.Invoice
			date    string
			cents   int64
		)
		if err := rows.Scan(&invoice.ID, &invoice.InvoiceNumber, &invoice.CustomerName, &date, &cents); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		if invoice.InvoiceDate, err = parseDate(date); err != nil {
			return nil, err
		}
		invoice.Total = fromCents(cents)
		invoices = append(invoices, invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoices: %w", err)
	}
	return invoices, nil
}

// LinkOrderToInvoice links an unmatched order to an invoice no other order
// holds. It returns false when either side was claimed first.
func (s *SQLiteStorage) LinkOrderToInvoice(ctx context.Context, orderID, invoiceID string, at time.Time) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(orderID, "orderID"); err != nil {
		return false, err
	}
	if err := validateString(invoiceID, "invoiceID"); err != nil {
		return false, err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE channel_orders
		SET linked_invoice_id = ?, matched_at = ?
		WHERE id = ? AND linked_invoice_id IS NULL
			AND NOT EXISTS (SELECT 1 FROM channel_orders WHERE linked_invoice_id = ?)`,
		invoiceID, at.UTC(), orderID, invoiceID,
	)
	if isUniqueViolation(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to link order to invoice: %w", err)
	}
	return affected(result)
}

// ListUnsyncedFees lists the fees of an order that have no expense yet.
func (s *SQLiteStorage) ListUnsyncedFees(ctx context.Context, orderID string) ([]model.ChannelFee, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(orderID, "orderID"); err != nil {
		return nil, err
	}
	return s.listFees(ctx, `order_id = ? AND linked_expense_id IS NULL`, orderID)
}

// PromoteFeeToExpense creates the expense and links it to the fee in one
// database transaction. A fee that is already linked is left alone and false
// is returned.
func (s *SQLiteStorage) PromoteFeeToExpense(ctx context.Context, feeID string, expense *model.Expense) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(feeID, "feeID"); err != nil {
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
			UPDATE channel_fees
			SET linked_expense_id = ?, synced_at = ?
			WHERE id = ? AND linked_expense_id IS NULL`,
			candidate.ID, candidate.CreatedAt, feeID,
		)
		if err != nil {
			return fmt.Errorf("failed to link fee to expense: %w", err)
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

func (s *SQLiteStorage) listFees(ctx context.Context, where string, args ...any) ([]model.ChannelFee, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+feeColumns+` FROM channel_fees WHERE `+where+` ORDER BY date ASC, id ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query channel fees: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var fees []model.ChannelFee
	for rows.Next() {
		var (
			fee      model.ChannelFee
			cents    int64
			date     string
			linked   sql.NullString
			syncedAt sql.NullTime
		)
		err := rows.Scan(&fee.ID, &fee.OrderID, &fee.Channel, &fee.FeeType, &fee.FeeDescription,
			&cents, &date, &linked, &syncedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan channel fee: %w", err)
		}
		if fee.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		fee.Amount = fromCents(cents)
		fee.LinkedExpenseID = stringPtr(linked)
		fee.SyncedAt = timePtr(syncedAt)
		fees = append(fees, fee)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating channel fees: %w", err)
	}
	return fees, nil
}

func scanOrder(row rowScanner) (*model.ChannelOrder, error) {
	var (
		order                          model.ChannelOrder
		date                           string
		subtotal, tax, shipping, total int64
		linked                         sql.NullString
		matchedAt                      sql.NullTime
	)
	err := row.Scan(
		&order.ID, &order.Channel, &order.ChannelOrderID, &date, &order.CustomerName,
		&order.CustomerEmail, &subtotal, &tax, &shipping, &total, &order.Status,
		&order.PaymentStatus, &linked, &matchedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan channel order: %w", err)
	}

	if order.OrderDate, err = parseDate(date); err != nil {
		return nil, err
	}
	order.Subtotal = fromCents(subtotal)
	order.TaxAmount = fromCents(tax)
	order.ShippingAmount = fromCents(shipping)
	order.TotalAmount = fromCents(total)
	order.LinkedInvoiceID = stringPtr(linked)
	order.MatchedAt = timePtr(matchedAt)
	return &order, nil
}
