package engine

import (
	"context"
	"fmt"

	"github.com/Veraticus/tally/internal/model"
)

// MatchOrderToInvoice links a channel order to the earliest unclaimed
// invoice for the same total dated within the invoice window of the order.
// An order that is already linked reports its existing invoice.
func (e *Engine) MatchOrderToInvoice(ctx context.Context, orderID string) (string, bool, error) {
	order, err := e.storage.GetChannelOrder(ctx, orderID)
	if err != nil {
		return "", false, err
	}
	if order.LinkedInvoiceID != nil {
		return *order.LinkedInvoiceID, true, nil
	}

	window := e.opts.InvoiceWindowDays
	start := order.OrderDate.AddDate(0, 0, -window)
	end := order.OrderDate.AddDate(0, 0, window)

	candidates, err := e.storage.FindInvoiceCandidates(ctx, order.TotalAmount, start, end)
	if err != nil {
		return "", false, fmt.Errorf("failed to find invoices for order %s: %w", orderID, err)
	}

	for _, invoice := range candidates {
		linked, err := e.storage.LinkOrderToInvoice(ctx, orderID, invoice.ID, e.now())
		if err != nil {
			return "", false, fmt.Errorf("failed to link order %s: %w", orderID, err)
		}
		if linked {
			e.logger.Info("Order matched to invoice",
				"order_id", orderID,
				"invoice_id", invoice.ID,
				"total", order.TotalAmount.StringFixed(2))
			return invoice.ID, true, nil
		}
		// Either the order was linked concurrently or the invoice was
		// claimed; re-check the order before trying the next one.
		current, err := e.storage.GetChannelOrder(ctx, orderID)
		if err != nil {
			return "", false, err
		}
		if current.LinkedInvoiceID != nil {
			return *current.LinkedInvoiceID, true, nil
		}
	}
	return "", false, nil
}

// SyncFeesToExpenses creates an expense for every fee of the order that does
// not have one yet.
func (e *Engine) SyncFeesToExpenses(ctx context.Context, orderID string) (BatchResult, error) {
	var result BatchResult

	fees, err := e.storage.ListUnsyncedFees(ctx, orderID)
	if err != nil {
		return result, fmt.Errorf("failed to list fees for order %s: %w", orderID, err)
	}
	result.Total = len(fees)

	for _, fee := range fees {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		promoted, err := e.storage.PromoteFeeToExpense(ctx, fee.ID, FeeExpense(fee))
		switch {
		case err != nil:
			result.fail(fee.ID, err)
		case promoted:
			result.Succeeded++
		default:
			result.Skipped++
		}
	}
	return result, nil
}

// FeeExpense builds the expense recorded for a channel fee.
func FeeExpense(fee model.ChannelFee) *model.Expense {
	category := model.CategoryPlatformFees
	if fee.Channel == model.ChannelAmazon {
		category = model.CategoryAmazonFees
	}
	return &model.Expense{
		Description: fmt.Sprintf("%s %s: %s", fee.Channel, fee.FeeType, fee.FeeDescription),
		Category:    category,
		Amount:      fee.Amount.Abs(),
		Date:        fee.Date,
		Vendor:      fee.Channel,
		Source:      model.SourceChannelFee,
	}
}
