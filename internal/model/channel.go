package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sales channels.
const (
	ChannelAmazon = "AMAZON"
	ChannelEcwid  = "ECWID"
)

// Fee categories used when channel fees are promoted to expenses.
const (
	CategoryAmazonFees   = "Amazon Fees"
	CategoryPlatformFees = "Platform Fees"
)

// Order statuses that count as still open.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
)

// ChannelStats totals orders and fees across one or all channels. Fees are
// counted by magnitude.
type ChannelStats struct {
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalFees     decimal.Decimal `json:"total_fees"`
	OrderCount    int             `json:"order_count"`
	PendingOrders int             `json:"pending_orders"`
}

// NetRevenue is revenue less fees.
func (s ChannelStats) NetRevenue() decimal.Decimal {
	return s.TotalRevenue.Sub(s.TotalFees)
}

// ChannelOrder is an order placed through an external sales channel.
type ChannelOrder struct {
	OrderDate       time.Time       `json:"order_date"`
	MatchedAt       *time.Time      `json:"matched_at,omitempty"`
	LinkedInvoiceID *string         `json:"linked_invoice_id,omitempty"`
	ID              string          `json:"id"`
	Channel         string          `json:"channel"`
	ChannelOrderID  string          `json:"channel_order_id"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"payment_status"`
	Fees            []ChannelFee    `json:"fees,omitempty"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	ShippingAmount  decimal.Decimal `json:"shipping_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
}

// ChannelFee is a fee charged by a sales channel against an order.
type ChannelFee struct {
	Date            time.Time       `json:"date"`
	SyncedAt        *time.Time      `json:"synced_at,omitempty"`
	LinkedExpenseID *string         `json:"linked_expense_id,omitempty"`
	ID              string          `json:"id"`
	OrderID         string          `json:"order_id"`
	Channel         string          `json:"channel"`
	FeeType         string          `json:"fee_type"`
	FeeDescription  string          `json:"fee_description"`
	Amount          decimal.Decimal `json:"amount"`
}

// Invoice is the subset of an invoice needed to match channel orders.
type Invoice struct {
	InvoiceDate   time.Time       `json:"invoice_date"`
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerName  string          `json:"customer_name"`
	Total         decimal.Decimal `json:"total"`
}
