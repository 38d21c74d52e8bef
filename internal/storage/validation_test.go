package storage

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/tally/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{
			name:    "valid context",
			ctx:     context.Background(),
			wantErr: false,
		},
		{
			name:    "nil context",
			ctx:     nil,
			wantErr: true,
		},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateContext() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateString(t *testing.T) {
	tests := []struct {
		name    string
		str     string
		wantErr bool
	}{
		{"valid string", "test", false},
		{"empty string", "", true},
		{"whitespace only", "   ", true},
		{"string with spaces", "  test  ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateString(tt.str, "param")
			if (err != nil) != tt.wantErr {
				t.Errorf("validateString() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateBankTransaction(t *testing.T) {
	valid := func() *model.BankTransaction {
		return &model.BankTransaction{
			ExternalID:    "plaid-1",
			BankAccountID: "acct-1",
			Name:          "SHELL OIL 1234",
			Date:          day(2024, 1, 15),
			Amount:        decimal.RequireFromString("-45.99"),
		}
	}

	tests := []struct {
		name    string
		mutate  func(*model.BankTransaction)
		wantErr error
	}{
		{"valid", func(*model.BankTransaction) {}, nil},
		{"missing external id", func(txn *model.BankTransaction) { txn.ExternalID = "" }, ErrInvalidTransaction},
		{"missing account", func(txn *model.BankTransaction) { txn.BankAccountID = "" }, ErrInvalidTransaction},
		{"missing date", func(txn *model.BankTransaction) { txn.Date = time.Time{} }, ErrInvalidTransaction},
		{"blank name", func(txn *model.BankTransaction) { txn.Name = "  " }, ErrInvalidTransaction},
		{"unknown status", func(txn *model.BankTransaction) { txn.Status = "archived" }, ErrInvalidStatus},
		{"zero amount allowed", func(txn *model.BankTransaction) { txn.Amount = decimal.Zero }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := valid()
			tt.mutate(txn)
			err := validateBankTransaction(txn)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.ErrorIs(t, validateBankTransaction(nil), ErrNilParameter)
}

func TestValidateRule(t *testing.T) {
	tests := []struct {
		name    string
		rule    *model.TransactionRule
		wantErr error
	}{
		{
			name: "valid",
			rule: &model.TransactionRule{Name: "Fuel", MerchantPattern: "SHELL", MatchType: model.MatchContains, Category: "Fuel"},
		},
		{
			name: "invalid regex is stored",
			rule: &model.TransactionRule{Name: "Broken", MerchantPattern: "([", MatchType: model.MatchRegex, Category: "Fuel"},
		},
		{
			name:    "nil",
			wantErr: ErrNilParameter,
		},
		{
			name:    "missing name",
			rule:    &model.TransactionRule{MerchantPattern: "SHELL", MatchType: model.MatchContains, Category: "Fuel"},
			wantErr: ErrInvalidRule,
		},
		{
			name:    "missing pattern",
			rule:    &model.TransactionRule{Name: "Fuel", MatchType: model.MatchContains, Category: "Fuel"},
			wantErr: ErrInvalidRule,
		},
		{
			name:    "unknown match type",
			rule:    &model.TransactionRule{Name: "Fuel", MerchantPattern: "SHELL", MatchType: "glob", Category: "Fuel"},
			wantErr: ErrInvalidRule,
		},
		{
			name:    "missing category",
			rule:    &model.TransactionRule{Name: "Fuel", MerchantPattern: "SHELL", MatchType: model.MatchExact},
			wantErr: ErrInvalidRule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRule(tt.rule)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateExpense(t *testing.T) {
	ok := &model.Expense{Category: "Fuel", Amount: decimal.RequireFromString("45.99"), Date: day(2024, 1, 15)}
	assert.NoError(t, validateExpense(ok))

	assert.ErrorIs(t, validateExpense(nil), ErrNilParameter)
	assert.ErrorIs(t, validateExpense(&model.Expense{Amount: ok.Amount, Date: ok.Date}), ErrInvalidExpense)
	assert.ErrorIs(t, validateExpense(&model.Expense{Category: "Fuel", Amount: decimal.RequireFromString("-1"), Date: ok.Date}), ErrInvalidExpense)
	assert.ErrorIs(t, validateExpense(&model.Expense{Category: "Fuel", Amount: ok.Amount}), ErrInvalidExpense)
}

func TestValidateChannelOrder(t *testing.T) {
	assert.NoError(t, validateChannelOrder(&model.ChannelOrder{Channel: model.ChannelEcwid, ChannelOrderID: "42", OrderDate: day(2024, 2, 1)}))
	assert.ErrorIs(t, validateChannelOrder(nil), ErrNilParameter)
	assert.ErrorIs(t, validateChannelOrder(&model.ChannelOrder{Channel: model.ChannelEcwid, OrderDate: day(2024, 2, 1)}), ErrInvalidOrder)
	assert.ErrorIs(t, validateChannelOrder(&model.ChannelOrder{Channel: model.ChannelEcwid, ChannelOrderID: "42"}), ErrInvalidOrder)
}
