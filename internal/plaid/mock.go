package plaid

import (
	"context"
	"sync"

	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
)

// MockClient is a FeedSource for tests.
type MockClient struct {
	TransactionsFn func(ctx context.Context, window service.DateRange) ([]model.FeedTransaction, error)
	AccountsFn     func(ctx context.Context) ([]model.FeedAccount, error)

	TransactionsCalls []service.DateRange
	AccountsCalls     int
	mu                sync.Mutex
}

// NewMockClient creates a mock that returns no data.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Transactions records the window and delegates to TransactionsFn.
func (m *MockClient) Transactions(ctx context.Context, window service.DateRange) ([]model.FeedTransaction, error) {
	m.mu.Lock()
	m.TransactionsCalls = append(m.TransactionsCalls, window)
	m.mu.Unlock()

	if m.TransactionsFn != nil {
		return m.TransactionsFn(ctx, window)
	}
	return nil, nil
}

// Accounts delegates to AccountsFn.
func (m *MockClient) Accounts(ctx context.Context) ([]model.FeedAccount, error) {
	m.mu.Lock()
	m.AccountsCalls++
	m.mu.Unlock()

	if m.AccountsFn != nil {
		return m.AccountsFn(ctx)
	}
	return nil, nil
}

var _ service.FeedSource = (*MockClient)(nil)
