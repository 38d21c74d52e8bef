package sheets

import (
	"context"
	"sync"
)

// MockWriter records reports instead of publishing them.
type MockWriter struct {
	WriteFunc func(ctx context.Context, report Report) error
	Reports   []Report
	mu        sync.Mutex
}

// NewMockWriter creates a new mock writer.
func NewMockWriter() *MockWriter {
	return &MockWriter{}
}

// Write records the report.
func (m *MockWriter) Write(ctx context.Context, report Report) error {
	m.mu.Lock()
	m.Reports = append(m.Reports, report)
	fn := m.WriteFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, report)
	}
	return nil
}

var _ ReportWriter = (*MockWriter)(nil)
