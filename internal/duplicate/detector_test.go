package duplicate

import (
	"context"
	"errors"
	"testing"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
	"github.com/Veraticus/tally/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilar(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Shell", "SHELL OIL 5744", true},
		{"SHELL OIL 5744", "shell", true},
		{"Staples", "Stapels", true},
		{"Home Depot", "HOME DEPO", true},
		{"STARBUCKS #4521", "Starbucks Coffee", false},
		{"Amazon", "Costco", false},
		{"uber", "  lyft  ", false},
		{"  shell", "shell oil", false},
		{"shell ", "SHELL OIL", true},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Similar(tt.a, tt.b))
		})
	}
}

func TestDetector_Find(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	account := db.Account("acct-1")

	txn := db.Transaction(account, "SHELL OIL 5744", "-45.99", testutil.Date(2024, 1, 15))

	inWindowLow := db.Expense("Shell", "45.99", testutil.Date(2024, 1, 12))
	inWindowHigh := db.Expense("Shell Oil", "45.99", testutil.Date(2024, 1, 18))
	db.Expense("Shell", "45.99", testutil.Date(2024, 1, 11))           // 4 days before
	db.Expense("Shell", "45.99", testutil.Date(2024, 1, 19))           // 4 days after
	db.Expense("Shell", "46.00", testutil.Date(2024, 1, 15))           // different amount
	db.Expense("Chevron Station", "45.99", testutil.Date(2024, 1, 15)) // different payee

	detector := NewDetector(db.Storage, common.PolicyDegrade)
	ids, err := detector.Find(ctx, txn)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{inWindowLow.ID, inWindowHigh.ID}, ids)
}

func TestDetector_Find_EditDistanceBoundary(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	account := db.Account("acct-1")

	txn := db.Transaction(account, "STARBUCKS #4521", "-6.45", testutil.Date(2024, 3, 2))
	db.Expense("Starbucks Coffee", "6.45", testutil.Date(2024, 3, 2))

	ids, err := NewDetector(db.Storage, "").Find(ctx, txn)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

type failingLister struct{}

func (failingLister) ListExpenses(context.Context, service.ExpenseFilter) ([]model.Expense, error) {
	return nil, errors.New("database is locked")
}

func TestDetector_FindDuplicates_Policy(t *testing.T) {
	ctx := context.Background()
	txn := &model.BankTransaction{ID: "t1", Name: "Shell", Date: testutil.Date(2024, 1, 15)}

	ids, err := NewDetector(failingLister{}, common.PolicyDegrade).FindDuplicates(ctx, txn)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = NewDetector(failingLister{}, common.PolicyPropagate).FindDuplicates(ctx, txn)
	assert.ErrorContains(t, err, "database is locked")
}
