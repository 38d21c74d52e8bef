package storage

import (
	"context"
	"testing"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRules_CRUD(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	rule := &model.TransactionRule{
		Name:            "Fuel",
		MerchantPattern: "SHELL",
		MatchType:       model.MatchContains,
		Category:        "Fuel/Mileage Expenses",
		Priority:        10,
		IsActive:        true,
	}
	require.NoError(t, store.CreateRule(ctx, rule))
	require.NotZero(t, rule.ID)

	got, err := store.GetRule(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, "SHELL", got.MerchantPattern)
	assert.Equal(t, model.MatchContains, got.MatchType)
	assert.False(t, got.AutoApprove)

	got.AutoApprove = true
	got.Priority = 20
	require.NoError(t, store.UpdateRule(ctx, got))

	got, err = store.GetRule(ctx, rule.ID)
	require.NoError(t, err)
	assert.True(t, got.AutoApprove)
	assert.Equal(t, 20, got.Priority)

	require.NoError(t, store.DeleteRule(ctx, rule.ID))
	_, err = store.GetRule(ctx, rule.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, store.DeleteRule(ctx, rule.ID), common.ErrNotFound)
}

func TestListRules_Order(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	specs := []struct {
		name     string
		priority int
		active   bool
	}{
		{"low", 1, true},
		{"high-a", 50, true},
		{"inactive", 100, false},
		{"high-b", 50, true},
	}
	for _, s := range specs {
		require.NoError(t, store.CreateRule(ctx, &model.TransactionRule{
			Name:            s.name,
			MerchantPattern: "X",
			MatchType:       model.MatchExact,
			Category:        "C",
			Priority:        s.priority,
			IsActive:        s.active,
		}))
	}

	rules, err := store.ListRules(ctx, true)
	require.NoError(t, err)
	var names []string
	for _, r := range rules {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"high-a", "high-b", "low"}, names)

	all, err := store.ListRules(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "inactive", all[0].Name)
}

func TestCreateRule_Validation(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	tests := []struct {
		name string
		rule *model.TransactionRule
	}{
		{"nil", nil},
		{"missing name", &model.TransactionRule{MerchantPattern: "A", MatchType: model.MatchExact, Category: "C"}},
		{"missing pattern", &model.TransactionRule{Name: "n", MatchType: model.MatchExact, Category: "C"}},
		{"bad match type", &model.TransactionRule{Name: "n", MerchantPattern: "A", MatchType: "fuzzy", Category: "C"}},
		{"missing category", &model.TransactionRule{Name: "n", MerchantPattern: "A", MatchType: model.MatchExact}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, store.CreateRule(ctx, tt.rule))
		})
	}
}
