package rules

import (
	"testing"

	"github.com/Veraticus/tally/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorizer_Categorize(t *testing.T) {
	rs := Compile([]model.TransactionRule{
		rule(1, "SHELL", model.MatchContains, "Fuel/Mileage Expenses", 10),
		{ID: 2, Name: "staples", MerchantPattern: "STAPLES", MatchType: model.MatchStartsWith, Category: "Office Supplies", IsActive: true, AutoApprove: true},
	})
	c := NewCategorizer()

	tests := []struct {
		name        string
		txn         model.BankTransaction
		wantCat     string
		wantSource  Source
		wantConf    float64
		wantRule    int
		autoApprove bool
	}{
		{
			name:       "rule match",
			txn:        model.BankTransaction{ID: "t1", MerchantName: "SHELL OIL 5744", Name: "POS SHELL"},
			wantCat:    "Fuel/Mileage Expenses",
			wantSource: SourceRule,
			wantConf:   0.95,
			wantRule:   1,
		},
		{
			name:        "falls back to raw name and carries auto approve",
			txn:         model.BankTransaction{ID: "t2", Name: "Staples #0042"},
			wantCat:     "Office Supplies",
			wantSource:  SourceRule,
			wantConf:    0.95,
			wantRule:    2,
			autoApprove: true,
		},
		{
			name:       "provider hint",
			txn:        model.BankTransaction{ID: "t3", Name: "Blue Bottle", ProviderCategories: []string{"Food and Drink", "Coffee"}},
			wantCat:    "Food and Drink",
			wantSource: SourceProvider,
			wantConf:   0.60,
		},
		{
			name:       "blank first hint is uncategorized",
			txn:        model.BankTransaction{ID: "t4", Name: "Mystery", ProviderCategories: []string{" ", "Coffee"}},
			wantCat:    model.UncategorizedCategory,
			wantSource: SourceNone,
			wantConf:   0,
		},
		{
			name:       "nothing applies",
			txn:        model.BankTransaction{ID: "t5", Name: "Mystery"},
			wantCat:    model.UncategorizedCategory,
			wantSource: SourceNone,
			wantConf:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Categorize(&tt.txn, rs)
			assert.Equal(t, tt.wantCat, got.Category)
			assert.Equal(t, tt.wantSource, got.Source)
			assert.InDelta(t, tt.wantConf, got.Confidence, 1e-9)
			assert.Equal(t, tt.autoApprove, got.AutoApprove)
			if tt.wantRule == 0 {
				assert.Nil(t, got.RuleID)
			} else {
				require.NotNil(t, got.RuleID)
				assert.Equal(t, tt.wantRule, *got.RuleID)
			}
		})
	}
}

func TestCategorizer_UnsavedRules(t *testing.T) {
	rs := Compile([]model.TransactionRule{
		rule(0, "SHELL", model.MatchContains, "Fuel/Mileage Expenses", 10),
		rule(0, "STAPLES", model.MatchContains, "Office Supplies", 5),
		rule(0, "([", model.MatchRegex, "Broken", 20),
		rule(0, "^AMZN", model.MatchRegex, "Shopping", 1),
	})
	c := NewCategorizer()

	got := c.Categorize(&model.BankTransaction{Name: "SHELL OIL 12345"}, rs)
	assert.Equal(t, "Fuel/Mileage Expenses", got.Category)
	assert.InDelta(t, RuleConfidence, got.Confidence, 1e-9)

	got = c.Categorize(&model.BankTransaction{Name: "AMZN Mktp US"}, rs)
	assert.Equal(t, "Shopping", got.Category)
	assert.Equal(t, SourceRule, got.Source)
}

func TestCategorizer_NilRuleSet(t *testing.T) {
	got := NewCategorizer().Categorize(&model.BankTransaction{Name: "x", ProviderCategories: []string{"Travel"}}, nil)
	assert.Equal(t, "Travel", got.Category)
}

func TestConfidenceBand(t *testing.T) {
	tests := []struct {
		score float64
		want  Band
	}{
		{0.95, BandHigh},
		{0.9, BandHigh},
		{0.89, BandGood},
		{0.7, BandGood},
		{0.6, BandFair},
		{0.5, BandFair},
		{0.49, BandLow},
		{0, BandLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ConfidenceBand(tt.score), "score %v", tt.score)
	}
}
