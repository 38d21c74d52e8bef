package rules

import (
	"log/slog"
	"strings"

	"github.com/Veraticus/tally/internal/model"
)

// Confidence scores assigned by the categorizer.
const (
	RuleConfidence     = 0.95
	ProviderConfidence = 0.60
	NoneConfidence     = 0.0
)

// Source identifies what produced a suggestion.
type Source string

// Suggestion sources.
const (
	SourceRule     Source = "rule"
	SourceProvider Source = "provider"
	SourceNone     Source = "none"
)

// Suggestion is a proposed category for a bank transaction.
type Suggestion struct {
	RuleID      *int
	Category    string
	Source      Source
	Confidence  float64
	AutoApprove bool
}

// Categorizer assigns suggestions from rules and feed-provided hints.
type Categorizer struct {
	logger *slog.Logger
}

// NewCategorizer creates a categorizer.
func NewCategorizer() *Categorizer {
	return &Categorizer{logger: slog.Default().With("component", "categorizer")}
}

// Categorize suggests a category for txn. The first matching rule wins;
// otherwise the first provider category is used; otherwise the transaction
// is Uncategorized. It never fails.
func (c *Categorizer) Categorize(txn *model.BankTransaction, rs *RuleSet) Suggestion {
	merchant := txn.DisplayName()

	if rs != nil {
		if rule, ok := rs.FirstMatch(merchant); ok {
			id := rule.ID
			c.logger.Debug("Rule matched",
				"transaction_id", txn.ID,
				"rule_id", rule.ID,
				"merchant", merchant)
			return Suggestion{
				RuleID:      &id,
				Category:    rule.Category,
				Source:      SourceRule,
				Confidence:  RuleConfidence,
				AutoApprove: rule.AutoApprove,
			}
		}
	}

	if len(txn.ProviderCategories) > 0 {
		if hint := strings.TrimSpace(txn.ProviderCategories[0]); hint != "" {
			return Suggestion{
				Category:   hint,
				Source:     SourceProvider,
				Confidence: ProviderConfidence,
			}
		}
	}

	return Suggestion{
		Category:   model.UncategorizedCategory,
		Source:     SourceNone,
		Confidence: NoneConfidence,
	}
}

// Band is a coarse confidence grouping for display.
type Band string

// Confidence bands.
const (
	BandHigh Band = "high"
	BandGood Band = "good"
	BandFair Band = "fair"
	BandLow  Band = "low"
)

// ConfidenceBand maps a score to its display band.
func ConfidenceBand(score float64) Band {
	switch {
	case score >= 0.9:
		return BandHigh
	case score >= 0.7:
		return BandGood
	case score >= 0.5:
		return BandFair
	default:
		return BandLow
	}
}
