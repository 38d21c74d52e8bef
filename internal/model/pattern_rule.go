package model

import (
	"time"
)

// MatchType selects how a rule pattern is compared against a merchant name.
type MatchType string

// Match type constants.
const (
	MatchContains   MatchType = "contains"
	MatchStartsWith MatchType = "starts_with"
	MatchEndsWith   MatchType = "ends_with"
	MatchExact      MatchType = "exact"
	MatchRegex      MatchType = "regex"
)

// Valid reports whether m is a known match type.
func (m MatchType) Valid() bool {
	switch m {
	case MatchContains, MatchStartsWith, MatchEndsWith, MatchExact, MatchRegex:
		return true
	}
	return false
}

// TransactionRule maps merchant names to a category.
type TransactionRule struct {
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Name            string    `json:"rule_name"`
	MerchantPattern string    `json:"merchant_pattern"`
	MatchType       MatchType `json:"match_type"`
	Category        string    `json:"category"`
	Priority        int       `json:"priority"`
	ID              int       `json:"id"`
	AutoApprove     bool      `json:"auto_approve"`
	IsActive        bool      `json:"is_active"`
}
