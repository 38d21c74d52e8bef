// Package rules evaluates merchant rules and turns them into category suggestions.
package rules

import (
	"regexp"
	"sort"
	"strings"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
	"golang.org/x/text/cases"
)

// MatchResult is the outcome of evaluating one rule against a merchant name.
type MatchResult int

// Match results.
const (
	NoMatch MatchResult = iota
	Matched
	// PatternInvalid marks a regex rule whose pattern does not compile.
	// It never matches.
	PatternInvalid
)

func (r MatchResult) String() string {
	switch r {
	case Matched:
		return "matched"
	case PatternInvalid:
		return "pattern_invalid"
	default:
		return "no_match"
	}
}

// RuleSet is an immutable, ordered snapshot of active rules with their
// patterns prepared for matching. It is safe for concurrent use.
type RuleSet struct {
	rules []compiledRule
}

// compiledRule carries a rule with its pattern prepared once. Rules are
// never looked up by ID, so unsaved rules (ID 0) work as well as stored ones.
type compiledRule struct {
	re     *regexp.Regexp
	err    error
	folded string
	rule   model.TransactionRule
}

// InvalidPattern is a regex rule whose pattern does not compile.
type InvalidPattern struct {
	Err  error
	Rule model.TransactionRule
}

// Compile builds a RuleSet from rules. Inactive rules are dropped and the
// rest are ordered by priority descending, then ID ascending.
func Compile(rules []model.TransactionRule) *RuleSet {
	rs := &RuleSet{}
	fold := cases.Fold()
	for _, rule := range rules {
		if !rule.IsActive {
			continue
		}
		rs.rules = append(rs.rules, prepare(rule, fold))
	}

	sort.SliceStable(rs.rules, func(i, j int) bool {
		a, b := rs.rules[i].rule, rs.rules[j].rule
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.ID < b.ID
	})
	return rs
}

func prepare(rule model.TransactionRule, fold cases.Caser) compiledRule {
	cr := compiledRule{rule: rule}
	if rule.MatchType == model.MatchRegex {
		cr.re, cr.err = common.CompileFold(rule.MerchantPattern)
		return cr
	}
	cr.folded = fold.String(rule.MerchantPattern)
	return cr
}

// Len returns the number of active rules.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// InvalidPatterns returns the regex rules whose patterns do not compile,
// in evaluation order.
func (rs *RuleSet) InvalidPatterns() []InvalidPattern {
	var out []InvalidPattern
	for _, cr := range rs.rules {
		if cr.err != nil {
			out = append(out, InvalidPattern{Rule: cr.rule, Err: cr.err})
		}
	}
	return out
}

// Evaluate tests a single rule against a merchant name, ignoring case. The
// rule does not need to belong to rs.
func (rs *RuleSet) Evaluate(rule model.TransactionRule, merchant string) MatchResult {
	fold := cases.Fold()
	return prepare(rule, fold).match(merchant, fold.String(merchant))
}

// FirstMatch returns the highest-priority rule matching merchant.
func (rs *RuleSet) FirstMatch(merchant string) (model.TransactionRule, bool) {
	name := cases.Fold().String(merchant)
	for _, cr := range rs.rules {
		if cr.match(merchant, name) == Matched {
			return cr.rule, true
		}
	}
	return model.TransactionRule{}, false
}

// match evaluates the prepared rule. name is merchant already case-folded.
func (cr compiledRule) match(merchant, name string) MatchResult {
	switch cr.rule.MatchType {
	case model.MatchRegex:
		if cr.err != nil {
			return PatternInvalid
		}
		return result(cr.re.MatchString(merchant))
	case model.MatchContains:
		return result(strings.Contains(name, cr.folded))
	case model.MatchStartsWith:
		return result(strings.HasPrefix(name, cr.folded))
	case model.MatchEndsWith:
		return result(strings.HasSuffix(name, cr.folded))
	case model.MatchExact:
		return result(name == cr.folded)
	}
	return NoMatch
}

func result(ok bool) MatchResult {
	if ok {
		return Matched
	}
	return NoMatch
}
