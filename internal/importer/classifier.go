package importer

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer/domain"
	"gitlab.apk-group.net/itops/backend/asset-inventory/pkg/logger"
)

// Classifier evaluates the user-authored workload-category rules against a
// draft. Rules are loaded once per run; the first active match in ascending
// priority order wins. The linear scan is deliberate: rules come from an
// admin UI and the evaluation order must stay auditable.
type Classifier struct {
	rules []domain.CategoryRule
}

func NewClassifier(rules []domain.CategoryRule) *Classifier {
	ordered := make([]domain.CategoryRule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})
	return &Classifier{rules: ordered}
}

// Classify returns the first matching category id, or nil when no rule matches.
func (c *Classifier) Classify(ctx context.Context, draft *domain.AssetDraft) *uuid.UUID {
	for _, rule := range c.rules {
		if !rule.IsActive {
			continue
		}
		if c.matches(ctx, rule, draft) {
			id := rule.CategoryID
			return &id
		}
	}
	return nil
}

// matches evaluates one rule. A rule that cannot be evaluated (absent field,
// non-numeric value under a numeric operator, malformed pattern) fails the
// rule, never the row.
func (c *Classifier) matches(ctx context.Context, rule domain.CategoryRule, draft *domain.AssetDraft) bool {
	fieldValue, ok := draft.Field(rule.SourceField)
	if !ok {
		return false
	}

	switch rule.Operator {
	case domain.OpEquals:
		return strings.EqualFold(fieldValue, rule.Value)
	case domain.OpNotEquals:
		return !strings.EqualFold(fieldValue, rule.Value)
	case domain.OpContains:
		return strings.Contains(strings.ToLower(fieldValue), strings.ToLower(rule.Value))
	case domain.OpGreaterEq, domain.OpLessEq, domain.OpGreater, domain.OpLess:
		return compareNumeric(rule.Operator, fieldValue, rule.Value)
	case domain.OpRegexMatch:
		re, err := regexp.Compile(rule.Value)
		if err != nil {
			logger.WarnContext(ctx, "Classifier: rule %s has malformed pattern %q: %v", rule.ID.String(), rule.Value, err)
			return false
		}
		return re.MatchString(fieldValue)
	default:
		logger.WarnContext(ctx, "Classifier: rule %s uses unknown operator %q", rule.ID.String(), string(rule.Operator))
		return false
	}
}

func compareNumeric(op domain.RuleOperator, fieldValue, ruleValue string) bool {
	left, err := strconv.ParseFloat(numericPrefix(fieldValue), 64)
	if err != nil {
		return false
	}
	right, err := strconv.ParseFloat(strings.TrimSpace(ruleValue), 64)
	if err != nil {
		return false
	}

	switch op {
	case domain.OpGreaterEq:
		return left >= right
	case domain.OpLessEq:
		return left <= right
	case domain.OpGreater:
		return left > right
	case domain.OpLess:
		return left < right
	}
	return false
}

// numericPrefix strips a trailing unit so sizes like "256GB" compare as numbers.
func numericPrefix(s string) string {
	trimmed := strings.TrimSpace(s)
	end := 0
	for end < len(trimmed) {
		ch := trimmed[end]
		if (ch >= '0' && ch <= '9') || ch == '.' || (end == 0 && ch == '-') {
			end++
			continue
		}
		break
	}
	if end == 0 {
		return trimmed
	}
	return trimmed[:end]
}
