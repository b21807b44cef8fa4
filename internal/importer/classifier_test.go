package importer_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	assetDomain "gitlab.apk-group.net/itops/backend/asset-inventory/internal/asset/domain"
	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer"
	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer/domain"
)

func newRule(priority int, field string, op domain.RuleOperator, value string, category uuid.UUID) domain.CategoryRule {
	return domain.CategoryRule{
		ID:          uuid.New(),
		Priority:    priority,
		SourceField: field,
		Operator:    op,
		Value:       value,
		CategoryID:  category,
		IsActive:    true,
	}
}

func laptopDraft() *domain.AssetDraft {
	draft := domain.NewAssetDraft(0, nil)
	draft.SerialNumber = "SN-1"
	draft.Type = assetDomain.TypeLaptop
	draft.Make = "Dell"
	draft.Model = "Precision 5680"
	draft.Specifications["memory"] = "64GB"
	draft.Specifications["os"] = "Windows 11"
	return draft
}

func TestClassifier_PriorityOrder(t *testing.T) {
	engineering := uuid.New()
	general := uuid.New()

	// Registered out of order on purpose; evaluation must follow priority.
	classifier := importer.NewClassifier([]domain.CategoryRule{
		newRule(20, "type", domain.OpEquals, "LAPTOP", general),
		newRule(10, "model", domain.OpContains, "precision", engineering),
	})

	got := classifier.Classify(context.Background(), laptopDraft())
	require.NotNil(t, got)
	assert.Equal(t, engineering, *got)
}

func TestClassifier_InactiveRulesSkipped(t *testing.T) {
	winner := uuid.New()
	disabled := newRule(1, "make", domain.OpEquals, "Dell", uuid.New())
	disabled.IsActive = false

	classifier := importer.NewClassifier([]domain.CategoryRule{
		disabled,
		newRule(5, "make", domain.OpEquals, "dell", winner),
	})

	got := classifier.Classify(context.Background(), laptopDraft())
	require.NotNil(t, got)
	assert.Equal(t, winner, *got)
}

func TestClassifier_Operators(t *testing.T) {
	category := uuid.New()

	tests := []struct {
		name    string
		field   string
		op      domain.RuleOperator
		value   string
		matches bool
	}{
		{"equals is case-insensitive", "make", domain.OpEquals, "DELL", true},
		{"equals mismatch", "make", domain.OpEquals, "Lenovo", false},
		{"not equals", "make", domain.OpNotEquals, "Lenovo", true},
		{"contains is case-insensitive", "model", domain.OpContains, "PRECISION", true},
		{"contains mismatch", "model", domain.OpContains, "thinkpad", false},
		{"gte strips unit suffix", "specifications.memory", domain.OpGreaterEq, "32", true},
		{"gte below threshold", "specifications.memory", domain.OpGreaterEq, "128", false},
		{"lte", "specifications.memory", domain.OpLessEq, "64", true},
		{"gt equal value fails", "specifications.memory", domain.OpGreater, "64", false},
		{"lt", "specifications.memory", domain.OpLess, "128", true},
		{"numeric operator on non-numeric field fails rule", "make", domain.OpGreaterEq, "10", false},
		{"regex match", "model", domain.OpRegexMatch, `^Precision \d+$`, true},
		{"regex mismatch", "model", domain.OpRegexMatch, `^Latitude`, false},
		{"malformed regex fails rule not row", "model", domain.OpRegexMatch, `([`, false},
		{"absent field never matches", "specifications.gpu", domain.OpEquals, "RTX", false},
		{"unknown operator fails rule", "make", domain.RuleOperator("startswith"), "D", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classifier := importer.NewClassifier([]domain.CategoryRule{
				newRule(1, tt.field, tt.op, tt.value, category),
			})

			got := classifier.Classify(context.Background(), laptopDraft())
			if tt.matches {
				require.NotNil(t, got)
				assert.Equal(t, category, *got)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestClassifier_NoRules(t *testing.T) {
	classifier := importer.NewClassifier(nil)
	assert.Nil(t, classifier.Classify(context.Background(), laptopDraft()))
}

func TestClassifier_FailedRuleFallsThrough(t *testing.T) {
	fallback := uuid.New()

	classifier := importer.NewClassifier([]domain.CategoryRule{
		newRule(1, "model", domain.OpRegexMatch, `([`, uuid.New()),
		newRule(2, "type", domain.OpEquals, "laptop", fallback),
	})

	got := classifier.Classify(context.Background(), laptopDraft())
	require.NotNil(t, got)
	assert.Equal(t, fallback, *got)
}
