package domain

import (
	"github.com/google/uuid"
)

// RuleOperator enumerates the predicate operators a workload-category rule
// may use.
type RuleOperator string

const (
	OpEquals     RuleOperator = "equals"
	OpNotEquals  RuleOperator = "not_equals"
	OpGreaterEq  RuleOperator = "gte"
	OpLessEq     RuleOperator = "lte"
	OpGreater    RuleOperator = "gt"
	OpLess       RuleOperator = "lt"
	OpContains   RuleOperator = "contains"
	OpRegexMatch RuleOperator = "regex"
)

// CategoryRule is one user-authored classification predicate. Rules are
// evaluated in ascending priority order; the first active match wins.
type CategoryRule struct {
	ID          uuid.UUID
	Priority    int
	SourceField string
	Operator    RuleOperator
	Value       string
	CategoryID  uuid.UUID
	IsActive    bool
}

// WorkloadCategory is the classification target a rule assigns.
type WorkloadCategory struct {
	ID   uuid.UUID
	Name string
}
