package domain

import (
	"time"
)

// SyncRun is the audit record of one reconciliation invocation. It is created
// when the run starts and finalized exactly once when it ends.
type SyncRun struct {
	ID           int64
	SourceSystem SourceSystem
	FullSnapshot bool
	InitiatedBy  string
	StartedAt    time.Time
	FinishedAt   *time.Time
	Created      int
	Updated      int
	Retired      int
	Reactivated  int
	Failed       int
	Skipped      int
}

// Activity is one audit-log entry describing a write the importer performed.
type Activity struct {
	Actor   string
	AssetID string
	Action  string
	Details string
}

// Audit actions recorded by the importer and reconciler.
const (
	ActionCreate     = "create"
	ActionUpdate     = "update"
	ActionRetire     = "retire"
	ActionReactivate = "reactivate"
)
