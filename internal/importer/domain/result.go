package domain

import (
	"sort"

	"github.com/google/uuid"
)

// ImportRequest is one snapshot submission.
type ImportRequest struct {
	Source      SourceSystem
	Rows        []map[string]string
	Mappings    []ColumnMapping
	Policy      ConflictPolicy
	InitiatedBy string
	SessionID   string

	// RetireSkipAssetIDs vetoes retirement for specific assets during the sweep.
	RetireSkipAssetIDs []uuid.UUID
	// ReactivateSerials approves leaving retired for the listed serial
	// numbers; any retired asset not listed stays retired.
	ReactivateSerials []string
}

// Row outcome kinds.
const (
	OutcomeSuccess = "success"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// Row operations for successful outcomes.
const (
	OperationCreate = "create"
	OperationUpdate = "update"
)

// RowOutcome is the terminal state of one input row.
type RowOutcome struct {
	RowIndex    int
	Kind        string
	Operation   string
	AssetID     uuid.UUID
	AssetType   string
	Status      string
	Reason      string
	Error       string
	Reactivated bool
	Classified  bool
	UserKey     string
	LocationKey string
	OriginalRow map[string]string
}

// RowDetail is the per-row error/skip information surfaced to operators.
type RowDetail struct {
	RowIndex    int               `json:"row_index"`
	Reason      string            `json:"reason"`
	OriginalRow map[string]string `json:"original_row"`
}

// Breakdown aggregates running statistics over processed rows. Sets are kept
// as maps internally and serialized as ordered lists.
type Breakdown struct {
	ByType     map[string]int  `json:"by_type"`
	ByStatus   map[string]int  `json:"by_status"`
	Users      map[string]bool `json:"-"`
	Locations  map[string]bool `json:"-"`
	Classified int             `json:"classified"`
}

func NewBreakdown() *Breakdown {
	return &Breakdown{
		ByType:    map[string]int{},
		ByStatus:  map[string]int{},
		Users:     map[string]bool{},
		Locations: map[string]bool{},
	}
}

// Absorb merges one row outcome into the breakdown.
func (b *Breakdown) Absorb(o RowOutcome) {
	if o.Kind != OutcomeSuccess {
		return
	}
	if o.AssetType != "" {
		b.ByType[o.AssetType]++
	}
	if o.Status != "" {
		b.ByStatus[o.Status]++
	}
	if o.UserKey != "" {
		b.Users[o.UserKey] = true
	}
	if o.LocationKey != "" {
		b.Locations[o.LocationKey] = true
	}
	if o.Classified {
		b.Classified++
	}
}

// UserList returns the distinct resolved users as an ordered list.
func (b *Breakdown) UserList() []string {
	return orderedKeys(b.Users)
}

// LocationList returns the distinct resolved locations as an ordered list.
func (b *Breakdown) LocationList() []string {
	return orderedKeys(b.Locations)
}

func orderedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ImportResult is the synchronous run result.
type ImportResult struct {
	RunID          int64       `json:"run_id"`
	SessionID      string      `json:"session_id"`
	Total          int         `json:"total"`
	CreatedIDs     []uuid.UUID `json:"created_ids"`
	UpdatedIDs     []uuid.UUID `json:"updated_ids"`
	RetiredIDs     []uuid.UUID `json:"retired_ids"`
	ReactivatedIDs []uuid.UUID `json:"reactivated_ids"`
	Errors         []RowDetail `json:"errors"`
	Skips          []RowDetail `json:"skips"`
	Breakdown      *Breakdown  `json:"breakdown"`
}

// PreviewEntry describes one asset a hypothetical run would transition.
type PreviewEntry struct {
	AssetID      uuid.UUID `json:"asset_id"`
	AssetTag     string    `json:"asset_tag"`
	SerialNumber string    `json:"serial_number"`
}

// ReconciliationPreview lists the lifecycle transitions a snapshot would
// cause, without persisting anything.
type ReconciliationPreview struct {
	WouldRetire     []PreviewEntry `json:"would_retire"`
	WouldReactivate []PreviewEntry `json:"would_reactivate"`
}

// ProgressSnapshot is the poll-driven view of a running or recently finished
// import session.
type ProgressSnapshot struct {
	SessionID       string         `json:"session_id"`
	CurrentActivity string         `json:"current_activity"`
	Total           int            `json:"total"`
	Processed       int            `json:"processed"`
	Successful      int            `json:"successful"`
	Failed          int            `json:"failed"`
	Skipped         int            `json:"skipped"`
	ByType          map[string]int `json:"by_type"`
	ByStatus        map[string]int `json:"by_status"`
	Users           []string       `json:"users"`
	Locations       []string       `json:"locations"`
	Classified      int            `json:"classified"`
	Errors          []RowDetail    `json:"errors"`
	Skips           []RowDetail    `json:"skips"`
	Done            bool           `json:"done"`
}
