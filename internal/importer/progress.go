package importer

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer/domain"
)

const defaultSessionRetention = 30 * time.Minute

// sessionState accumulates the live view of one import session. Guarded by
// the owning store's mutex.
type sessionState struct {
	snapshot   domain.ProgressSnapshot
	breakdown  *domain.Breakdown
	finishedAt time.Time
}

// SessionStore tracks progress of running imports for poll-based clients.
// Finished sessions stay readable for the retention window so a client that
// polls after completion still sees the terminal snapshot.
type SessionStore struct {
	mu        sync.RWMutex
	sessions  map[string]*sessionState
	retention time.Duration
	now       func() time.Time
}

func NewSessionStore(retention time.Duration) *SessionStore {
	if retention <= 0 {
		retention = defaultSessionRetention
	}
	return &SessionStore{
		sessions:  make(map[string]*sessionState),
		retention: retention,
		now:       time.Now,
	}
}

// Begin registers a session and returns its id, generating one when the
// caller did not supply it.
func (s *SessionStore) Begin(sessionID string, total int) string {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
	s.sessions[sessionID] = &sessionState{
		snapshot: domain.ProgressSnapshot{
			SessionID:       sessionID,
			CurrentActivity: "starting",
			Total:           total,
			ByType:          map[string]int{},
			ByStatus:        map[string]int{},
			Users:           []string{},
			Locations:       []string{},
			Errors:          []domain.RowDetail{},
			Skips:           []domain.RowDetail{},
		},
		breakdown: domain.NewBreakdown(),
	}
	return sessionID
}

// SetActivity updates the human-readable phase description.
func (s *SessionStore) SetActivity(sessionID, activity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.sessions[sessionID]; ok {
		st.snapshot.CurrentActivity = activity
	}
}

// RecordRow folds one terminal row outcome into the session.
func (s *SessionStore) RecordRow(sessionID string, outcome domain.RowOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	st.snapshot.Processed++
	switch outcome.Kind {
	case domain.OutcomeSuccess:
		st.snapshot.Successful++
	case domain.OutcomeSkipped:
		st.snapshot.Skipped++
		st.snapshot.Skips = append(st.snapshot.Skips, domain.RowDetail{
			RowIndex:    outcome.RowIndex,
			Reason:      outcome.Reason,
			OriginalRow: outcome.OriginalRow,
		})
	case domain.OutcomeFailed:
		st.snapshot.Failed++
		st.snapshot.Errors = append(st.snapshot.Errors, domain.RowDetail{
			RowIndex:    outcome.RowIndex,
			Reason:      outcome.Error,
			OriginalRow: outcome.OriginalRow,
		})
	}
	st.breakdown.Absorb(outcome)
}

// Finish marks the session terminal and starts its retention clock.
func (s *SessionStore) Finish(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.sessions[sessionID]; ok {
		st.snapshot.CurrentActivity = "finished"
		st.snapshot.Done = true
		st.finishedAt = s.now()
	}
}

// Snapshot returns a copy of the session's current state.
func (s *SessionStore) Snapshot(sessionID string) (*domain.ProgressSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	out := st.snapshot
	out.ByType = copyCounts(st.breakdown.ByType)
	out.ByStatus = copyCounts(st.breakdown.ByStatus)
	out.Users = st.breakdown.UserList()
	out.Locations = st.breakdown.LocationList()
	out.Classified = st.breakdown.Classified
	out.Errors = append([]domain.RowDetail{}, st.snapshot.Errors...)
	out.Skips = append([]domain.RowDetail{}, st.snapshot.Skips...)
	return &out, true
}

func (s *SessionStore) purgeLocked() {
	cutoff := s.now().Add(-s.retention)
	for id, st := range s.sessions {
		if st.snapshot.Done && !st.finishedAt.IsZero() && st.finishedAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
