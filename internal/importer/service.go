package importer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	assetPort "gitlab.apk-group.net/itops/backend/asset-inventory/internal/asset/port"
	dirPort "gitlab.apk-group.net/itops/backend/asset-inventory/internal/directory/port"
	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer/domain"
	importerPort "gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer/port"
	locPort "gitlab.apk-group.net/itops/backend/asset-inventory/internal/location/port"
	"gitlab.apk-group.net/itops/backend/asset-inventory/pkg/logger"
)

var (
	ErrInvalidConflictPolicy = errors.New("conflict policy must be skip or overwrite")
	ErrNoRows                = errors.New("import contains no rows")
	ErrSyncRunCreateFailed   = errors.New("failed to record sync run")
)

type service struct {
	transformer *Transformer
	resolver    *Resolver
	reconciler  *Reconciler
	scheduler   *Scheduler
	sessions    *SessionStore

	rules     importerPort.RuleRepo
	syncRuns  importerPort.SyncRunRepo
	directory dirPort.Resolver
	locations locPort.Matcher
}

// NewService wires the full import pipeline.
func NewService(
	assets assetPort.Repo,
	writer importerPort.ImportWriter,
	links importerPort.SourceLinkRepo,
	rules importerPort.RuleRepo,
	syncRuns importerPort.SyncRunRepo,
	activities importerPort.ActivityRepo,
	directory dirPort.Resolver,
	locations locPort.Matcher,
	batchSize, tagRetryLimit int,
	sessionRetention time.Duration,
) importerPort.Service {
	return &service{
		transformer: NewTransformer(),
		resolver:    NewResolver(assets, writer, tagRetryLimit),
		reconciler:  NewReconciler(assets, links, activities),
		scheduler:   NewScheduler(batchSize),
		sessions:    NewSessionStore(sessionRetention),
		rules:       rules,
		syncRuns:    syncRuns,
		directory:   directory,
		locations:   locations,
	}
}

// preparedRow is a row after the transform phase: either a ready draft or a
// terminal outcome decided before any persistence was attempted.
type preparedRow struct {
	draft    *domain.AssetDraft
	terminal *domain.RowOutcome
}

func (s *service) Run(ctx context.Context, req domain.ImportRequest) (*domain.ImportResult, error) {
	adapter, err := s.transformer.Adapter(req.Source)
	if err != nil {
		logger.ErrorContext(ctx, "Internal service: unknown import source %q", string(req.Source))
		return nil, err
	}
	if !req.Policy.Valid() {
		return nil, ErrInvalidConflictPolicy
	}
	if len(req.Rows) == 0 {
		return nil, ErrNoRows
	}

	sessionID := s.sessions.Begin(req.SessionID, len(req.Rows))
	runStart := time.Now()

	run := &domain.SyncRun{
		SourceSystem: req.Source,
		FullSnapshot: adapter.Snapshot(),
		InitiatedBy:  req.InitiatedBy,
		StartedAt:    runStart,
	}
	if err := s.syncRuns.Create(ctx, run); err != nil {
		logger.ErrorContext(ctx, "Internal service: failed to create sync run: %v", err)
		s.sessions.Finish(sessionID)
		return nil, ErrSyncRunCreateFailed
	}

	logger.InfoContext(ctx, "Internal service: import run %d started, source %s, %d rows, policy %s",
		run.ID, string(req.Source), len(req.Rows), string(req.Policy))

	if err := s.reconciler.RepairOrphans(ctx, req.Source); err != nil {
		logger.WarnContext(ctx, "Internal service: orphan link repair failed, continuing: %v", err)
	}

	s.sessions.SetActivity(sessionID, "transforming rows")
	prepared := s.transformAll(ctx, req)

	s.sessions.SetActivity(sessionID, "resolving users and locations")
	s.resolveAssignees(ctx, prepared)
	s.resolveLocations(ctx, prepared)

	for _, p := range prepared {
		if p.draft != nil {
			s.transformer.EnsureTag(p.draft)
		}
	}

	s.sessions.SetActivity(sessionID, "classifying workloads")
	s.classifyAll(ctx, prepared)

	allowReactivate := make(map[string]bool, len(req.ReactivateSerials))
	for _, serial := range req.ReactivateSerials {
		allowReactivate[serial] = true
	}

	s.sessions.SetActivity(sessionID, "importing rows")
	process := func(ctx context.Context, rowIndex int, row map[string]string) domain.RowOutcome {
		p := prepared[rowIndex]
		if p.terminal != nil {
			return *p.terminal
		}
		return s.processDraft(ctx, req, p.draft, allowReactivate, adapter.Snapshot())
	}
	outcomes := s.scheduler.Run(ctx, req.Rows, process, func(o domain.RowOutcome) {
		s.sessions.RecordRow(sessionID, o)
	})

	result := s.aggregate(run.ID, sessionID, outcomes)

	if adapter.Snapshot() {
		s.sessions.SetActivity(sessionID, "reconciling absent assets")
		retired, err := s.reconciler.Sweep(ctx, req.Source, runStart, req.RetireSkipAssetIDs, req.InitiatedBy)
		if err != nil {
			logger.ErrorContext(ctx, "Internal service: sweep for source %s failed: %v", string(req.Source), err)
		}
		if retired != nil {
			result.RetiredIDs = retired
		}
	}

	finishedAt := time.Now()
	run.FinishedAt = &finishedAt
	run.Created = len(result.CreatedIDs)
	run.Updated = len(result.UpdatedIDs)
	run.Retired = len(result.RetiredIDs)
	run.Reactivated = len(result.ReactivatedIDs)
	run.Failed = len(result.Errors)
	run.Skipped = len(result.Skips)
	if err := s.syncRuns.Finalize(ctx, run); err != nil {
		logger.WarnContext(ctx, "Internal service: failed to finalize sync run %d: %v", run.ID, err)
	}

	s.sessions.Finish(sessionID)
	logger.InfoContext(ctx, "Internal service: import run %d finished: %d created, %d updated, %d retired, %d reactivated, %d failed, %d skipped",
		run.ID, run.Created, run.Updated, run.Retired, run.Reactivated, run.Failed, run.Skipped)
	return result, nil
}

func (s *service) Start(ctx context.Context, req domain.ImportRequest) string {
	req.SessionID = s.sessions.Begin(req.SessionID, len(req.Rows))

	// Detached from the request context: the caller gets the session id back
	// immediately and the run must outlive the HTTP request.
	bg := context.WithoutCancel(ctx)
	go func() {
		if _, err := s.Run(bg, req); err != nil {
			logger.ErrorContext(bg, "Internal service: background import failed: %v", err)
			s.sessions.Finish(req.SessionID)
		}
	}()
	return req.SessionID
}

func (s *service) Preview(ctx context.Context, source domain.SourceSystem, serials []string) (*domain.ReconciliationPreview, error) {
	if _, err := s.transformer.Adapter(source); err != nil {
		return nil, err
	}
	return s.reconciler.Preview(ctx, source, serials)
}

func (s *service) Progress(sessionID string) (*domain.ProgressSnapshot, bool) {
	return s.sessions.Snapshot(sessionID)
}

func (s *service) ListRuns(ctx context.Context, limit, offset int) ([]domain.SyncRun, int, error) {
	return s.syncRuns.List(ctx, limit, offset)
}

func (s *service) transformAll(ctx context.Context, req domain.ImportRequest) []preparedRow {
	prepared := make([]preparedRow, len(req.Rows))
	for i, row := range req.Rows {
		draft, err := s.transformer.Transform(req.Source, i, row, req.Mappings)
		if err == nil {
			prepared[i] = preparedRow{draft: draft}
			continue
		}

		var missing *domain.MissingRequiredFieldError
		var invalid *domain.ValidationError
		outcome := domain.RowOutcome{RowIndex: i, OriginalRow: row}
		switch {
		case errors.As(err, &missing) || errors.As(err, &invalid):
			outcome.Kind = domain.OutcomeSkipped
			outcome.Reason = err.Error()
		default:
			outcome.Kind = domain.OutcomeFailed
			outcome.Error = err.Error()
		}
		logger.DebugContext(ctx, "Internal service: row %d not importable: %v", i, err)
		prepared[i] = preparedRow{terminal: &outcome}
	}
	return prepared
}

// resolveAssignees batches directory lookups for every draft with an
// assignee. Names without spaces are treated as account names, the rest as
// display names. Resolution is best-effort and never fails a row.
func (s *service) resolveAssignees(ctx context.Context, prepared []preparedRow) {
	if s.directory == nil {
		return
	}

	var accounts, displays []string
	seen := map[string]bool{}
	for _, p := range prepared {
		if p.draft == nil || p.draft.AssignedTo == "" || seen[p.draft.AssignedTo] {
			continue
		}
		seen[p.draft.AssignedTo] = true
		if strings.Contains(p.draft.AssignedTo, " ") {
			displays = append(displays, p.draft.AssignedTo)
		} else {
			accounts = append(accounts, p.draft.AssignedTo)
		}
	}
	if len(accounts) == 0 && len(displays) == 0 {
		return
	}

	byAccount, err := s.directory.ResolveBySamAccount(ctx, accounts)
	if err != nil {
		logger.WarnContext(ctx, "Internal service: directory account lookup failed: %v", err)
	}
	byDisplay, err := s.directory.ResolveByDisplayName(ctx, displays)
	if err != nil {
		logger.WarnContext(ctx, "Internal service: directory display-name lookup failed: %v", err)
	}

	for _, p := range prepared {
		if p.draft == nil || p.draft.AssignedTo == "" {
			continue
		}
		identity := byAccount[p.draft.AssignedTo]
		if identity == nil {
			identity = byDisplay[p.draft.AssignedTo]
		}
		if identity == nil {
			continue
		}
		if id, err := uuid.Parse(identity.ID); err == nil {
			p.draft.AssignedUserID = &id
		}
		if identity.DisplayName != "" {
			p.draft.AssignedDisplayName = identity.DisplayName
		}
		if p.draft.LocationLabel == "" && identity.OfficeLocation != "" {
			p.draft.LocationLabel = identity.OfficeLocation
		}
	}
}

func (s *service) resolveLocations(ctx context.Context, prepared []preparedRow) {
	if s.locations == nil {
		return
	}

	var labels []string
	seen := map[string]bool{}
	for _, p := range prepared {
		if p.draft == nil || p.draft.LocationLabel == "" || seen[p.draft.LocationLabel] {
			continue
		}
		seen[p.draft.LocationLabel] = true
		labels = append(labels, p.draft.LocationLabel)
	}
	if len(labels) == 0 {
		return
	}

	matched, err := s.locations.MatchLocations(ctx, labels)
	if err != nil {
		logger.WarnContext(ctx, "Internal service: location matching failed: %v", err)
		return
	}
	for _, p := range prepared {
		if p.draft == nil || p.draft.LocationLabel == "" {
			continue
		}
		if id := matched[p.draft.LocationLabel]; id != nil {
			p.draft.LocationID = id
		}
	}
}

func (s *service) classifyAll(ctx context.Context, prepared []preparedRow) {
	rules, err := s.rules.ListActiveRules(ctx)
	if err != nil {
		logger.WarnContext(ctx, "Internal service: could not load classification rules, imports continue unclassified: %v", err)
		return
	}
	if len(rules) == 0 {
		return
	}
	classifier := NewClassifier(rules)
	for _, p := range prepared {
		if p.draft == nil {
			continue
		}
		p.draft.WorkloadCategoryID = classifier.Classify(ctx, p.draft)
	}
}

func (s *service) processDraft(ctx context.Context, req domain.ImportRequest, draft *domain.AssetDraft, allowReactivate map[string]bool, snapshot bool) domain.RowOutcome {
	outcome := domain.RowOutcome{
		RowIndex:    draft.RowIndex,
		AssetType:   draft.Type,
		Status:      string(draft.Status),
		Classified:  draft.WorkloadCategoryID != nil,
		UserKey:     assigneeKey(draft),
		LocationKey: draft.LocationLabel,
		OriginalRow: draft.OriginalRow,
	}

	res, err := s.resolver.Resolve(ctx, draft, req.Policy, allowReactivate, req.InitiatedBy)
	if err != nil {
		logger.ErrorContext(ctx, "Internal service: row %d failed: %v", draft.RowIndex, err)
		outcome.Kind = domain.OutcomeFailed
		outcome.Error = err.Error()
		return outcome
	}
	if res.Skipped {
		outcome.Kind = domain.OutcomeSkipped
		outcome.Reason = res.SkipReason
		// The row itself attests presence: a snapshot listing an asset the
		// policy declined to rewrite must still refresh its source link, or
		// the sweep would retire an asset the source just reported.
		if snapshot && res.AssetID != uuid.Nil {
			if err := s.reconciler.MarkSeen(ctx, req.Source, res.AssetID, draft.SerialNumber, time.Now()); err != nil {
				logger.WarnContext(ctx, "Internal service: presence mark for skipped asset %s failed: %v", res.AssetID.String(), err)
			}
		}
		return outcome
	}

	outcome.Kind = domain.OutcomeSuccess
	outcome.Operation = res.Operation
	outcome.AssetID = res.AssetID
	outcome.Status = string(res.Status)
	outcome.Reactivated = res.Reactivated

	if snapshot {
		if err := s.reconciler.MarkSeen(ctx, req.Source, res.AssetID, draft.SerialNumber, time.Now()); err != nil {
			logger.WarnContext(ctx, "Internal service: presence mark for asset %s failed: %v", res.AssetID.String(), err)
		}
	}
	return outcome
}

func (s *service) aggregate(runID int64, sessionID string, outcomes []domain.RowOutcome) *domain.ImportResult {
	result := &domain.ImportResult{
		RunID:          runID,
		SessionID:      sessionID,
		Total:          len(outcomes),
		CreatedIDs:     []uuid.UUID{},
		UpdatedIDs:     []uuid.UUID{},
		RetiredIDs:     []uuid.UUID{},
		ReactivatedIDs: []uuid.UUID{},
		Errors:         []domain.RowDetail{},
		Skips:          []domain.RowDetail{},
		Breakdown:      domain.NewBreakdown(),
	}
	for _, o := range outcomes {
		result.Breakdown.Absorb(o)
		switch o.Kind {
		case domain.OutcomeSuccess:
			if o.Operation == domain.OperationCreate {
				result.CreatedIDs = append(result.CreatedIDs, o.AssetID)
			} else {
				result.UpdatedIDs = append(result.UpdatedIDs, o.AssetID)
			}
			if o.Reactivated {
				result.ReactivatedIDs = append(result.ReactivatedIDs, o.AssetID)
			}
		case domain.OutcomeSkipped:
			result.Skips = append(result.Skips, domain.RowDetail{RowIndex: o.RowIndex, Reason: o.Reason, OriginalRow: o.OriginalRow})
		case domain.OutcomeFailed:
			result.Errors = append(result.Errors, domain.RowDetail{RowIndex: o.RowIndex, Reason: o.Error, OriginalRow: o.OriginalRow})
		}
	}
	return result
}

func assigneeKey(draft *domain.AssetDraft) string {
	if draft.AssignedDisplayName != "" {
		return draft.AssignedDisplayName
	}
	return draft.AssignedTo
}
