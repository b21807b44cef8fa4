package service

import (
	"bytes"
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer/domain"
	importerPort "gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer/port"
)

var (
	ErrEmptyWorkbook     = errors.New("workbook contains no data rows")
	ErrUnknownSource     = domain.ErrUnknownSourceSystem
	ErrSessionNotFound   = errors.New("progress session not found")
	ErrInvalidAssetIDRef = errors.New("invalid asset id in retire skip list")
)

type ImportRunRequest struct {
	Source             string                 `json:"source"`
	Policy             string                 `json:"policy"`
	Rows               []map[string]string    `json:"rows"`
	Mappings           []domain.ColumnMapping `json:"mappings"`
	RetireSkipAssetIDs []string               `json:"retire_skip_asset_ids"`
	ReactivateSerials  []string               `json:"reactivate_serials"`
}

type ImportStartResponse struct {
	SessionID string `json:"session_id"`
}

type PreviewRequest struct {
	Source  string   `json:"source"`
	Serials []string `json:"serials"`
}

type SyncRunListResponse struct {
	Runs  []domain.SyncRun `json:"runs"`
	Total int              `json:"total"`
}

type ImportService struct {
	service importerPort.Service
}

func NewImportService(srv importerPort.Service) *ImportService {
	return &ImportService{
		service: srv,
	}
}

func (s *ImportService) toDomainRequest(req *ImportRunRequest, actor string) (*domain.ImportRequest, error) {
	source, err := domain.SourceSystemFromString(req.Source)
	if err != nil {
		return nil, err
	}

	policy := domain.ConflictPolicy(req.Policy)
	if req.Policy == "" {
		policy = domain.PolicySkip
	}

	skipIDs := make([]uuid.UUID, 0, len(req.RetireSkipAssetIDs))
	for _, raw := range req.RetireSkipAssetIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, ErrInvalidAssetIDRef
		}
		skipIDs = append(skipIDs, id)
	}

	return &domain.ImportRequest{
		Source:             source,
		Rows:               req.Rows,
		Mappings:           req.Mappings,
		Policy:             policy,
		InitiatedBy:        actor,
		RetireSkipAssetIDs: skipIDs,
		ReactivateSerials:  req.ReactivateSerials,
	}, nil
}

// Run executes an import synchronously.
func (s *ImportService) Run(ctx context.Context, actor string, req *ImportRunRequest) (*domain.ImportResult, error) {
	domainReq, err := s.toDomainRequest(req, actor)
	if err != nil {
		return nil, err
	}
	return s.service.Run(ctx, *domainReq)
}

// Start launches an import in the background and returns its session id.
func (s *ImportService) Start(ctx context.Context, actor string, req *ImportRunRequest) (*ImportStartResponse, error) {
	domainReq, err := s.toDomainRequest(req, actor)
	if err != nil {
		return nil, err
	}
	return &ImportStartResponse{
		SessionID: s.service.Start(ctx, *domainReq),
	}, nil
}

func (s *ImportService) Preview(ctx context.Context, req *PreviewRequest) (*domain.ReconciliationPreview, error) {
	source, err := domain.SourceSystemFromString(req.Source)
	if err != nil {
		return nil, err
	}
	return s.service.Preview(ctx, source, req.Serials)
}

func (s *ImportService) Progress(sessionID string) (*domain.ProgressSnapshot, error) {
	snapshot, ok := s.service.Progress(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return snapshot, nil
}

func (s *ImportService) ListRuns(ctx context.Context, limit, offset int) (*SyncRunListResponse, error) {
	runs, total, err := s.service.ListRuns(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return &SyncRunListResponse{
		Runs:  runs,
		Total: total,
	}, nil
}

// ParseWorkbook reads the first sheet of an uploaded XLSX file into rows
// keyed by the header line. Blank lines are dropped; cells beyond the header
// width are ignored.
func ParseWorkbook(data []byte) ([]map[string]string, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}
	lines, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(lines) < 2 {
		return nil, ErrEmptyWorkbook
	}

	headers := lines[0]
	rows := make([]map[string]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		row := map[string]string{}
		empty := true
		for i, header := range headers {
			if header == "" {
				continue
			}
			var value string
			if i < len(line) {
				value = line[i]
			}
			if value != "" {
				empty = false
			}
			row[header] = value
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil, ErrEmptyWorkbook
	}
	return rows, nil
}
