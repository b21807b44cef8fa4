package service_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gitlab.apk-group.net/itops/backend/asset-inventory/api/service"
	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer/domain"
)

// MockImporterService is a mock implementation of the importer port.Service interface
type MockImporterService struct {
	mock.Mock
}

func (m *MockImporterService) Run(ctx context.Context, req domain.ImportRequest) (*domain.ImportResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportResult), args.Error(1)
}

func (m *MockImporterService) Start(ctx context.Context, req domain.ImportRequest) string {
	args := m.Called(ctx, req)
	return args.String(0)
}

func (m *MockImporterService) Preview(ctx context.Context, source domain.SourceSystem, serials []string) (*domain.ReconciliationPreview, error) {
	args := m.Called(ctx, source, serials)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationPreview), args.Error(1)
}

func (m *MockImporterService) Progress(sessionID string) (*domain.ProgressSnapshot, bool) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.ProgressSnapshot), args.Bool(1)
}

func (m *MockImporterService) ListRuns(ctx context.Context, limit, offset int) ([]domain.SyncRun, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int), args.Error(2)
	}
	return args.Get(0).([]domain.SyncRun), args.Get(1).(int), args.Error(2)
}

func workbookBytes(t *testing.T, lines [][]string) []byte {
	t.Helper()
	wb := excelize.NewFile()
	defer wb.Close()

	sheet := wb.GetSheetName(0)
	for i, line := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, wb.SetSheetRow(sheet, cell, &line))
	}

	var buf bytes.Buffer
	_, err := wb.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseWorkbook(t *testing.T) {
	t.Run("rows keyed by header", func(t *testing.T) {
		data := workbookBytes(t, [][]string{
			{"Serial Number", "Make", "Model"},
			{"SN-1", "Dell", "Latitude 5440"},
			{"SN-2", "Lenovo", ""},
		})

		rows, err := service.ParseWorkbook(data)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, map[string]string{"Serial Number": "SN-1", "Make": "Dell", "Model": "Latitude 5440"}, rows[0])
		assert.Equal(t, "", rows[1]["Model"])
	})

	t.Run("blank lines dropped", func(t *testing.T) {
		data := workbookBytes(t, [][]string{
			{"Serial Number", "Make"},
			{"SN-1", "Dell"},
			{"", ""},
			{"SN-2", "Lenovo"},
		})

		rows, err := service.ParseWorkbook(data)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("header only workbook rejected", func(t *testing.T) {
		data := workbookBytes(t, [][]string{{"Serial Number", "Make"}})

		_, err := service.ParseWorkbook(data)
		assert.ErrorIs(t, err, service.ErrEmptyWorkbook)
	})

	t.Run("garbage input rejected", func(t *testing.T) {
		_, err := service.ParseWorkbook([]byte("not an xlsx file"))
		assert.Error(t, err)
	})
}

func TestImportService_Run_RequestMapping(t *testing.T) {
	t.Run("policy defaults to skip and actor carried", func(t *testing.T) {
		inner := new(MockImporterService)
		svc := service.NewImportService(inner)

		inner.On("Run", mock.Anything, mock.MatchedBy(func(req domain.ImportRequest) bool {
			return req.Source == domain.SourceTemplate &&
				req.Policy == domain.PolicySkip &&
				req.InitiatedBy == "alice"
		})).Return(&domain.ImportResult{Total: 1}, nil)

		result, err := svc.Run(context.Background(), "alice", &service.ImportRunRequest{
			Source: "template",
			Rows:   []map[string]string{{"Serial Number": "SN-1"}},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Total)
		inner.AssertExpectations(t)
	})

	t.Run("retire skip ids parsed", func(t *testing.T) {
		inner := new(MockImporterService)
		svc := service.NewImportService(inner)

		skipID := uuid.New()
		inner.On("Run", mock.Anything, mock.MatchedBy(func(req domain.ImportRequest) bool {
			return len(req.RetireSkipAssetIDs) == 1 && req.RetireSkipAssetIDs[0] == skipID
		})).Return(&domain.ImportResult{}, nil)

		_, err := svc.Run(context.Background(), "alice", &service.ImportRunRequest{
			Source:             "endpoint",
			Policy:             "overwrite",
			Rows:               []map[string]string{{"SerialNumber": "SN-1"}},
			RetireSkipAssetIDs: []string{skipID.String()},
		})
		require.NoError(t, err)
	})

	t.Run("bad retire skip id rejected", func(t *testing.T) {
		inner := new(MockImporterService)
		svc := service.NewImportService(inner)

		_, err := svc.Run(context.Background(), "alice", &service.ImportRunRequest{
			Source:             "endpoint",
			RetireSkipAssetIDs: []string{"not-a-uuid"},
		})
		assert.ErrorIs(t, err, service.ErrInvalidAssetIDRef)
		inner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
	})

	t.Run("unknown source rejected", func(t *testing.T) {
		inner := new(MockImporterService)
		svc := service.NewImportService(inner)

		_, err := svc.Run(context.Background(), "alice", &service.ImportRunRequest{Source: "mdm"})
		assert.ErrorIs(t, err, service.ErrUnknownSource)
	})
}

func TestImportService_Progress(t *testing.T) {
	inner := new(MockImporterService)
	svc := service.NewImportService(inner)

	inner.On("Progress", "known").Return(&domain.ProgressSnapshot{SessionID: "known", Done: true}, true)
	inner.On("Progress", "unknown").Return(nil, false)

	snap, err := svc.Progress("known")
	require.NoError(t, err)
	assert.True(t, snap.Done)

	_, err = svc.Progress("unknown")
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
}

func TestImportService_Start(t *testing.T) {
	inner := new(MockImporterService)
	svc := service.NewImportService(inner)

	inner.On("Start", mock.Anything, mock.AnythingOfType("domain.ImportRequest")).Return("session-42")

	resp, err := svc.Start(context.Background(), "alice", &service.ImportRunRequest{
		Source: "carrier",
		Rows:   []map[string]string{{"SerialNumber": "SN-1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "session-42", resp.SessionID)
}
