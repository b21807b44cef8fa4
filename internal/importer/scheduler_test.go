package importer_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer"
	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer/domain"
)

func schedulerRows(n int) []map[string]string {
	rows := make([]map[string]string, n)
	for i := range rows {
		rows[i] = map[string]string{"Serial": fmt.Sprintf("SN-%03d", i)}
	}
	return rows
}

func TestScheduler_OutcomesKeepInputOrder(t *testing.T) {
	scheduler := importer.NewScheduler(4)
	rows := schedulerRows(11)

	outcomes := scheduler.Run(context.Background(), rows,
		func(ctx context.Context, rowIndex int, row map[string]string) domain.RowOutcome {
			return domain.RowOutcome{RowIndex: rowIndex, Kind: domain.OutcomeSuccess}
		}, nil)

	require.Len(t, outcomes, 11)
	for i, o := range outcomes {
		assert.Equal(t, i, o.RowIndex)
		assert.Equal(t, domain.OutcomeSuccess, o.Kind)
	}
}

func TestScheduler_BatchesRunSequentially(t *testing.T) {
	scheduler := importer.NewScheduler(3)
	rows := schedulerRows(9)

	var inFlight, maxInFlight int32
	scheduler.Run(context.Background(), rows,
		func(ctx context.Context, rowIndex int, row map[string]string) domain.RowOutcome {
			cur := atomic.AddInt32(&inFlight, 1)
			for {
				observed := atomic.LoadInt32(&maxInFlight)
				if cur <= observed || atomic.CompareAndSwapInt32(&maxInFlight, observed, cur) {
					break
				}
			}
			atomic.AddInt32(&inFlight, -1)
			return domain.RowOutcome{RowIndex: rowIndex, Kind: domain.OutcomeSuccess}
		}, nil)

	assert.LessOrEqual(t, atomic.LoadInt32(&maxInFlight), int32(3), "concurrency must stay within one batch")
}

func TestScheduler_PanicBecomesFailedOutcome(t *testing.T) {
	scheduler := importer.NewScheduler(5)
	rows := schedulerRows(3)

	outcomes := scheduler.Run(context.Background(), rows,
		func(ctx context.Context, rowIndex int, row map[string]string) domain.RowOutcome {
			if rowIndex == 1 {
				panic("boom")
			}
			return domain.RowOutcome{RowIndex: rowIndex, Kind: domain.OutcomeSuccess}
		}, nil)

	require.Len(t, outcomes, 3)
	assert.Equal(t, domain.OutcomeSuccess, outcomes[0].Kind)
	assert.Equal(t, domain.OutcomeFailed, outcomes[1].Kind)
	assert.Contains(t, outcomes[1].Error, "boom")
	assert.Equal(t, rows[1], outcomes[1].OriginalRow)
	assert.Equal(t, domain.OutcomeSuccess, outcomes[2].Kind)
}

func TestScheduler_RecordCalledOncePerRow(t *testing.T) {
	scheduler := importer.NewScheduler(2)
	rows := schedulerRows(5)

	var recorded []int
	scheduler.Run(context.Background(), rows,
		func(ctx context.Context, rowIndex int, row map[string]string) domain.RowOutcome {
			return domain.RowOutcome{RowIndex: rowIndex, Kind: domain.OutcomeSuccess}
		},
		func(o domain.RowOutcome) {
			recorded = append(recorded, o.RowIndex)
		})

	assert.Equal(t, []int{0, 1, 2, 3, 4}, recorded, "record runs in input order from the scheduling goroutine")
}

func TestScheduler_DefaultBatchSize(t *testing.T) {
	scheduler := importer.NewScheduler(0)
	rows := schedulerRows(2)

	outcomes := scheduler.Run(context.Background(), rows,
		func(ctx context.Context, rowIndex int, row map[string]string) domain.RowOutcome {
			return domain.RowOutcome{RowIndex: rowIndex, Kind: domain.OutcomeSuccess}
		}, nil)
	assert.Len(t, outcomes, 2)
}

func TestScheduler_NoRows(t *testing.T) {
	scheduler := importer.NewScheduler(10)
	outcomes := scheduler.Run(context.Background(), nil,
		func(ctx context.Context, rowIndex int, row map[string]string) domain.RowOutcome {
			t.Fatal("process must not run without rows")
			return domain.RowOutcome{}
		}, nil)
	assert.Empty(t, outcomes)
}
