package importer

import (
	"context"
	"fmt"
	"sync"

	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer/domain"
	"gitlab.apk-group.net/itops/backend/asset-inventory/pkg/logger"
)

const defaultBatchSize = 25

// rowFunc processes one input row to its terminal outcome.
type rowFunc func(ctx context.Context, rowIndex int, row map[string]string) domain.RowOutcome

// Scheduler partitions the input into fixed-size batches. Batches run
// sequentially to bound database pressure; rows within a batch run
// concurrently since each row commits independently.
type Scheduler struct {
	batchSize int
}

func NewScheduler(batchSize int) *Scheduler {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Scheduler{batchSize: batchSize}
}

// Run processes every row and returns outcomes in input order. record is
// invoked once per finished row, from the scheduling goroutine, in batch
// completion order.
func (s *Scheduler) Run(ctx context.Context, rows []map[string]string, process rowFunc, record func(domain.RowOutcome)) []domain.RowOutcome {
	outcomes := make([]domain.RowOutcome, len(rows))

	for start := 0; start < len(rows); start += s.batchSize {
		end := start + s.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		logger.DebugContext(ctx, "Scheduler: processing batch rows %d..%d of %d", start, end-1, len(rows))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				defer func() {
					if rec := recover(); rec != nil {
						logger.ErrorContext(ctx, "Scheduler: row %d panicked: %v", idx, rec)
						outcomes[idx] = domain.RowOutcome{
							RowIndex:    idx,
							Kind:        domain.OutcomeFailed,
							Error:       fmt.Sprintf("row processing panicked: %v", rec),
							OriginalRow: rows[idx],
						}
					}
				}()
				outcomes[idx] = process(ctx, idx, rows[idx])
			}(i)
		}
		wg.Wait()

		if record != nil {
			for i := start; i < end; i++ {
				record(outcomes[i])
			}
		}
	}
	return outcomes
}
