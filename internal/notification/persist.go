package notification

import (
	"context"
	"fmt"
	"time"

	"acc-notifications/internal/common/logger"
	"acc-notifications/internal/common/metrics"
	"acc-notifications/internal/repository"
)

// DefaultChunkSize bounds the number of users written by one bulk upsert.
const DefaultChunkSize = 50000

type PersistRequest struct {
	Type             Type
	UserIDs          []int64
	ReferenceID      int64
	ReferenceTypeID  int
	Description      string
	MergeDescription string
	ChildReferenceID int64
}

type PersistReport struct {
	Chunks int
	Rows   int64
	Merged int64
	// MergedUsers already held an unread row and now carry the merge description.
	MergedUsers RecipientSet
}

// Persister writes per-user notification rows in bounded chunks, one transaction per chunk.
type Persister struct {
	store     NotificationStore
	chunkSize int
	logger    logger.Logger
}

func NewPersister(store NotificationStore, chunkSize int, log logger.Logger) *Persister {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Persister{store: store, chunkSize: chunkSize, logger: log}
}

// Persist runs the chunks sequentially. A failed chunk aborts the rest; chunks already
// committed stay committed.
func (p *Persister) Persist(ctx context.Context, req PersistRequest) (PersistReport, error) {
	var (
		report PersistReport
		merged []int64
	)
	for start := 0; start < len(req.UserIDs); start += p.chunkSize {
		end := start + p.chunkSize
		if end > len(req.UserIDs) {
			end = len(req.UserIDs)
		}

		rows, unread, err := p.persistChunk(ctx, req, req.UserIDs[start:end])
		if err != nil {
			return report, fmt.Errorf("persist chunk %d: %w", report.Chunks+1, err)
		}
		report.Chunks++
		report.Rows += rows
		report.Merged += int64(len(unread))
		merged = append(merged, unread...)
	}
	report.MergedUsers = NewRecipientSet(merged...)
	return report, nil
}

// persistChunk returns the rows written and the users whose unread row took the merge text.
func (p *Persister) persistChunk(ctx context.Context, req PersistRequest, chunk []int64) (rows int64, mergedUsers []int64, err error) {
	started := time.Now()
	ids := NewRecipientSet(chunk...)
	if ids.Len() == 0 {
		return 0, nil, nil
	}

	var merged int64

	err = p.store.InTx(ctx, func(tx repository.NotificationTx) error {
		fresh := ids
		if req.MergeDescription != "" {
			unread, err := tx.UnreadUserIDs(ctx, ids.IDs(), req.ReferenceID, req.ReferenceTypeID)
			if err != nil {
				return err
			}
			if len(unread) > 0 {
				merged, err = tx.UpsertNotifications(ctx, repository.Upsert{
					UserIDs:          unread,
					ReferenceID:      req.ReferenceID,
					ReferenceTypeID:  req.ReferenceTypeID,
					Description:      req.MergeDescription,
					ChildReferenceID: req.ChildReferenceID,
				})
				if err != nil {
					return err
				}
				fresh = ids.Without(unread...)
				mergedUsers = unread
			}
		}

		if fresh.Len() == 0 {
			return nil
		}
		n, err := tx.UpsertNotifications(ctx, repository.Upsert{
			UserIDs:          fresh.IDs(),
			ReferenceID:      req.ReferenceID,
			ReferenceTypeID:  req.ReferenceTypeID,
			Description:      req.Description,
			ChildReferenceID: req.ChildReferenceID,
		})
		rows = n
		return err
	})
	if err != nil {
		return 0, nil, err
	}

	metrics.NotificationChunkDuration.Observe(time.Since(started).Seconds())
	metrics.NotificationRowsWritten.WithLabelValues(string(req.Type), "singular").Add(float64(rows))
	metrics.NotificationRowsWritten.WithLabelValues(string(req.Type), "merged").Add(float64(merged))

	p.logger.Debug("Notification chunk persisted", map[string]interface{}{
		"type":        req.Type,
		"referenceId": req.ReferenceID,
		"users":       ids.Len(),
		"rows":        rows,
		"merged":      merged,
		"durationMs":  time.Since(started).Milliseconds(),
	})
	return rows + merged, mergedUsers, nil
}
