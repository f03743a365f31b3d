package port

import (
	"context"

	"github.com/rl1809/production-records/internal/core/domain"
)

type RecordRepository interface {
	// AppendRecord writes a new document into the record collection
	AppendRecord(ctx context.Context, record domain.Record) error

	// ListRecentRecords returns at most limit records, newest first
	ListRecentRecords(ctx context.Context, limit int) ([]domain.Record, error)

	// Close releases the underlying client
	Close() error
}
