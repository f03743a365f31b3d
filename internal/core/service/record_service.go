package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/production-records/internal/core/domain"
	"github.com/rl1809/production-records/internal/port"
)

// RecentLimit caps every listing of the record collection.
const RecentLimit = 50

type RecordService struct {
	repo    port.RecordRepository
	timeout time.Duration
	now     func() time.Time
	newID   func() string
}

func NewRecordService(repo port.RecordRepository, timeout time.Duration) *RecordService {
	return &RecordService{
		repo:    repo,
		timeout: timeout,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

// WithClock replaces the clock used to stamp new records.
func (s *RecordService) WithClock(now func() time.Time) *RecordService {
	s.now = now
	return s
}

// AddRecord validates input, stamps identity, ID and creation time, and
// appends the record to the store.
func (s *RecordService) AddRecord(ctx context.Context, user string, in domain.RecordInput) (domain.Record, error) {
	if err := in.Validate(); err != nil {
		return domain.Record{}, err
	}

	record := domain.Record{
		ID:        s.newID(),
		User:      user,
		PartName:  in.PartName,
		Quantity:  in.Quantity,
		Shift:     in.Shift,
		Operator:  in.Operator,
		Machine:   in.Machine,
		CreatedAt: s.now(),
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.repo.AppendRecord(ctx, record); err != nil {
		return domain.Record{}, fmt.Errorf("append record: %w", err)
	}

	return record, nil
}

func (s *RecordService) RecentRecords(ctx context.Context) ([]domain.Record, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	records, err := s.repo.ListRecentRecords(ctx, RecentLimit)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	if records == nil {
		records = []domain.Record{}
	}

	return records, nil
}

// Summary aggregates the recent window. A non-empty partName restricts it
// to records of that part.
func (s *RecordService) Summary(ctx context.Context, partName string) (domain.Summary, error) {
	records, err := s.RecentRecords(ctx)
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summarize(records, partName), nil
}

func (s *RecordService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
