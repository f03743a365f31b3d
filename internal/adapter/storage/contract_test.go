package storage

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/production-records/internal/core/domain"
	"github.com/rl1809/production-records/internal/port"
)

// testCollection returns a collection name unique to this run that is also a valid SQL identifier.
func testCollection() string {
	return "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

func makeRecord(i int, at time.Time) domain.Record {
	return domain.Record{
		ID:        uuid.NewString(),
		User:      fmt.Sprintf("user-%d", i%3),
		PartName:  fmt.Sprintf("part-%d", i),
		Quantity:  i + 1,
		Shift:     []string{"A", "B", "C"}[i%3],
		Operator:  "operator",
		Machine:   "cnc-1",
		CreatedAt: at.UTC(),
	}
}

// runRepositoryContract checks the behavior every RecordRepository adapter shares.
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) port.RecordRepository) {
	t.Run("empty collection", func(t *testing.T) {
		repo := newRepo(t)

		records, err := repo.ListRecentRecords(context.Background(), 50)
		require.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	})

	t.Run("round trip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		want := makeRecord(7, time.Now().Truncate(time.Millisecond))
		require.NoError(t, repo.AppendRecord(ctx, want))

		records, err := repo.ListRecentRecords(ctx, 50)
		require.NoError(t, err)
		require.Len(t, records, 1)

		got := records[0]
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.User, got.User)
		assert.Equal(t, want.PartName, got.PartName)
		assert.Equal(t, want.Quantity, got.Quantity)
		assert.Equal(t, want.Shift, got.Shift)
		assert.Equal(t, want.Operator, got.Operator)
		assert.Equal(t, want.Machine, got.Machine)
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "timestamp %s != %s", got.CreatedAt, want.CreatedAt)
	})

	t.Run("newest first and capped", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		base := time.Now().Add(-time.Hour).Truncate(time.Millisecond)
		var appended []domain.Record
		for i := 0; i < 51; i++ {
			rec := makeRecord(i, base.Add(time.Duration(i)*time.Second))
			require.NoError(t, repo.AppendRecord(ctx, rec))
			appended = append(appended, rec)
		}

		records, err := repo.ListRecentRecords(ctx, 50)
		require.NoError(t, err)
		require.Len(t, records, 50)

		for i, rec := range records {
			assert.Equal(t, appended[50-i].ID, rec.ID, "position %d", i)
		}
	})

	t.Run("fewer than limit", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		base := time.Now().Truncate(time.Millisecond)
		for i := 0; i < 5; i++ {
			require.NoError(t, repo.AppendRecord(ctx, makeRecord(i, base.Add(time.Duration(i)*time.Second))))
		}

		records, err := repo.ListRecentRecords(ctx, 50)
		require.NoError(t, err)
		require.Len(t, records, 5)
		for i := 1; i < len(records); i++ {
			assert.True(t, records[i-1].CreatedAt.After(records[i].CreatedAt))
		}
	})
}
