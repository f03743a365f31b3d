package storage

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/rl1809/production-records/internal/core/domain"
)

// BadgerAdapter keeps records in an embedded badger database. Keys are
// <collection>/<big-endian unix nanos>/<id>, so a reverse prefix scan
// yields the newest records first.
type BadgerAdapter struct {
	db     *badger.DB
	prefix []byte
}

// OpenBadger opens the database at path, or an in-memory one when path is empty.
func OpenBadger(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return db, nil
}

func NewBadgerAdapter(db *badger.DB, collection string) *BadgerAdapter {
	return &BadgerAdapter{db: db, prefix: []byte(collection + "/")}
}

func (b *BadgerAdapter) recordKey(record domain.Record) []byte {
	key := make([]byte, 0, len(b.prefix)+9+len(record.ID))
	key = append(key, b.prefix...)
	key = binary.BigEndian.AppendUint64(key, uint64(record.CreatedAt.UnixNano()))
	key = append(key, '/')
	return append(key, record.ID...)
}

func (b *BadgerAdapter) AppendRecord(ctx context.Context, record domain.Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(b.recordKey(record), payload)
	})
	if err != nil {
		return fmt.Errorf("store record: %w", err)
	}
	return nil
}

func (b *BadgerAdapter) ListRecentRecords(ctx context.Context, limit int) ([]domain.Record, error) {
	records := make([]domain.Record, 0, limit)

	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = b.prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		// 0xff sorts after every timestamp byte, so the seek lands on the newest key.
		seek := append(append([]byte{}, b.prefix...), 0xff)
		for it.Seek(seek); it.ValidForPrefix(b.prefix) && len(records) < limit; it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var rec domain.Record
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return fmt.Errorf("decode record: %w", err)
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	return records, nil
}

func (b *BadgerAdapter) Close() error {
	return b.db.Close()
}
