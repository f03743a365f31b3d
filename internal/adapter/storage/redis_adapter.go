package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/production-records/internal/core/domain"
)

const (
	recordKeyPrefix = "record:"
	indexKeyPrefix  = "records:"
)

// Reads the newest ids from the sorted-set index and their documents in one round trip.
var listRecentScript = redis.NewScript(`
local index = KEYS[1]
local limit = tonumber(ARGV[1])
local prefix = ARGV[2]

local ids = redis.call('ZREVRANGE', index, 0, limit - 1)
local out = {}
for _, id in ipairs(ids) do
	local doc = redis.call('GET', prefix .. id)
	if doc then
		table.insert(out, doc)
	end
end

return out
`)

type RedisAdapter struct {
	client     *redis.Client
	collection string
}

func NewRedisAdapter(client *redis.Client, collection string) *RedisAdapter {
	return &RedisAdapter{client: client, collection: collection}
}

func (r *RedisAdapter) indexKey() string {
	return indexKeyPrefix + r.collection
}

func (r *RedisAdapter) docPrefix() string {
	return recordKeyPrefix + r.collection + ":"
}

func (r *RedisAdapter) AppendRecord(ctx context.Context, record domain.Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.docPrefix()+record.ID, payload, 0)
		pipe.ZAdd(ctx, r.indexKey(), redis.Z{
			Score:  float64(record.CreatedAt.UnixMicro()),
			Member: record.ID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("store record: %w", err)
	}

	return nil
}

func (r *RedisAdapter) ListRecentRecords(ctx context.Context, limit int) ([]domain.Record, error) {
	docs, err := listRecentScript.Run(ctx, r.client, []string{r.indexKey()}, limit, r.docPrefix()).StringSlice()
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	records := make([]domain.Record, 0, len(docs))
	for _, doc := range docs {
		var rec domain.Record
		if err := json.Unmarshal([]byte(doc), &rec); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func (r *RedisAdapter) Close() error {
	return r.client.Close()
}
