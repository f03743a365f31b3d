package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rl1809/production-records/internal/core/domain"
)

type mongoRecord struct {
	ID        string    `bson:"_id"`
	User      string    `bson:"user"`
	PartName  string    `bson:"parca_ad"`
	Quantity  int       `bson:"adet"`
	Shift     string    `bson:"vardiya"`
	Operator  string    `bson:"operator"`
	Machine   string    `bson:"makine"`
	CreatedAt time.Time `bson:"timestamp"`
}

type MongoAdapter struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewMongoAdapter(client *mongo.Client, database, collection string) *MongoAdapter {
	return &MongoAdapter{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}
}

// EnsureIndexes creates the descending timestamp index used by ListRecentRecords.
func (m *MongoAdapter) EnsureIndexes(ctx context.Context) error {
	_, err := m.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "timestamp", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create timestamp index: %w", err)
	}
	return nil
}

func (m *MongoAdapter) AppendRecord(ctx context.Context, record domain.Record) error {
	_, err := m.coll.InsertOne(ctx, mongoRecord{
		ID:        record.ID,
		User:      record.User,
		PartName:  record.PartName,
		Quantity:  record.Quantity,
		Shift:     record.Shift,
		Operator:  record.Operator,
		Machine:   record.Machine,
		CreatedAt: record.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

func (m *MongoAdapter) ListRecentRecords(ctx context.Context, limit int) ([]domain.Record, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := m.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find records: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoRecord
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	records := make([]domain.Record, 0, len(docs))
	for _, d := range docs {
		records = append(records, domain.Record{
			ID:        d.ID,
			User:      d.User,
			PartName:  d.PartName,
			Quantity:  d.Quantity,
			Shift:     d.Shift,
			Operator:  d.Operator,
			Machine:   d.Machine,
			CreatedAt: d.CreatedAt.UTC(),
		})
	}

	return records, nil
}

func (m *MongoAdapter) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
