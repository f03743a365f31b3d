package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/rl1809/production-records/internal/core/domain"
)

type firestoreRecord struct {
	User      string    `firestore:"user"`
	PartName  string    `firestore:"parca_ad"`
	Quantity  int       `firestore:"adet"`
	Shift     string    `firestore:"vardiya"`
	Operator  string    `firestore:"operator"`
	Machine   string    `firestore:"makine"`
	CreatedAt time.Time `firestore:"timestamp"`
}

type FirestoreAdapter struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreClient connects with a service account key file. An empty
// projectID is read from the credentials. With FIRESTORE_EMULATOR_HOST set
// the client library talks to the emulator instead.
func NewFirestoreClient(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect firestore: %w", err)
	}
	return client, nil
}

func NewFirestoreAdapter(client *firestore.Client, collection string) *FirestoreAdapter {
	return &FirestoreAdapter{client: client, collection: collection}
}

func (f *FirestoreAdapter) AppendRecord(ctx context.Context, record domain.Record) error {
	doc := firestoreRecord{
		User:      record.User,
		PartName:  record.PartName,
		Quantity:  record.Quantity,
		Shift:     record.Shift,
		Operator:  record.Operator,
		Machine:   record.Machine,
		CreatedAt: record.CreatedAt,
	}

	if _, err := f.client.Collection(f.collection).Doc(record.ID).Create(ctx, doc); err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

func (f *FirestoreAdapter) ListRecentRecords(ctx context.Context, limit int) ([]domain.Record, error) {
	iter := f.client.Collection(f.collection).
		OrderBy("timestamp", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	records := make([]domain.Record, 0, limit)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("query documents: %w", err)
		}

		var doc firestoreRecord
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", snap.Ref.ID, err)
		}

		records = append(records, domain.Record{
			ID:        snap.Ref.ID,
			User:      doc.User,
			PartName:  doc.PartName,
			Quantity:  doc.Quantity,
			Shift:     doc.Shift,
			Operator:  doc.Operator,
			Machine:   doc.Machine,
			CreatedAt: doc.CreatedAt.UTC(),
		})
	}

	return records, nil
}

func (f *FirestoreAdapter) Close() error {
	return f.client.Close()
}
