package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rl1809/production-records/internal/core/domain"
)

type MySQLAdapter struct {
	db    *sql.DB
	table string
}

func NewMySQLAdapter(db *sql.DB, table string) (*MySQLAdapter, error) {
	if !validIdentifier(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &MySQLAdapter{db: db, table: table}, nil
}

// EnsureSchema creates the record table when it does not exist yet.
func (m *MySQLAdapter) EnsureSchema(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id         VARCHAR(36)  NOT NULL PRIMARY KEY,
			user       VARCHAR(255) NOT NULL,
			parca_ad   VARCHAR(255) NOT NULL,
			adet       INT          NOT NULL,
			vardiya    VARCHAR(64)  NOT NULL,
			operator   VARCHAR(255) NOT NULL,
			makine     VARCHAR(255) NOT NULL,
			timestamp  DATETIME(6)  NOT NULL,
			INDEX idx_%s_timestamp (timestamp)
		)`, m.table, m.table))
	if err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) AppendRecord(ctx context.Context, record domain.Record) error {
	_, err := m.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, user, parca_ad, adet, vardiya, operator, makine, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, m.table),
		record.ID, record.User, record.PartName, record.Quantity,
		record.Shift, record.Operator, record.Machine, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) ListRecentRecords(ctx context.Context, limit int) ([]domain.Record, error) {
	rows, err := m.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, user, parca_ad, adet, vardiya, operator, makine, timestamp
		FROM %s ORDER BY timestamp DESC LIMIT ?`, m.table), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := make([]domain.Record, 0, limit)
	for rows.Next() {
		var r domain.Record
		if err := rows.Scan(&r.ID, &r.User, &r.PartName, &r.Quantity,
			&r.Shift, &r.Operator, &r.Machine, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		r.CreatedAt = r.CreatedAt.UTC()
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return records, nil
}

func (m *MySQLAdapter) Close() error {
	return m.db.Close()
}
