package storage

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rl1809/production-records/internal/core/domain"
)

// recordRow is the gorm model of a record; the table name is chosen per adapter.
type recordRow struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	User      string    `gorm:"column:user;not null"`
	PartName  string    `gorm:"column:parca_ad;not null"`
	Quantity  int       `gorm:"column:adet;not null"`
	Shift     string    `gorm:"column:vardiya;not null"`
	Operator  string    `gorm:"column:operator;not null"`
	Machine   string    `gorm:"column:makine;not null"`
	CreatedAt time.Time `gorm:"column:timestamp;not null;index:,sort:desc"`
}

type PostgresAdapter struct {
	db    *gorm.DB
	table string
}

func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

func NewPostgresAdapter(db *gorm.DB, table string) (*PostgresAdapter, error) {
	if !validIdentifier(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &PostgresAdapter{db: db, table: table}, nil
}

func (p *PostgresAdapter) Migrate(ctx context.Context) error {
	if err := p.db.WithContext(ctx).Table(p.table).AutoMigrate(&recordRow{}); err != nil {
		return fmt.Errorf("migrate %s: %w", p.table, err)
	}
	return nil
}

func (p *PostgresAdapter) AppendRecord(ctx context.Context, record domain.Record) error {
	row := recordRow{
		ID:        record.ID,
		User:      record.User,
		PartName:  record.PartName,
		Quantity:  record.Quantity,
		Shift:     record.Shift,
		Operator:  record.Operator,
		Machine:   record.Machine,
		CreatedAt: record.CreatedAt,
	}

	if err := p.db.WithContext(ctx).Table(p.table).Create(&row).Error; err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

func (p *PostgresAdapter) ListRecentRecords(ctx context.Context, limit int) ([]domain.Record, error) {
	var rows []recordRow
	err := p.db.WithContext(ctx).
		Table(p.table).
		Order("timestamp DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}

	records := make([]domain.Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, domain.Record{
			ID:        r.ID,
			User:      r.User,
			PartName:  r.PartName,
			Quantity:  r.Quantity,
			Shift:     r.Shift,
			Operator:  r.Operator,
			Machine:   r.Machine,
			CreatedAt: r.CreatedAt.UTC(),
		})
	}

	return records, nil
}

func (p *PostgresAdapter) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
