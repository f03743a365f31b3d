package storage

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"

	"github.com/rl1809/production-records/internal/port"
)

func getMySQLDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/production?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		t.Skipf("MySQL not available: %v", err)
	}

	return db
}

func TestMySQLAdapter_Contract(t *testing.T) {
	runRepositoryContract(t, func(t *testing.T) port.RecordRepository {
		db := getMySQLDB(t)
		table := testCollection()

		adapter, err := NewMySQLAdapter(db, table)
		if err != nil {
			t.Fatalf("new adapter: %v", err)
		}
		if err := adapter.EnsureSchema(context.Background()); err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		t.Cleanup(func() {
			db.ExecContext(context.Background(), "DROP TABLE IF EXISTS "+table)
			db.Close()
		})
		return adapter
	})
}

func TestNewMySQLAdapter_RejectsBadTableName(t *testing.T) {
	for _, name := range []string{"", "records; DROP TABLE x", "1abc", "with-dash"} {
		if _, err := NewMySQLAdapter(nil, name); err == nil {
			t.Errorf("expected error for table name %q", name)
		}
	}
}
