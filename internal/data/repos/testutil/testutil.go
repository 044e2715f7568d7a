package testutil

import (
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/stylepath-backend/internal/data/db"
	"github.com/yungbote/stylepath-backend/internal/platform/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var (
	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB returns a migrated database private to the calling test. It is an in-memory
// sqlite database unless TEST_POSTGRES_DSN is set.
//
// The sqlite pool holds one connection: code holding a transaction must issue
// every statement through that transaction.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	cfg := &gorm.Config{Logger: gormLogger.Default.LogMode(gormLogger.Silent)}

	var (
		conn *gorm.DB
		err  error
	)
	if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
		conn, err = gorm.Open(postgres.Open(dsn), cfg)
	} else {
		name := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
		conn, err = gorm.Open(sqlite.Open(name), cfg)
	}
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	if conn.Dialector.Name() == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	}
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrateAll(conn); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	return conn
}

// Tx opens a transaction that is rolled back when the test ends.
func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}
