package db

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/stylepath-backend/internal/platform/logger"
)

type Config struct {
	Driver string // postgres|sqlite

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresName     string

	SQLitePath string

	MaxOpenConns int
	MaxIdleConns int
	ConnMaxIdle  time.Duration
	SlowQuery    time.Duration
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresName,
	)
}

type Service struct {
	db     *gorm.DB
	driver string
	log    *logger.Logger
}

func NewService(cfg Config, logg *logger.Logger) (*Service, error) {
	serviceLog := logg.With("service", "DBService")

	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		driver = "postgres"
	}

	var dialector gorm.Dialector
	switch driver {
	case "postgres", "postgresql":
		driver = "postgres"
		dialector = postgres.Open(cfg.PostgresDSN())
	case "sqlite":
		path := strings.TrimSpace(cfg.SQLitePath)
		if path == "" {
			path = "file:stylepath.db?_foreign_keys=1"
		}
		dialector = sqlite.Open(path)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}

	slow := cfg.SlowQuery
	if slow <= 0 {
		slow = time.Second
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logg.Gorm(slow, gormLogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql.DB: %w", err)
	}
	if driver == "sqlite" {
		// sqlite allows one writer at a time.
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
	}
	if cfg.ConnMaxIdle > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdle)
	}

	serviceLog.Info("Database connected", "driver", driver)
	return &Service{db: db, driver: driver, log: serviceLog}, nil
}

func (s *Service) DB() *gorm.DB { return s.db }

func (s *Service) Driver() string { return s.driver }

func (s *Service) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
