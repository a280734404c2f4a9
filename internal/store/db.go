package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database wraps the GORM DB handle over the record log. Writes are
// serialized through the mutex; reads may run concurrently and may
// race with an in-flight append (eventual visibility).
type Database struct {
	gorm *gorm.DB
	mu   sync.Mutex
}

// Open initializes the SQLite-backed record log at the provided path.
func Open(path string, silent bool) (*Database, error) {
	cfg := &gorm.Config{}
	if silent {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&FinancialRecord{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		logrus.WithError(err).Warn("enable WAL mode")
	}
	if err := db.Exec("PRAGMA synchronous=NORMAL").Error; err != nil {
		logrus.WithError(err).Warn("set synchronous pragma")
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_financial_records_created_at ON financial_records(created_at)").Error; err != nil {
		return nil, fmt.Errorf("apply indexes: %w", err)
	}
	return &Database{gorm: db}, nil
}

// GORM exposes the raw gorm.DB handle.
func (d *Database) GORM() *gorm.DB {
	return d.gorm
}

// Close closes the underlying database connection.
func (d *Database) Close() error {
	if d == nil {
		return nil
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AppendRecord durably persists a record, filling its identifier and
// creation timestamp. An error means the record was not stored.
func (d *Database) AppendRecord(record *FinancialRecord) error {
	if record == nil {
		return errors.New("record is nil")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Create(record).Error
}

// ListRecords returns the full history newest first. The identifier
// tiebreak keeps the order total when timestamps collide.
func (d *Database) ListRecords() ([]FinancialRecord, error) {
	var rows []FinancialRecord
	if err := d.gorm.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountRecords returns the number of persisted records.
func (d *Database) CountRecords() (int64, error) {
	var count int64
	if err := d.gorm.Model(&FinancialRecord{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
