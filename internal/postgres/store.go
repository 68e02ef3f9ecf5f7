package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/appetiteclub/pos/internal/kv"
	"github.com/aquamarinepk/aqm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

const defaultDSN = "host=localhost user=postgres password=postgres dbname=appetite_pos port=5432 sslmode=disable"

// collectionRow is one POS collection stored as an encoded payload.
type collectionRow struct {
	Name      string `gorm:"primaryKey;size:64"`
	Payload   []byte `gorm:"type:bytea"`
	Version   int64  `gorm:"not null;default:1"`
	UpdatedAt time.Time
}

func (collectionRow) TableName() string {
	return "kv_collections"
}

type Store struct {
	db     *gorm.DB
	logger aqm.Logger
	config *aqm.Config
}

func NewStore(config *aqm.Config, logger aqm.Logger) *Store {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Store{
		logger: logger,
		config: config,
	}
}

func (s *Store) Start(ctx context.Context) error {
	dsn := s.config.GetStringOrDef("db.postgres.dsn", defaultDSN)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("cannot connect to Postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("cannot access Postgres pool: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("cannot ping Postgres: %w", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&collectionRow{}); err != nil {
		return fmt.Errorf("cannot migrate kv_collections: %w", err)
	}

	s.db = db
	s.logger.Info("Connected to Postgres", "table", collectionRow{}.TableName())
	return nil
}

func (s *Store) Stop(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("cannot access Postgres pool: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("cannot close Postgres pool: %w", err)
	}
	s.logger.Info("Disconnected from Postgres")
	return nil
}

func (s *Store) Get(ctx context.Context, collection string) ([]byte, error) {
	row, err := s.find(ctx, collection)
	if err != nil || row == nil {
		return nil, err
	}
	return row.Payload, nil
}

func (s *Store) Set(ctx context.Context, collection string, data []byte) error {
	now := time.Now().UTC()
	row := collectionRow{Name: collection, Payload: data, Version: 1, UpdatedAt: now}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"payload":    data,
			"version":    gorm.Expr("kv_collections.version + 1"),
			"updated_at": now,
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("cannot set %s: %w", collection, err)
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, collection string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&collectionRow{}).Where("name = ?", collection).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("cannot check %s: %w", collection, err)
	}
	return count > 0, nil
}

// Update guards the write with the version it read and retries when the row
// moved underneath.
func (s *Store) Update(ctx context.Context, collection string, fn kv.UpdateFunc) error {
	return kv.RetryOnConflict(ctx, kv.MaxUpdateAttempts, func(ctx context.Context) error {
		return s.updateOnce(ctx, collection, fn)
	})
}

func (s *Store) updateOnce(ctx context.Context, collection string, fn kv.UpdateFunc) error {
	row, err := s.find(ctx, collection)
	if err != nil {
		return err
	}

	var current []byte
	if row != nil {
		current = row.Payload
	}

	next, err := fn(current)
	if errors.Is(err, kv.ErrNoChange) {
		return nil
	}
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	if row == nil {
		err := s.db.WithContext(ctx).Create(&collectionRow{Name: collection, Payload: next, Version: 1, UpdatedAt: now}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return kv.ErrConflict
		}
		if err != nil {
			return fmt.Errorf("cannot insert %s: %w", collection, err)
		}
		return nil
	}

	result := s.db.WithContext(ctx).Model(&collectionRow{}).
		Where("name = ? AND version = ?", collection, row.Version).
		Updates(map[string]interface{}{
			"payload":    next,
			"version":    row.Version + 1,
			"updated_at": now,
		})
	if result.Error != nil {
		return fmt.Errorf("cannot update %s: %w", collection, result.Error)
	}
	if result.RowsAffected == 0 {
		return kv.ErrConflict
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection string) error {
	if err := s.db.WithContext(ctx).Where("name = ?", collection).Delete(&collectionRow{}).Error; err != nil {
		return fmt.Errorf("cannot delete %s: %w", collection, err)
	}
	return nil
}

func (s *Store) find(ctx context.Context, collection string) (*collectionRow, error) {
	var row collectionRow
	err := s.db.WithContext(ctx).Where("name = ?", collection).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot find %s: %w", collection, err)
	}
	return &row, nil
}
