package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/skillnotes/skillnotes-backend/pkg/db/models"
)

type sqlConn interface {
	DB() *gorm.DB
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
	Ping(ctx context.Context) error
}

// SQL stores entries in the storage_entries table; multi-entry saves share a transaction.
type SQL struct {
	conn sqlConn
	now  func() time.Time
}

func NewSQL(conn sqlConn) *SQL {
	return &SQL{conn: conn, now: time.Now}
}

func (s *SQL) Load(ctx context.Context, key string) ([]byte, error) {
	var entry models.StorageEntry
	err := s.conn.DB().WithContext(ctx).
		Where(map[string]any{"key": key}).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry.Value, nil
}

func (s *SQL) Save(ctx context.Context, entries ...Entry) error {
	if err := validate(entries); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	now := s.now().UTC()
	rows := make([]models.StorageEntry, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, models.StorageEntry{Key: entry.Key, Value: entry.Value, UpdatedAt: now})
	}

	return s.conn.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&rows).Error
	})
}

func (s *SQL) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}
