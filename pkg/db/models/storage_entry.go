package models

import "time"

// StorageEntry is one durable key holding a serialized collection.
type StorageEntry struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     []byte    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (StorageEntry) TableName() string { return "storage_entries" }
