package enums

import (
	"fmt"
	"strings"
)

// StorageDriver selects the durable backend for cart and purchase entries.
type StorageDriver string

const (
	StorageDriverMemory   StorageDriver = "memory"
	StorageDriverSQLite   StorageDriver = "sqlite"
	StorageDriverPostgres StorageDriver = "postgres"
	StorageDriverRedis    StorageDriver = "redis"
)

var validStorageDrivers = []StorageDriver{
	StorageDriverMemory,
	StorageDriverSQLite,
	StorageDriverPostgres,
	StorageDriverRedis,
}

// String implements fmt.Stringer.
func (s StorageDriver) String() string {
	return string(s)
}

// IsValid reports whether the driver is recognized.
func (s StorageDriver) IsValid() bool {
	for _, candidate := range validStorageDrivers {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsSQL reports whether the driver is served by the GORM backend.
func (s StorageDriver) IsSQL() bool {
	return s == StorageDriverSQLite || s == StorageDriverPostgres
}

// ParseStorageDriver converts raw input into a StorageDriver.
func ParseStorageDriver(value string) (StorageDriver, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validStorageDrivers {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid storage driver %q", value)
}
