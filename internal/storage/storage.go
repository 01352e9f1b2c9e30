// Package storage is the durable key-value port behind the cart store. Each key
// holds one serialized collection; a Save call with several entries lands all of
// them or none.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when a key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// Entry is one key and its serialized value.
type Entry struct {
	Key   string
	Value []byte
}

// Store persists independently readable keys.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, entries ...Entry) error
}

// Pinger is implemented by backends that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

func validate(entries []Entry) error {
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if entry.Key == "" {
			return errors.New("storage: empty key")
		}
		if _, dup := seen[entry.Key]; dup {
			return errors.New("storage: duplicate key " + entry.Key)
		}
		seen[entry.Key] = struct{}{}
	}
	return nil
}
