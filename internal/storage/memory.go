package storage

import (
	"context"
	"sync"
)

// Memory keeps entries in process. Values are copied on the way in and out.
type Memory struct {
	mu      sync.Mutex
	data    map[string][]byte
	failErr error
	saves   int
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	value, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (m *Memory) Save(ctx context.Context, entries ...Entry) error {
	if err := validate(entries); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failErr != nil {
		return m.failErr
	}
	for _, entry := range entries {
		m.data[entry.Key] = append([]byte(nil), entry.Value...)
	}
	m.saves++
	return nil
}

func (m *Memory) Ping(ctx context.Context) error {
	return nil
}

// FailWith makes every following Save return err; nil restores normal writes.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	m.failErr = err
	m.mu.Unlock()
}

// Saves reports how many Save calls succeeded.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
