package storage

import (
	"context"

	pkgredis "github.com/skillnotes/skillnotes-backend/pkg/redis"
)

type redisConn interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetMany(ctx context.Context, values map[string][]byte) error
	Key(name string) string
	Ping(ctx context.Context) error
}

// Redis stores each entry under a namespaced key; multi-entry saves go out as one MSET.
type Redis struct {
	conn redisConn
}

func NewRedis(conn redisConn) *Redis {
	return &Redis{conn: conn}
}

func (r *Redis) Load(ctx context.Context, key string) ([]byte, error) {
	value, err := r.conn.Get(ctx, r.conn.Key(key))
	if pkgredis.IsNil(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (r *Redis) Save(ctx context.Context, entries ...Entry) error {
	if err := validate(entries); err != nil {
		return err
	}
	values := make(map[string][]byte, len(entries))
	for _, entry := range entries {
		values[r.conn.Key(entry.Key)] = entry.Value
	}
	return r.conn.SetMany(ctx, values)
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.conn.Ping(ctx)
}
