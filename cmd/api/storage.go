package main

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/multierr"

	"github.com/skillnotes/skillnotes-backend/internal/storage"
	"github.com/skillnotes/skillnotes-backend/pkg/config"
	"github.com/skillnotes/skillnotes-backend/pkg/db"
	"github.com/skillnotes/skillnotes-backend/pkg/enums"
	"github.com/skillnotes/skillnotes-backend/pkg/logger"
	"github.com/skillnotes/skillnotes-backend/pkg/migrate"
	pkgredis "github.com/skillnotes/skillnotes-backend/pkg/redis"
)

type pingableStore interface {
	storage.Store
	storage.Pinger
}

type storageBackend struct {
	store   pingableStore
	closers []io.Closer
}

func (b *storageBackend) Close() error {
	var err error
	for i := len(b.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, b.closers[i].Close())
	}
	return err
}

func openStorage(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*storageBackend, error) {
	driver := cfg.Storage.DriverKind()
	ctx = logg.WithField(ctx, "driver", driver.String())

	switch {
	case driver == enums.StorageDriverMemory:
		logg.Warn(ctx, "memory storage selected, cart will not survive restarts")
		return &storageBackend{store: storage.NewMemory()}, nil

	case driver.IsSQL():
		client, err := db.New(ctx, cfg.DB, driver, logg)
		if err != nil {
			return nil, err
		}
		if err := migrate.MaybeRun(ctx, cfg, logg, client); err != nil {
			return nil, multierr.Append(err, client.Close())
		}
		return &storageBackend{store: storage.NewSQL(client), closers: []io.Closer{client}}, nil

	case driver == enums.StorageDriverRedis:
		client, err := pkgredis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, err
		}
		return &storageBackend{store: storage.NewRedis(client), closers: []io.Closer{client}}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
}
