package main

import (
	"context"
	"fmt"

	"helpnow/internal/db"
	"helpnow/internal/memstore"
	"helpnow/internal/mongostore"
	"helpnow/internal/store"
	"helpnow/internal/volunteer"
	"helpnow/pkg/types"

	"github.com/sirupsen/logrus"
)

type stores struct {
	needs    volunteer.NeedRepository
	requests volunteer.RequestRepository
	close    func()
}

func openStores(ctx context.Context, config *types.Config, logger logrus.FieldLogger) (*stores, error) {
	switch config.DatabaseDriver {
	case driverMongo:
		client, database, err := db.ConnectMongo(ctx, config)
		if err != nil {
			return nil, err
		}

		if err := mongostore.EnsureIndexes(ctx, database); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}

		logger.WithField("database", config.DatabaseName).Info("connected to mongodb")

		return &stores{
			needs:    mongostore.NewNeedRepository(database),
			requests: mongostore.NewRequestRepository(database),
			close: func() {
				if err := client.Disconnect(context.Background()); err != nil {
					logger.WithError(err).Error("failed to disconnect mongodb")
				}
			},
		}, nil

	case driverPostgres:
		pool, err := db.Connect(ctx, config)
		if err != nil {
			return nil, err
		}

		if err := store.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}

		logger.Info("connected to postgres")

		return &stores{
			needs:    store.NewNeedRepository(pool),
			requests: store.NewRequestRepository(pool),
			close:    pool.Close,
		}, nil

	case driverMemory:
		logger.Warn("using in-memory storage; data is lost on exit")

		mem := memstore.New()
		return &stores{needs: mem, requests: mem, close: func() {}}, nil
	}

	return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", config.DatabaseDriver)
}
