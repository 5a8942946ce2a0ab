// Package app assembles the process-level dependencies shared by the
// server and seed commands.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/brainiacs/portal/internal/config"
	"github.com/brainiacs/portal/internal/database"
	"github.com/brainiacs/portal/internal/repository"
)

// ErrEphemeralStore is returned for commands that must persist data when the
// in-memory store is selected.
var ErrEphemeralStore = errors.New("the memory store does not persist; choose STORE_DRIVER=mongo or mysql")

// RequirePersistentStore rejects the memory driver.
func RequirePersistentStore(cfg config.Config) error {
	if cfg.StoreDriver == config.DriverMemory {
		return ErrEphemeralStore
	}
	return nil
}

// OpenStore connects the credential store selected by cfg.StoreDriver and
// prepares its indexes or schema.  The returned close function releases the
// connection.
func OpenStore(ctx context.Context, cfg config.Config, log *logrus.Logger) (repository.UserStore, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := database.OpenMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewMongoUserRepo(client.Database(cfg.MongoDB).Collection(repository.UsersCollection))
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("ensure indexes: %w", err)
		}
		log.WithField("db", cfg.MongoDB).Info("using mongo credential store")
		return repo, func() { _ = client.Disconnect(context.Background()) }, nil

	case config.DriverMySQL:
		db, err := database.OpenMySQL(ctx, cfg.MySQL)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewMySQLUserRepo(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		log.WithField("db", cfg.MySQL.Name).Info("using mysql credential store")
		return repo, func() { _ = db.Close() }, nil

	case config.DriverMemory:
		log.Warn("using in-memory credential store; data is lost on restart")
		return repository.NewMemoryUserRepo(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
