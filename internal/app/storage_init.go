package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
	"github.com/vladislavdragonenkov/storefront/internal/storage/postgres"
)

// runtimeStorage связывает выбранный драйвер хранилища с репозиториями
// и служебными операциями (ping для health-check, close при остановке).
type runtimeStorage struct {
	orders   domain.OrderRepository
	items    domain.ItemRepository
	users    domain.UserRepository
	checkout domain.CheckoutRepository

	ping  func(ctx context.Context) error
	close func() error
}

// initStorage создаёт хранилище под cfg.StorageDriver.
func initStorage(ctx context.Context, cfg Config, logger *log.Entry) (*runtimeStorage, error) {
	switch cfg.StorageDriver {
	case StorageDriverMemory:
		store := memory.NewStore()
		logger.Info("using in-memory storage")
		return &runtimeStorage{
			orders:   memory.NewOrderRepository(store),
			items:    memory.NewItemRepository(store),
			users:    memory.NewUserRepository(store),
			checkout: memory.NewCheckoutRepository(store),
			ping:     func(context.Context) error { return nil },
			close:    func() error { return nil },
		}, nil

	case StorageDriverPostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres driver requires a DSN")
		}

		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}

		if cfg.PostgresAutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("apply migrations: %w", err)
			}
			logger.Info("postgres migrations applied")
		}

		logger.Info("using postgres storage")
		return &runtimeStorage{
			orders:   postgres.NewOrderRepository(store),
			items:    postgres.NewItemRepository(store),
			users:    postgres.NewUserRepository(store),
			checkout: postgres.NewCheckoutRepository(store),
			ping:     store.Ping,
			close:    store.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.StorageDriver)
	}
}
