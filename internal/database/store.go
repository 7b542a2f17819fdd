package database

import (
	"inventory/internal/config"
	"inventory/internal/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store holds the repositories built over the configured driver. With the
// memory driver DB and Users are nil.
type Store struct {
	DB       *gorm.DB
	Products repositories.ProductRepository
	Users    repositories.UserRepository
}

// OpenStore opens the configured database and wires the repositories over it.
func OpenStore(cfg *config.Config, log *zap.Logger) (*Store, error) {
	if !cfg.UsesSQL() {
		if log != nil {
			log.Info("using in-memory product store; data is lost on exit")
		}
		return &Store{Products: repositories.NewMockProductRepository()}, nil
	}

	db, err := Open(cfg.DatabaseDriver, cfg.DatabaseDSN, log)
	if err != nil {
		return nil, err
	}
	return &Store{
		DB:       db,
		Products: repositories.NewGORMProductRepository(db),
		Users:    repositories.NewGORMUserRepository(db),
	}, nil
}

// Close releases the database connection, if any.
func (s *Store) Close() error {
	if s.DB == nil {
		return nil
	}
	return Close(s.DB)
}
