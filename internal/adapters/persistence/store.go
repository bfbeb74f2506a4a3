package persistence

import (
	"gorm.io/gorm"
)

// Store bundles every repository over one database handle. The decision engine
// receives a *Store and re-reads through it on every call; the database is the
// single source of truth, single-writer per run version.
type Store struct {
	Versions     *GormRunVersionRepository
	Articles     *GormArticleRepository
	Warehouse    *GormWarehouseRepository
	Trains       *GormTrainRepository
	Jobs         *GormJobRepository
	Factories    *GormFactoryRepository
	Contracts    *GormContractRepository
	Destinations *GormDestinationRepository
	Rewards      *GormRewardRepository
}

// NewStore creates a store over an open GORM connection
func NewStore(db *gorm.DB) *Store {
	return &Store{
		Versions:     NewGormRunVersionRepository(db),
		Articles:     NewGormArticleRepository(db),
		Warehouse:    NewGormWarehouseRepository(db),
		Trains:       NewGormTrainRepository(db),
		Jobs:         NewGormJobRepository(db),
		Factories:    NewGormFactoryRepository(db),
		Contracts:    NewGormContractRepository(db),
		Destinations: NewGormDestinationRepository(db),
		Rewards:      NewGormRewardRepository(db),
	}
}
