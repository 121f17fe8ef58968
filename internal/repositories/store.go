package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Repositories gives access to every repository bound to one database
// handle, either the shared pool or a single transaction.
type Repositories interface {
	Users() UserRepository
	Categories() CategoryRepository
	Listings() ListingRepository
	Orders() OrderRepository
	Reviews() ReviewRepository
}

// Store is the unit of work. WithinTransaction runs fn against repositories
// bound to one transaction, committing when fn returns nil and rolling back
// when it returns an error or panics.
type Store interface {
	Repositories
	WithinTransaction(ctx context.Context, fn func(tx Repositories) error) error
}

// GORMStore is a GORM implementation of Store.
type GORMStore struct {
	db *gorm.DB
}

// NewGORMStore creates a new instance of GORMStore.
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{db: db}
}

func (s *GORMStore) Users() UserRepository { return NewGORMUserRepository(s.db) }
func (s *GORMStore) Categories() CategoryRepository { return NewGORMCategoryRepository(s.db) }
func (s *GORMStore) Listings() ListingRepository { return NewGORMListingRepository(s.db) }
func (s *GORMStore) Orders() OrderRepository { return NewGORMOrderRepository(s.db) }
func (s *GORMStore) Reviews() ReviewRepository { return NewGORMReviewRepository(s.db) }

func (s *GORMStore) WithinTransaction(ctx context.Context, fn func(tx Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GORMStore{db: tx})
	})
}
