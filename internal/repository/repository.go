package repository

import (
	"database/sql"
)

type Repository struct {
	User    UserRepository
	Product ProductRepository
	Cart    CartRepository
}

// NewRepository wires all repositories over one database handle.
// The handle is owned by the storage; closing it is the caller's job.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		User:    NewUserRepository(db),
		Product: NewProductRepository(db),
		Cart:    NewCartRepository(db),
	}
}
