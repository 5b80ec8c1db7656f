package database

import (
	"github.com/nfrund/storefront/internal/config"
	"github.com/surrealdb/surrealdb.go"
)

// Stores groups every SurrealDB-backed repository over one connection.
type Stores struct {
	Users    *UserStore
	Products *ProductStore
	Orders   *OrderStore
	Sessions *SessionStore
}

// NewStores builds the typed clients and the stores on top of them.
func NewStores(db *surrealdb.DB, cfg config.Provider) (*Stores, error) {
	users, err := NewClient[userRecord](db, cfg)
	if err != nil {
		return nil, err
	}
	products, err := NewClient[productRecord](db, cfg)
	if err != nil {
		return nil, err
	}
	orders, err := NewClient[orderRecord](db, cfg)
	if err != nil {
		return nil, err
	}
	sessions, err := NewClient[sessionRecord](db, cfg)
	if err != nil {
		return nil, err
	}
	return &Stores{
		Users:    NewUserStore(users),
		Products: NewProductStore(products),
		Orders:   NewOrderStore(orders),
		Sessions: NewSessionStore(sessions),
	}, nil
}
