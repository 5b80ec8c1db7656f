package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/storefront/internal/domain"
)

// var _ ensures that OrderStore implements the domain.OrderRepository interface at compile time.
var _ domain.OrderRepository = (*OrderStore)(nil)

// OrderStore persists immutable order snapshots.
type OrderStore struct {
	client *Client[orderRecord]
}

// NewOrderStore creates a new OrderStore.
func NewOrderStore(client *Client[orderRecord]) *OrderStore {
	return &OrderStore{client: client}
}

// Create stores the order exactly as given.
func (s *OrderStore) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil || order.Buyer.UserID == "" {
		return nil, errors.New("order with a buyer is required")
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}

	rows, err := s.client.Mutate(ctx, "CREATE $id CONTENT $data", map[string]any{
		"id":   recordID(orderTable, uuid.NewString()),
		"data": toOrderRecord(order),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if len(rows) == 0 {
		return nil, NewDBError(ErrQueryFailed, "create order returned no record")
	}
	return rows[0].toDomain(), nil
}

// FindByID loads an order by bare key.
func (s *OrderStore) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	if id == "" {
		return nil, notFound("order", id)
	}
	rec, err := s.client.QueryOne(ctx, "SELECT * FROM $id", map[string]any{"id": recordID(orderTable, id)})
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if rec == nil {
		return nil, notFound("order", id)
	}
	return rec.toDomain(), nil
}

// FindByUser lists userID's orders, newest first.
func (s *OrderStore) FindByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	query := "SELECT * FROM orders WHERE buyer.user = $user ORDER BY created_at DESC"
	rows, err := s.client.Query(ctx, query, map[string]any{"user": recordID(userTable, userID)})
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	orders := make([]*domain.Order, 0, len(rows))
	for i := range rows {
		orders = append(orders, rows[i].toDomain())
	}
	return orders, nil
}
