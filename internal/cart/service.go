// Package cart mutates the cart embedded in each user record.
package cart

import (
	"context"
	"fmt"

	"github.com/nfrund/storefront/internal/domain"
)

// Line is a cart entry joined with its live product. Product is nil when the
// product has been deleted since it was added.
type Line struct {
	ProductID string
	Quantity  int
	Product   *domain.Product
}

// Service reads and writes carts. Every mutation persists the owning user.
type Service struct {
	users    domain.UserRepository
	products domain.ProductRepository
}

// NewService creates a cart service.
func NewService(users domain.UserRepository, products domain.ProductRepository) *Service {
	return &Service{users: users, products: products}
}

// Get returns the stored cart of userID.
func (s *Service) Get(ctx context.Context, userID string) (domain.Cart, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return domain.Cart{}, err
	}
	return user.Cart, nil
}

// Add increments productID in the cart. The product must exist.
func (s *Service) Add(ctx context.Context, userID, productID string) (domain.Cart, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return domain.Cart{}, err
	}
	return s.mutate(ctx, userID, func(c domain.Cart) domain.Cart { return c.Add(productID) })
}

// Remove drops productID from the cart. Removing an absent product succeeds.
func (s *Service) Remove(ctx context.Context, userID, productID string) (domain.Cart, error) {
	return s.mutate(ctx, userID, func(c domain.Cart) domain.Cart { return c.Remove(productID) })
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.users.SaveCart(ctx, userID, domain.Cart{}.Clear()); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Lines returns the cart joined with live products, in cart order.
func (s *Service) Lines(ctx context.Context, userID string) ([]Line, error) {
	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	products, err := s.products.FindByIDs(ctx, cart.ProductIDs())
	if err != nil {
		return nil, fmt.Errorf("resolve cart products: %w", err)
	}

	byID := make(map[string]*domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	lines := make([]Line, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, Line{ProductID: item.ProductID, Quantity: item.Quantity, Product: byID[item.ProductID]})
	}
	return lines, nil
}

// mutate is a read-modify-write of the user's cart. Concurrent writes to the
// same cart are last-write-wins.
func (s *Service) mutate(ctx context.Context, userID string, fn func(domain.Cart) domain.Cart) (domain.Cart, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return domain.Cart{}, err
	}
	cart := fn(user.Cart)
	if err := s.users.SaveCart(ctx, userID, cart); err != nil {
		return domain.Cart{}, fmt.Errorf("save cart: %w", err)
	}
	return cart, nil
}
