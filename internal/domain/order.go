package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Buyer identifies who placed an order.
type Buyer struct {
	UserID string
	Email  string
}

// OrderItem is a point-in-time copy of a product plus the purchased quantity.
type OrderItem struct {
	ProductID   string
	Title       string
	Description string
	Price       decimal.Decimal
	ImagePath   string
	Quantity    int
}

// Subtotal is quantity * unit price.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewOrderItem snapshots product by value.
func NewOrderItem(product *Product, quantity int) OrderItem {
	return OrderItem{
		ProductID:   product.ID,
		Title:       product.Title,
		Description: product.Description,
		Price:       product.Price,
		ImagePath:   product.ImagePath,
		Quantity:    quantity,
	}
}

// Order is an immutable record of a completed checkout.
type Order struct {
	ID               string
	Buyer            Buyer
	Items            []OrderItem
	PaymentSessionID string
	CreatedAt        time.Time
}

// Total recomputes the grand total from the snapshot.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// IsBoughtBy reports whether userID placed the order.
func (o *Order) IsBoughtBy(userID string) bool {
	return o.Buyer.UserID != "" && o.Buyer.UserID == userID
}

// OrderRepository stores orders. There is no update operation.
type OrderRepository interface {
	Create(ctx context.Context, order *Order) (*Order, error)
	FindByID(ctx context.Context, id string) (*Order, error)
	// FindByUser lists the buyer's orders, newest first.
	FindByUser(ctx context.Context, userID string) ([]*Order, error)
}
