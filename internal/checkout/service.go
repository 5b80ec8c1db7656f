// Package checkout turns a cart into a payment session and, on the success
// callback, into an order.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nfrund/storefront/internal/domain"
	"github.com/nfrund/storefront/internal/pubsub"
	"github.com/shopspring/decimal"
)

// sessionPlaceholder is replaced by the gateway with the real session id.
const sessionPlaceholder = "{CHECKOUT_SESSION_ID}"

// QuoteLine is one priced cart entry.
type QuoteLine struct {
	Product  *domain.Product
	Quantity int
}

// Subtotal is quantity * live price.
func (l QuoteLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Quote is the priced cart at one point in time.
type Quote struct {
	Lines []QuoteLine
	Total decimal.Decimal
}

// Service runs the checkout pipeline.
type Service struct {
	users     domain.UserRepository
	products  domain.ProductRepository
	orders    domain.OrderRepository
	gateway   domain.PaymentGateway
	publisher pubsub.Publisher
	currency  string
}

// NewService creates a checkout service charging in currency.
func NewService(
	users domain.UserRepository,
	products domain.ProductRepository,
	orders domain.OrderRepository,
	gateway domain.PaymentGateway,
	publisher pubsub.Publisher,
	currency string,
) *Service {
	return &Service{
		users:     users,
		products:  products,
		orders:    orders,
		gateway:   gateway,
		publisher: publisher,
		currency:  strings.ToLower(currency),
	}
}

// Quote prices the cart of userID against live products. An empty cart
// returns domain.ErrEmptyCart; a vanished product returns domain.ErrNotFound.
func (s *Service) Quote(ctx context.Context, userID string) (*Quote, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.quote(ctx, user.Cart)
}

func (s *Service) quote(ctx context.Context, cart domain.Cart) (*Quote, error) {
	if cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}

	products, err := s.products.FindByIDs(ctx, cart.ProductIDs())
	if err != nil {
		return nil, fmt.Errorf("resolve cart products: %w", err)
	}
	byID := make(map[string]*domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	q := &Quote{Total: decimal.Zero}
	for _, item := range cart.Items {
		p, ok := byID[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("product %q in cart: %w", item.ProductID, domain.ErrNotFound)
		}
		line := QuoteLine{Product: p, Quantity: item.Quantity}
		q.Lines = append(q.Lines, line)
		q.Total = q.Total.Add(line.Subtotal())
	}
	return q, nil
}

// StartPayment quotes the cart and opens a payment session whose callbacks
// point at baseURL. Gateway failures wrap domain.ErrUpstream and are not retried.
func (s *Service) StartPayment(ctx context.Context, user *domain.User, baseURL string) (*domain.PaymentSession, *Quote, error) {
	q, err := s.Quote(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	baseURL = strings.TrimRight(baseURL, "/")
	req := domain.PaymentSessionRequest{
		CustomerEmail: user.Email,
		SuccessURL:    baseURL + "/checkout/success?session_id=" + sessionPlaceholder,
		CancelURL:     baseURL + "/checkout/cancel",
	}
	for _, line := range q.Lines {
		req.LineItems = append(req.LineItems, domain.LineItem{
			Name:        line.Product.Title,
			Description: line.Product.Description,
			UnitAmount:  domain.MinorUnits(line.Product.Price),
			Currency:    s.currency,
			Quantity:    int64(line.Quantity),
		})
	}

	sess, err := s.gateway.CreateSession(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	slog.InfoContext(ctx, "Payment session created", "event", "checkout_session_created", "user_id", user.ID, "session_id", sess.ID, "total", q.Total.StringFixed(2))
	return sess, q, nil
}

// Confirm materialises the cart of userID into an order and clears the cart.
// An empty cart yields (nil, nil): the callback was already processed.
func (s *Service) Confirm(ctx context.Context, userID, paymentSessionID string) (*domain.Order, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Cart.IsEmpty() {
		return nil, nil
	}

	q, err := s.quote(ctx, user.Cart)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		Buyer:            domain.Buyer{UserID: user.ID, Email: user.Email},
		PaymentSessionID: paymentSessionID,
	}
	for _, line := range q.Lines {
		order.Items = append(order.Items, domain.NewOrderItem(line.Product, line.Quantity))
	}

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}
	// The order exists from here on; failing now would invite a duplicate on retry.
	if err := s.users.SaveCart(ctx, user.ID, user.Cart.Clear()); err != nil {
		slog.ErrorContext(ctx, "Failed to clear cart after order", "event", "cart_clear_failed", "order_id", created.ID, "user_id", user.ID, "error", err)
	}

	event := domain.OrderPlaced{
		OrderID: created.ID,
		UserID:  user.ID,
		Email:   user.Email,
		Total:   created.Total().StringFixed(2),
		Items:   len(created.Items),
	}
	if err := pubsub.Publish(ctx, s.publisher, pubsub.OrderPlaced, user.ID, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish order event", "event", "order_publish_failed", "order_id", created.ID, "error", err)
	}
	slog.InfoContext(ctx, "Order placed", "event", "order_placed", "order_id", created.ID, "user_id", user.ID)
	return created, nil
}

// Orders lists the orders of userID, newest first.
func (s *Service) Orders(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.orders.FindByUser(ctx, userID)
}
