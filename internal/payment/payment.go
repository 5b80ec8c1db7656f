// Package payment creates hosted checkout sessions with a payment provider.
package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nfrund/storefront/internal/domain"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

var (
	_ domain.PaymentGateway = (*StripeGateway)(nil)
	_ domain.PaymentGateway = (*LogGateway)(nil)
)

// checkoutSessions is the slice of the Stripe client this package calls.
type checkoutSessions interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// StripeGateway opens Stripe Checkout sessions in payment mode.
type StripeGateway struct {
	sessions checkoutSessions
}

// NewStripeGateway creates a gateway authenticated with secretKey.
func NewStripeGateway(secretKey string) *StripeGateway {
	sc := client.New(secretKey, nil)
	return &StripeGateway{sessions: sc.CheckoutSessions}
}

// CreateSession opens a checkout session for the given line items.
func (g *StripeGateway) CreateSession(ctx context.Context, req domain.PaymentSessionRequest) (*domain.PaymentSession, error) {
	params := buildParams(req)
	params.Context = ctx

	sess, err := g.sessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout session: %w: %w", domain.ErrUpstream, err)
	}
	return &domain.PaymentSession{ID: sess.ID, URL: sess.URL}, nil
}

func buildParams(req domain.PaymentSessionRequest) *stripe.CheckoutSessionParams {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	for _, item := range req.LineItems {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		if item.Description != "" {
			product.Description = stripe.String(item.Description)
		}
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(item.Currency),
				UnitAmount:  stripe.Int64(item.UnitAmount),
				ProductData: product,
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}
	return params
}

// LogGateway is a development gateway. It logs the request and sends the
// buyer straight to the success URL with a generated session id.
type LogGateway struct{}

// CreateSession logs the request and returns a local session.
func (LogGateway) CreateSession(ctx context.Context, req domain.PaymentSessionRequest) (*domain.PaymentSession, error) {
	id := "cs_log_" + uuid.NewString()
	slog.InfoContext(ctx, "Payment session created (logged)",
		"event", "payment_session_logged",
		"session_id", id,
		"line_items", len(req.LineItems),
		"customer_email", req.CustomerEmail,
	)
	return &domain.PaymentSession{ID: id, URL: withSessionID(req.SuccessURL, id)}, nil
}
