package domain

import "context"

// LineItem is one entry of a payment session. UnitAmount is in minor currency units.
type LineItem struct {
	Name        string
	Description string
	UnitAmount  int64
	Currency    string
	Quantity    int64
}

// PaymentSessionRequest parameterises an external checkout.
type PaymentSessionRequest struct {
	LineItems     []LineItem
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
}

// PaymentSession is the handle returned by the gateway. URL is where the buyer pays.
type PaymentSession struct {
	ID  string
	URL string
}

// PaymentGateway creates hosted payment sessions.
type PaymentGateway interface {
	CreateSession(ctx context.Context, req PaymentSessionRequest) (*PaymentSession, error)
}
