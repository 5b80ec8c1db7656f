package payment

import (
	"fmt"
	"net/url"

	"github.com/nfrund/storefront/internal/config"
	"github.com/nfrund/storefront/internal/domain"
)

// NewGateway returns the payment gateway selected by configuration.
func NewGateway(cfg config.Provider) (domain.PaymentGateway, error) {
	switch cfg.GetPaymentProvider() {
	case "log":
		return LogGateway{}, nil
	case "stripe":
		if cfg.GetPaymentSecretKey() == "" {
			return nil, fmt.Errorf("payment provider is 'stripe' but SHOP_PAYMENT_SECRETKEY is not set")
		}
		return NewStripeGateway(cfg.GetPaymentSecretKey()), nil
	default:
		return nil, fmt.Errorf("unknown payment provider: %s", cfg.GetPaymentProvider())
	}
}

// withSessionID fills the {CHECKOUT_SESSION_ID} placeholder, or appends
// session_id when the URL has none.
func withSessionID(successURL, id string) string {
	u, err := url.Parse(successURL)
	if err != nil {
		return successURL
	}
	q := u.Query()
	q.Set("session_id", id)
	u.RawQuery = q.Encode()
	return u.String()
}
