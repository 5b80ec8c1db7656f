package email

import (
	"fmt"

	"github.com/nfrund/storefront/internal/config"
	"github.com/nfrund/storefront/internal/domain"
)

// NewEmailService creates and returns an email sender based on the configuration.
func NewEmailService(cfg config.Provider) (domain.EmailSender, error) {
	switch cfg.GetEmailProvider() {
	case "log":
		return &LogSender{senderAddress: cfg.GetEmailSender()}, nil
	case "resend":
		if cfg.GetEmailAPIKey() == "" {
			return nil, fmt.Errorf("email provider is 'resend' but SHOP_EMAIL_APIKEY is not set")
		}
		return NewResendSender(cfg.GetEmailAPIKey(), cfg.GetEmailSender()), nil
	default:
		return nil, fmt.Errorf("unknown email provider: %s", cfg.GetEmailProvider())
	}
}
