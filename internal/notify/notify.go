// Package notify sends transactional mail in response to bus events.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nfrund/storefront/internal/domain"
	"github.com/nfrund/storefront/internal/email"
	"github.com/nfrund/storefront/internal/pubsub"
)

// Notifier mails users about their account and orders.
type Notifier struct {
	mailer domain.EmailSender
}

// New creates a Notifier.
func New(mailer domain.EmailSender) *Notifier {
	return &Notifier{mailer: mailer}
}

// Start subscribes to the signup and order topics until ctx is canceled.
// Delivery is best effort: failures are logged by the bus and not retried.
func (n *Notifier) Start(ctx context.Context, sub pubsub.Subscriber) error {
	if err := pubsub.Subscribe(ctx, sub, pubsub.UserSignedUp, n.onSignup); err != nil {
		return fmt.Errorf("subscribe %s: %w", pubsub.UserSignedUp.Name(), err)
	}
	if err := pubsub.Subscribe(ctx, sub, pubsub.OrderPlaced, n.onOrder); err != nil {
		return fmt.Errorf("subscribe %s: %w", pubsub.OrderPlaced.Name(), err)
	}
	slog.InfoContext(ctx, "Notifier subscribed", "event", "notifier_started")
	return nil
}

func (n *Notifier) onSignup(ctx context.Context, e domain.UserSignedUp) error {
	msg := email.SignupConfirmation()
	return n.mailer.Send(ctx, e.Email, msg.Subject, msg.HTML)
}

func (n *Notifier) onOrder(ctx context.Context, e domain.OrderPlaced) error {
	msg := email.OrderConfirmation(e.OrderID, "$"+e.Total, e.Items)
	return n.mailer.Send(ctx, e.Email, msg.Subject, msg.HTML)
}
