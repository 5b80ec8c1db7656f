package pubsub

import "github.com/nfrund/storefront/internal/domain"

// Storefront events.
var (
	UserSignedUp = NewEvent[domain.UserSignedUp](domain.TopicUserSignedUp)
	OrderPlaced  = NewEvent[domain.OrderPlaced](domain.TopicOrderPlaced)
)
