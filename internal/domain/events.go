package domain

// Topics published on the event bus.
const (
	TopicUserSignedUp = "user.signed_up"
	TopicOrderPlaced  = "order.placed"
)

// UserSignedUp is published after a new account is persisted.
type UserSignedUp struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// OrderPlaced is published after an order is persisted and the cart cleared.
type OrderPlaced struct {
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Total   string `json:"total"`
	Items   int    `json:"items"`
}
