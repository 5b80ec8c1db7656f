package database

import (
	"fmt"
	"time"

	"github.com/nfrund/storefront/internal/domain"
	"github.com/shopspring/decimal"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Persistence shapes. Prices are stored as decimal strings so no precision is
// lost in transit; ids are record links.

type cartItemRecord struct {
	Product  *surrealmodels.RecordID `json:"product"`
	Quantity int                     `json:"quantity"`
}

type cartRecord struct {
	Items []cartItemRecord `json:"items"`
}

type userRecord struct {
	ID                *surrealmodels.RecordID       `json:"id,omitempty"`
	Email             string                        `json:"email"`
	Password          string                        `json:"password"`
	ResetToken        *string                       `json:"reset_token,omitempty"`
	ResetTokenExpires *surrealmodels.CustomDateTime `json:"reset_token_expires,omitempty"`
	Cart              cartRecord                    `json:"cart"`
	CreatedAt         *surrealmodels.CustomDateTime `json:"created_at,omitempty"`
}

type productRecord struct {
	ID          *surrealmodels.RecordID       `json:"id,omitempty"`
	Title       string                        `json:"title"`
	Price       string                        `json:"price"`
	Description string                        `json:"description"`
	ImagePath   string                        `json:"image_path"`
	Owner       *surrealmodels.RecordID       `json:"owner"`
	CreatedAt   *surrealmodels.CustomDateTime `json:"created_at,omitempty"`
	UpdatedAt   *surrealmodels.CustomDateTime `json:"updated_at,omitempty"`
}

type buyerRecord struct {
	User  *surrealmodels.RecordID `json:"user"`
	Email string                  `json:"email"`
}

type orderItemRecord struct {
	Product     string `json:"product"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ImagePath   string `json:"image_path"`
	Quantity    int    `json:"quantity"`
}

type orderRecord struct {
	ID               *surrealmodels.RecordID       `json:"id,omitempty"`
	Buyer            buyerRecord                   `json:"buyer"`
	Items            []orderItemRecord             `json:"items"`
	PaymentSessionID string                        `json:"payment_session_id,omitempty"`
	CreatedAt        *surrealmodels.CustomDateTime `json:"created_at,omitempty"`
}

type sessionRecord struct {
	ID        *surrealmodels.RecordID       `json:"id,omitempty"`
	Data      string                        `json:"data"`
	ExpiresAt *surrealmodels.CustomDateTime `json:"expires_at"`
}

// recordID builds a record link from a table and a bare key.
func recordID(table, key string) *surrealmodels.RecordID {
	id := surrealmodels.NewRecordID(table, key)
	return &id
}

// recordKey extracts the bare key, e.g. "abc" from product:abc.
func recordKey(id *surrealmodels.RecordID) string {
	if id == nil {
		return ""
	}
	return fmt.Sprint(id.ID)
}

func dateTime(t time.Time) *surrealmodels.CustomDateTime {
	return &surrealmodels.CustomDateTime{Time: t.UTC()}
}

func timeOf(dt *surrealmodels.CustomDateTime) time.Time {
	if dt == nil {
		return time.Time{}
	}
	return dt.Time
}

func parseStoredPrice(raw string) decimal.Decimal {
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return price
}

func toCartRecord(cart domain.Cart) cartRecord {
	items := make([]cartItemRecord, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, cartItemRecord{
			Product:  recordID(productTable, item.ProductID),
			Quantity: item.Quantity,
		})
	}
	return cartRecord{Items: items}
}

func (r *cartRecord) toDomain() domain.Cart {
	items := make([]domain.CartItem, 0, len(r.Items))
	for _, item := range r.Items {
		if item.Quantity < 1 {
			continue
		}
		items = append(items, domain.CartItem{ProductID: recordKey(item.Product), Quantity: item.Quantity})
	}
	return domain.Cart{Items: items}
}

func (r *userRecord) toDomain() *domain.User {
	user := &domain.User{
		ID:           recordKey(r.ID),
		Email:        r.Email,
		PasswordHash: r.Password,
		Cart:         r.Cart.toDomain(),
		CreatedAt:    timeOf(r.CreatedAt),
	}
	if r.ResetToken != nil && r.ResetTokenExpires != nil {
		token := *r.ResetToken
		expires := r.ResetTokenExpires.Time
		user.ResetToken = &token
		user.ResetTokenExpires = &expires
	}
	return user
}

func (r *productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:          recordKey(r.ID),
		Title:       r.Title,
		Price:       parseStoredPrice(r.Price),
		Description: r.Description,
		ImagePath:   r.ImagePath,
		OwnerID:     recordKey(r.Owner),
		CreatedAt:   timeOf(r.CreatedAt),
		UpdatedAt:   timeOf(r.UpdatedAt),
	}
}

func toOrderRecord(order *domain.Order) orderRecord {
	items := make([]orderItemRecord, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemRecord{
			Product:     item.ProductID,
			Title:       item.Title,
			Description: item.Description,
			Price:       item.Price.String(),
			ImagePath:   item.ImagePath,
			Quantity:    item.Quantity,
		})
	}
	return orderRecord{
		Buyer: buyerRecord{
			User:  recordID(userTable, order.Buyer.UserID),
			Email: order.Buyer.Email,
		},
		Items:            items,
		PaymentSessionID: order.PaymentSessionID,
		CreatedAt:        dateTime(order.CreatedAt),
	}
}

func (r *orderRecord) toDomain() *domain.Order {
	items := make([]domain.OrderItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, domain.OrderItem{
			ProductID:   item.Product,
			Title:       item.Title,
			Description: item.Description,
			Price:       parseStoredPrice(item.Price),
			ImagePath:   item.ImagePath,
			Quantity:    item.Quantity,
		})
	}
	return &domain.Order{
		ID: recordKey(r.ID),
		Buyer: domain.Buyer{
			UserID: recordKey(r.Buyer.User),
			Email:  r.Buyer.Email,
		},
		Items:            items,
		PaymentSessionID: r.PaymentSessionID,
		CreatedAt:        timeOf(r.CreatedAt),
	}
}
