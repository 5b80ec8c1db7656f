package testutils

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/storefront/internal/domain"
)

func notFound(what, id string) error {
	return fmt.Errorf("%s %q: %w", what, id, domain.ErrNotFound)
}

// MemUsers is an in-memory domain.UserRepository.
type MemUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

var _ domain.UserRepository = (*MemUsers)(nil)

func NewMemUsers() *MemUsers {
	return &MemUsers{users: map[string]*domain.User{}}
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	c.Cart = domain.Cart{Items: append([]domain.CartItem(nil), u.Cart.Items...)}
	if u.ResetToken != nil {
		t := *u.ResetToken
		c.ResetToken = &t
	}
	if u.ResetTokenExpires != nil {
		e := *u.ResetTokenExpires
		c.ResetTokenExpires = &e
	}
	return &c
}

func (m *MemUsers) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := domain.NormalizeEmail(user.Email)
	for _, u := range m.users {
		if u.Email == email {
			return nil, domain.ErrUserAlreadyExists
		}
	}
	stored := copyUser(user)
	stored.ID = uuid.NewString()
	stored.Email = email
	stored.CreatedAt = time.Now().UTC()
	m.users[stored.ID] = stored
	return copyUser(stored), nil
}

func (m *MemUsers) FindByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, notFound("user", id)
	}
	return copyUser(u), nil
}

func (m *MemUsers) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = domain.NormalizeEmail(email)
	for _, u := range m.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, notFound("user", email)
}

func (m *MemUsers) SaveCart(ctx context.Context, userID string, cart domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return notFound("user", userID)
	}
	u.Cart = domain.Cart{Items: append([]domain.CartItem{}, cart.Items...)}
	return nil
}

func (m *MemUsers) SetResetToken(ctx context.Context, userID, token string, expires time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return notFound("user", userID)
	}
	u.ResetToken = &token
	u.ResetTokenExpires = &expires
	return nil
}

func (m *MemUsers) FindByResetToken(ctx context.Context, token string, now time.Time) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.HasLiveResetToken(token, now) {
			return copyUser(u), nil
		}
	}
	return nil, domain.ErrInvalidResetToken
}

func (m *MemUsers) ResetPassword(ctx context.Context, userID, token, passwordHash string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok || !u.HasLiveResetToken(token, now) {
		return domain.ErrInvalidResetToken
	}
	u.PasswordHash = passwordHash
	u.ResetToken = nil
	u.ResetTokenExpires = nil
	return nil
}

// MemProducts is an in-memory domain.ProductRepository. Listing order is
// newest first by insertion.
type MemProducts struct {
	mu       sync.Mutex
	products map[string]*domain.Product
	seq      map[string]int
	next     int

	// FindByIDCalls counts FindByID invocations.
	FindByIDCalls atomic.Int64
}

var _ domain.ProductRepository = (*MemProducts)(nil)

func NewMemProducts() *MemProducts {
	return &MemProducts{products: map[string]*domain.Product{}, seq: map[string]int{}}
}

func (m *MemProducts) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *product
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	m.products[stored.ID] = &stored
	m.next++
	m.seq[stored.ID] = m.next
	out := stored
	return &out, nil
}

func (m *MemProducts) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	m.FindByIDCalls.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, notFound("product", id)
	}
	out := *p
	return &out, nil
}

func (m *MemProducts) FindByIDs(ctx context.Context, ids []string) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			c := *p
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *MemProducts) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[product.ID]
	if !ok || p.OwnerID != product.OwnerID {
		return nil, notFound("product", product.ID)
	}
	p.Title = product.Title
	p.Price = product.Price
	p.Description = product.Description
	p.ImagePath = product.ImagePath
	p.UpdatedAt = time.Now().UTC()
	out := *p
	return &out, nil
}

func (m *MemProducts) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok || p.OwnerID != ownerID {
		return notFound("product", id)
	}
	delete(m.products, id)
	delete(m.seq, id)
	return nil
}

func (m *MemProducts) List(ctx context.Context, page domain.Page) ([]*domain.Product, int64, error) {
	return m.list(func(*domain.Product) bool { return true }, page)
}

func (m *MemProducts) ListByOwner(ctx context.Context, ownerID string, page domain.Page) ([]*domain.Product, int64, error) {
	return m.list(func(p *domain.Product) bool { return p.OwnerID == ownerID }, page)
}

func (m *MemProducts) list(keep func(*domain.Product) bool, page domain.Page) ([]*domain.Product, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make([]*domain.Product, 0, len(m.products))
	for _, p := range m.products {
		if keep(p) {
			c := *p
			all = append(all, &c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return m.seq[all[i].ID] > m.seq[all[j].ID] })

	total := int64(len(all))
	start := page.Offset()
	if start >= len(all) {
		return []*domain.Product{}, total, nil
	}
	end := start + page.Size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

// MemOrders is an in-memory domain.OrderRepository.
type MemOrders struct {
	mu     sync.Mutex
	orders []*domain.Order
}

var _ domain.OrderRepository = (*MemOrders)(nil)

func NewMemOrders() *MemOrders {
	return &MemOrders{}
}

func copyOrder(o *domain.Order) *domain.Order {
	c := *o
	c.Items = append([]domain.OrderItem(nil), o.Items...)
	return &c
}

func (m *MemOrders) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := copyOrder(order)
	stored.ID = uuid.NewString()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	m.orders = append(m.orders, stored)
	return copyOrder(stored), nil
}

func (m *MemOrders) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID == id {
			return copyOrder(o), nil
		}
	}
	return nil, notFound("order", id)
}

func (m *MemOrders) FindByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.Order{}
	for i := len(m.orders) - 1; i >= 0; i-- {
		if m.orders[i].Buyer.UserID == userID {
			out = append(out, copyOrder(m.orders[i]))
		}
	}
	return out, nil
}

// Count returns the number of stored orders.
func (m *MemOrders) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

// MemSessions is an in-memory session repository.
type MemSessions struct {
	mu   sync.Mutex
	rows map[string]memSession
}

type memSession struct {
	data      string
	expiresAt time.Time
}

func NewMemSessions() *MemSessions {
	return &MemSessions{rows: map[string]memSession{}}
}

func (m *MemSessions) Load(ctx context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok || !row.expiresAt.After(time.Now()) {
		return "", notFound("session", id)
	}
	return row.data, nil
}

func (m *MemSessions) Save(ctx context.Context, id, data string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[id] = memSession{data: data, expiresAt: expiresAt}
	return nil
}

func (m *MemSessions) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *MemSessions) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, row := range m.rows {
		if !row.expiresAt.After(now) {
			delete(m.rows, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored sessions, expired ones included.
func (m *MemSessions) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// SentEmail is one message captured by RecordingSender.
type SentEmail struct {
	To      string
	Subject string
	Body    string
}

// RecordingSender is a domain.EmailSender that keeps every message.
type RecordingSender struct {
	mu   sync.Mutex
	sent []SentEmail
	Err  error
}

var _ domain.EmailSender = (*RecordingSender)(nil)

func (r *RecordingSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.sent = append(r.sent, SentEmail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

// Sent returns a copy of the captured messages.
func (r *RecordingSender) Sent() []SentEmail {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]SentEmail(nil), r.sent...)
}
