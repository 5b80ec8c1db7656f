package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/storefront/internal/domain"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// var _ ensures that ProductStore implements the domain.ProductRepository interface at compile time.
var _ domain.ProductRepository = (*ProductStore)(nil)

// ProductStore implements catalog persistence.
type ProductStore struct {
	client *Client[productRecord]
}

// NewProductStore creates a new ProductStore with the given database client.
func NewProductStore(client *Client[productRecord]) *ProductStore {
	return &ProductStore{client: client}
}

// Create inserts a new product record.
func (s *ProductStore) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product to create cannot be nil")
	}
	if product.OwnerID == "" {
		return nil, NewDBError(ErrInvalidInput, "product owner is required")
	}

	now := time.Now().UTC()
	query := "CREATE $id CONTENT $data"
	params := map[string]any{
		"id": recordID(productTable, uuid.NewString()),
		"data": map[string]any{
			"title":       product.Title,
			"price":       product.Price.String(),
			"description": product.Description,
			"image_path":  product.ImagePath,
			"owner":       recordID(userTable, product.OwnerID),
			"created_at":  dateTime(now),
			"updated_at":  dateTime(now),
		},
	}

	rows, err := s.client.Mutate(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	if len(rows) == 0 {
		return nil, NewDBError(ErrQueryFailed, "create product returned no record")
	}
	return rows[0].toDomain(), nil
}

// FindByID retrieves a product by its bare key.
func (s *ProductStore) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, notFound("product", id)
	}
	rec, err := s.client.QueryOne(ctx, "SELECT * FROM $id", map[string]any{"id": recordID(productTable, id)})
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if rec == nil {
		return nil, notFound("product", id)
	}
	return rec.toDomain(), nil
}

// FindByIDs resolves many products in one round trip.
func (s *ProductStore) FindByIDs(ctx context.Context, ids []string) ([]*domain.Product, error) {
	if len(ids) == 0 {
		return []*domain.Product{}, nil
	}
	links := make([]*surrealmodels.RecordID, 0, len(ids))
	for _, id := range ids {
		links = append(links, recordID(productTable, id))
	}

	rows, err := s.client.Query(ctx, "SELECT * FROM product WHERE id IN $ids", map[string]any{"ids": links})
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return toProducts(rows), nil
}

// Update overwrites the editable fields. Only the owner's record matches.
func (s *ProductStore) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil || product.ID == "" {
		return nil, errors.New("product and product ID are required for update")
	}

	query := "UPDATE $id MERGE $data WHERE owner = $owner RETURN AFTER"
	rows, err := s.client.Mutate(ctx, query, map[string]any{
		"id":    recordID(productTable, product.ID),
		"owner": recordID(userTable, product.OwnerID),
		"data": map[string]any{
			"title":       product.Title,
			"price":       product.Price.String(),
			"description": product.Description,
			"image_path":  product.ImagePath,
			"updated_at":  dateTime(time.Now()),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if len(rows) == 0 {
		return nil, notFound("product", product.ID)
	}
	return rows[0].toDomain(), nil
}

// DeleteByIDAndOwner removes the product if ownerID owns it.
func (s *ProductStore) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) error {
	query := "DELETE $id WHERE owner = $owner RETURN BEFORE"
	rows, err := s.client.Mutate(ctx, query, map[string]any{
		"id":    recordID(productTable, id),
		"owner": recordID(userTable, ownerID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if len(rows) == 0 {
		return notFound("product", id)
	}
	return nil
}

// List returns one page of the whole catalog, newest first.
func (s *ProductStore) List(ctx context.Context, page domain.Page) ([]*domain.Product, int64, error) {
	return s.page(ctx, "", nil, page)
}

// ListByOwner returns one page of ownerID's products, newest first.
func (s *ProductStore) ListByOwner(ctx context.Context, ownerID string, page domain.Page) ([]*domain.Product, int64, error) {
	return s.page(ctx, "WHERE owner = $owner", map[string]any{"owner": recordID(userTable, ownerID)}, page)
}

// page fetches a window and the total count with a single query. The count
// subquery rides on every row; an empty window falls back to a plain count.
func (s *ProductStore) page(ctx context.Context, where string, vars map[string]any, page domain.Page) ([]*domain.Product, int64, error) {
	type productWithTotal struct {
		productRecord
		Total []struct {
			Count int64 `json:"count"`
		} `json:"total"`
	}

	params := map[string]any{"limit": page.Size, "offset": page.Offset()}
	for k, v := range vars {
		params[k] = v
	}

	query := fmt.Sprintf(`
		SELECT
			*,
			(SELECT count() FROM product %[1]s GROUP ALL) AS total
		FROM product %[1]s
		ORDER BY created_at DESC
		LIMIT $limit START $offset
	`, where)

	ctx, cancel := getTimeoutFromContext(ctx, s.client.queryTimeout, ContextKeyQueryTimeout)
	defer cancel()

	rows, err := Query[productWithTotal](ctx, s.client.db, query, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	if len(rows) == 0 {
		total, err := s.client.Count(ctx, fmt.Sprintf("SELECT count() FROM product %s GROUP ALL", where), params)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to count products: %w", err)
		}
		return []*domain.Product{}, total, nil
	}

	var total int64
	if len(rows[0].Total) > 0 {
		total = rows[0].Total[0].Count
	}
	products := make([]*domain.Product, 0, len(rows))
	for i := range rows {
		products = append(products, rows[i].productRecord.toDomain())
	}
	return products, total, nil
}

func toProducts(rows []productRecord) []*domain.Product {
	products := make([]*domain.Product, 0, len(rows))
	for i := range rows {
		products = append(products, rows[i].toDomain())
	}
	return products
}
