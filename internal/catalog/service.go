// Package catalog implements owner-scoped product management.
package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/nfrund/storefront/internal/domain"
	"github.com/nfrund/storefront/internal/storage"
	"github.com/shopspring/decimal"
)

// MsgNotAnImage is shown when the upload is missing or not an allowed image type.
const MsgNotAnImage = "Attached file is not an image."

// Input carries the editable product fields, already validated.
type Input struct {
	Title       string
	Price       decimal.Decimal
	Description string
}

// Image is an uploaded file.
type Image struct {
	ContentType string
	Body        io.Reader
}

// Service manages products and their image assets.
type Service struct {
	products domain.ProductRepository
	store    storage.Store
	pageSize int
}

// NewService creates a catalog service listing pageSize products per page.
func NewService(products domain.ProductRepository, store storage.Store, pageSize int) *Service {
	return &Service{products: products, store: store, pageSize: pageSize}
}

// List returns one page of the whole catalog.
func (s *Service) List(ctx context.Context, pageNumber int) ([]*domain.Product, domain.Pagination, error) {
	page := domain.NewPage(pageNumber, s.pageSize)
	products, total, err := s.products.List(ctx, page)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return products, domain.NewPagination(page, total), nil
}

// ListByOwner returns one page of products created by ownerID.
func (s *Service) ListByOwner(ctx context.Context, ownerID string, pageNumber int) ([]*domain.Product, domain.Pagination, error) {
	page := domain.NewPage(pageNumber, s.pageSize)
	products, total, err := s.products.ListByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return products, domain.NewPagination(page, total), nil
}

// Get returns a product by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

// GetOwned returns a product only if ownerID created it.
func (s *Service) GetOwned(ctx context.Context, id, ownerID string) (*domain.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsOwnedBy(ownerID) {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

// Create stores the image and then the product. A missing or disallowed
// image is a validation error on the image field and nothing is stored.
func (s *Service) Create(ctx context.Context, ownerID string, in Input, image *Image) (*domain.Product, error) {
	if image == nil || !storage.IsAllowedImage(image.ContentType) {
		return nil, domain.NewValidationError("image", MsgNotAnImage)
	}

	imagePath, err := storage.SaveImage(ctx, s.store, image.ContentType, image.Body)
	if err != nil {
		return nil, err
	}

	created, err := s.products.Create(ctx, &domain.Product{
		Title:       in.Title,
		Price:       in.Price,
		Description: in.Description,
		ImagePath:   imagePath,
		OwnerID:     ownerID,
	})
	if err != nil {
		s.removeImage(ctx, imagePath)
		return nil, err
	}
	slog.InfoContext(ctx, "Product created", "event", "product_created", "product_id", created.ID, "owner_id", ownerID)
	return created, nil
}

// Update edits a product owned by ownerID. A new image replaces the old one,
// which is deleted afterwards; a nil image keeps the current one. An image of
// a disallowed type is ignored.
func (s *Service) Update(ctx context.Context, ownerID, id string, in Input, image *Image) (*domain.Product, error) {
	p, err := s.GetOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	oldImage := p.ImagePath
	p.Title = in.Title
	p.Price = in.Price
	p.Description = in.Description

	if image != nil && storage.IsAllowedImage(image.ContentType) {
		newPath, err := storage.SaveImage(ctx, s.store, image.ContentType, image.Body)
		if err != nil {
			return nil, err
		}
		p.ImagePath = newPath
	}

	updated, err := s.products.Update(ctx, p)
	if err != nil {
		if p.ImagePath != oldImage {
			s.removeImage(ctx, p.ImagePath)
		}
		return nil, err
	}
	if updated.ImagePath != oldImage {
		s.removeImage(ctx, oldImage)
	}
	return updated, nil
}

// Delete removes the product's image and then the product. The lookup runs
// first so only a confirmed, owned record is deleted. An image that is
// already gone is not an error.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	p, err := s.GetOwned(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if p.ImagePath != "" {
		if err := s.store.Delete(ctx, p.ImagePath); err != nil {
			return fmt.Errorf("delete image %s: %w", p.ImagePath, err)
		}
	}
	if err := s.products.DeleteByIDAndOwner(ctx, id, ownerID); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Product deleted", "event", "product_deleted", "product_id", id, "owner_id", ownerID)
	return nil
}

// removeImage is best effort cleanup; leftover files are tolerated.
func (s *Service) removeImage(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.store.Delete(ctx, path); err != nil {
		slog.WarnContext(ctx, "Failed to remove product image", "event", "image_cleanup_failed", "path", path, "error", err)
	}
}
