// Package invoice renders orders as PDF documents.
package invoice

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/go-pdf/fpdf"
	"github.com/nfrund/storefront/internal/domain"
	"github.com/nfrund/storefront/internal/storage"
)

// Dir is the directory, relative to the storage root, holding invoices.
const Dir = "invoices"

// ContentType of generated invoices.
const ContentType = "application/pdf"

// FileName is the download name of the invoice for orderID.
func FileName(orderID string) string {
	return "invoice-" + orderID + ".pdf"
}

// Path is where the invoice for orderID is kept in storage.
func Path(orderID string) string {
	return path.Join(Dir, FileName(orderID))
}

// Service authorises and generates invoices.
type Service struct {
	orders   domain.OrderRepository
	store    storage.Store
	compress bool
}

// NewService creates an invoice service.
func NewService(orders domain.OrderRepository, store storage.Store) *Service {
	return &Service{orders: orders, store: store, compress: true}
}

// Prepare loads the order and checks that requesterID bought it. It writes
// nothing, so a failure here leaves no document behind.
func (s *Service) Prepare(ctx context.Context, orderID, requesterID string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsBoughtBy(requesterID) {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

// Write renders order to storage and to w at the same time.
func (s *Service) Write(ctx context.Context, order *domain.Order, w io.Writer) error {
	f, err := s.store.Create(ctx, Path(order.ID))
	if err != nil {
		return fmt.Errorf("open invoice file: %w", err)
	}

	var dst io.Writer = f
	if w != nil {
		dst = io.MultiWriter(f, w)
	}
	renderErr := s.render(order, dst)
	closeErr := f.Close()
	if renderErr != nil {
		return fmt.Errorf("render invoice %s: %w", order.ID, renderErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close invoice file: %w", closeErr)
	}

	slog.InfoContext(ctx, "Invoice generated", "event", "invoice_generated", "order_id", order.ID, "path", Path(order.ID))
	return nil
}

// Regenerate rewrites the stored invoice for orderID without an ownership check.
func (s *Service) Regenerate(ctx context.Context, orderID string) (string, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if err := s.Write(ctx, order, nil); err != nil {
		return "", err
	}
	return Path(orderID), nil
}

func (s *Service) render(order *domain.Order, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(s.compress)
	pdf.SetTitle("Invoice "+order.ID, true)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Order %s - page %d/{nb}", order.ID, pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "U", 26)
	pdf.Cell(0, 14, "Invoice")
	pdf.Ln(16)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, "-----------------------")
	pdf.Ln(10)

	for _, item := range order.Items {
		line := fmt.Sprintf("%s - %d x %s", item.Title, item.Quantity, domain.FormatMoney(item.Price))
		pdf.MultiCell(0, 7, tr(line), "", "L", false)
	}

	pdf.Cell(0, 8, "---")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Total Price: "+domain.FormatMoney(order.Total()))

	return pdf.Output(w)
}
