package invoice

import (
	"bytes"
	"context"
	"testing"

	"github.com/nfrund/storefront/internal/domain"
	"github.com/nfrund/storefront/internal/storage"
	"github.com/nfrund/storefront/internal/testutils"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Service, *testutils.MemOrders, afero.Fs, *domain.Order) {
	t.Helper()
	orders := testutils.NewMemOrders()
	fs := afero.NewMemMapFs()
	svc := NewService(orders, storage.NewAferoStore(fs))
	svc.compress = false

	order, err := orders.Create(context.Background(), &domain.Order{
		Buyer: domain.Buyer{UserID: "buyer", Email: "buyer@example.com"},
		Items: []domain.OrderItem{
			{ProductID: "p1", Title: "Lamp", Price: decimal.RequireFromString("9.99"), Quantity: 2},
		},
	})
	require.NoError(t, err)
	return svc, orders, fs, order
}

func TestPrepare(t *testing.T) {
	svc, _, fs, order := setup(t)
	ctx := context.Background()

	got, err := svc.Prepare(ctx, order.ID, "buyer")
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = svc.Prepare(ctx, order.ID, "someone-else")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Prepare(ctx, "missing", "buyer")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	exists, err := afero.Exists(fs, Path(order.ID))
	require.NoError(t, err)
	assert.False(t, exists, "authorisation failures produce no document")
}

func TestWrite_StreamsAndStores(t *testing.T) {
	svc, _, fs, order := setup(t)

	var resp bytes.Buffer
	require.NoError(t, svc.Write(context.Background(), order, &resp))

	body := resp.Bytes()
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))
	assert.Contains(t, string(body), "(Invoice)")
	assert.Contains(t, string(body), "Lamp - 2 x $9.99")
	assert.Contains(t, string(body), "Total Price: $19.98")

	stored, err := afero.ReadFile(fs, "invoices/invoice-"+order.ID+".pdf")
	require.NoError(t, err)
	assert.Equal(t, body, stored)
}

func TestRegenerate(t *testing.T) {
	svc, _, fs, order := setup(t)

	p, err := svc.Regenerate(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, Path(order.ID), p)

	exists, err := afero.Exists(fs, p)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "invoice-abc.pdf", FileName("abc"))
	assert.Equal(t, "invoices/invoice-abc.pdf", Path("abc"))
}
