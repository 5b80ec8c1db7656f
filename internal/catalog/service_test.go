package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nfrund/storefront/internal/domain"
	"github.com/nfrund/storefront/internal/storage"
	"github.com/nfrund/storefront/internal/testutils"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc      *Service
	products *testutils.MemProducts
	fs       afero.Fs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{products: testutils.NewMemProducts(), fs: afero.NewMemMapFs()}
	f.svc = NewService(f.products, storage.NewAferoStore(f.fs), 3)
	return f
}

func png() *Image {
	return &Image{ContentType: "image/png", Body: strings.NewReader("png-bytes")}
}

func lamp() Input {
	return Input{Title: "Lamp", Price: decimal.RequireFromString("12.50"), Description: "A desk lamp"}
}

func (f *fixture) exists(t *testing.T, path string) bool {
	t.Helper()
	ok, err := afero.Exists(f.fs, path)
	require.NoError(t, err)
	return ok
}

func TestCreate_StoresImage(t *testing.T) {
	f := newFixture(t)

	p, err := f.svc.Create(context.Background(), "owner", lamp(), png())
	require.NoError(t, err)
	assert.Equal(t, "owner", p.OwnerID)
	assert.True(t, strings.HasPrefix(p.ImagePath, "images/"))
	assert.True(t, f.exists(t, p.ImagePath))
}

func TestCreate_RejectsMissingOrWrongImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for name, img := range map[string]*Image{
		"missing": nil,
		"gif":     {ContentType: "image/gif", Body: strings.NewReader("gif")},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, "owner", lamp(), img)
			require.ErrorIs(t, err, domain.ErrValidation)

			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, MsgNotAnImage, verr.Fields["image"])
		})
	}

	entries, _ := afero.ReadDir(f.fs, storage.ImageDir)
	assert.Empty(t, entries, "nothing stored")
}

func TestList_Pagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for range 7 {
		_, err := f.svc.Create(ctx, "owner", lamp(), png())
		require.NoError(t, err)
	}

	products, pg, err := f.svc.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, products, 3)
	assert.Equal(t, domain.Pagination{
		CurrentPage: 2, HasNextPage: true, HasPreviousPage: true,
		NextPage: 3, PreviousPage: 1, LastPage: 3, TotalItems: 7,
	}, pg)

	products, pg, err = f.svc.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.False(t, pg.HasNextPage)

	_, pg, err = f.svc.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, pg.CurrentPage)
}

func TestListByOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Create(ctx, "alice", lamp(), png())
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, "bob", lamp(), png())
	require.NoError(t, err)

	products, pg, err := f.svc.ListByOwner(ctx, "alice", 1)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "alice", products[0].OwnerID)
	assert.Equal(t, int64(1), pg.TotalItems)
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, err := f.svc.Create(ctx, "owner", lamp(), png())
	require.NoError(t, err)

	t.Run("non-owner is forbidden", func(t *testing.T) {
		_, err := f.svc.Update(ctx, "intruder", p.ID, lamp(), nil)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("without image keeps the old one", func(t *testing.T) {
		in := lamp()
		in.Title = "Floor lamp"
		updated, err := f.svc.Update(ctx, "owner", p.ID, in, nil)
		require.NoError(t, err)
		assert.Equal(t, "Floor lamp", updated.Title)
		assert.Equal(t, p.ImagePath, updated.ImagePath)
	})

	t.Run("new image replaces and deletes the old one", func(t *testing.T) {
		updated, err := f.svc.Update(ctx, "owner", p.ID, lamp(), &Image{ContentType: "image/jpeg", Body: strings.NewReader("jpg")})
		require.NoError(t, err)
		assert.NotEqual(t, p.ImagePath, updated.ImagePath)
		assert.True(t, strings.HasSuffix(updated.ImagePath, ".jpg"))
		assert.True(t, f.exists(t, updated.ImagePath))
		assert.False(t, f.exists(t, p.ImagePath))
	})
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("removes record and image", func(t *testing.T) {
		p, err := f.svc.Create(ctx, "owner", lamp(), png())
		require.NoError(t, err)

		require.NoError(t, f.svc.Delete(ctx, "owner", p.ID))
		assert.False(t, f.exists(t, p.ImagePath))
		_, err = f.svc.Get(ctx, p.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("image already missing is tolerated", func(t *testing.T) {
		p, err := f.svc.Create(ctx, "owner", lamp(), png())
		require.NoError(t, err)
		require.NoError(t, f.fs.Remove(p.ImagePath))

		assert.NoError(t, f.svc.Delete(ctx, "owner", p.ID))
	})

	t.Run("non-owner is forbidden and nothing is removed", func(t *testing.T) {
		p, err := f.svc.Create(ctx, "owner", lamp(), png())
		require.NoError(t, err)

		assert.ErrorIs(t, f.svc.Delete(ctx, "intruder", p.ID), domain.ErrForbidden)
		assert.True(t, f.exists(t, p.ImagePath))
	})

	t.Run("unknown product", func(t *testing.T) {
		assert.ErrorIs(t, f.svc.Delete(ctx, "owner", "missing"), domain.ErrNotFound)
	})
}
