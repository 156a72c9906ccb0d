package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/hamadpass/khodarji-backend/internal/storage"
	"github.com/hamadpass/khodarji-backend/pkg/config"
	"github.com/hamadpass/khodarji-backend/pkg/db"
	"github.com/hamadpass/khodarji-backend/pkg/enums"
	pkgerrors "github.com/hamadpass/khodarji-backend/pkg/errors"
	"github.com/hamadpass/khodarji-backend/pkg/latency"
	"github.com/hamadpass/khodarji-backend/pkg/types"
)

func newTestService(t *testing.T) (Service, *storage.Store) {
	t.Helper()
	client, err := db.New(context.Background(), config.DBConfig{
		DSN:    "file::memory:",
		Driver: config.DBDriverSQLite,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.DB().AutoMigrate(&storage.Record{}))

	store := storage.New(client, nil)
	svc, err := NewService(store, latency.NewSimulator(0), nil)
	require.NoError(t, err)
	return svc, store
}

func testProduct(id string) types.Product {
	return types.Product{
		ID:       id,
		Name:     types.LocalizedString{En: "Figs", Ar: "تين"},
		Category: enums.ProductCategoryFruits,
		Price:    decimal.RequireFromString("3.25"),
		Unit:     "KG",
	}
}

func TestListSeedsEmptyCatalog(t *testing.T) {
	svc, _ := newTestService(t)

	products, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, len(seedCatalog))
	require.Equal(t, "v1", products[0].ID)
}

func TestListPreservesAdminEditsAcrossRestarts(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.List(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "v1"))

	// A fresh service over the same store must not restore the deleted item.
	again, err := NewService(store, latency.NewSimulator(0), nil)
	require.NoError(t, err)
	products, err := again.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, len(seedCatalog)-1)
	for _, p := range products {
		require.NotEqual(t, "v1", p.ID)
	}
}

func TestSaveInsertsNewProduct(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	saved, err := svc.Save(ctx, testProduct("x1"))
	require.NoError(t, err)
	require.Equal(t, "x1", saved.ID)

	products, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, len(seedCatalog)+1)
}

func TestSaveReplacesExistingProduct(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	update := testProduct("v1")
	update.Price = decimal.RequireFromString("9.99")
	_, err := svc.Save(ctx, update)
	require.NoError(t, err)

	products, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, len(seedCatalog))
	for _, p := range products {
		if p.ID == "v1" {
			require.True(t, p.Price.Equal(decimal.RequireFromString("9.99")))
			return
		}
	}
	t.Fatalf("product v1 missing after save")
}

func TestSaveValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, types.Product{})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	bad := testProduct("x1")
	bad.Category = enums.ProductCategory("meat")
	_, err = svc.Save(ctx, bad)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	negative := testProduct("x2")
	negative.Price = decimal.RequireFromString("-1")
	_, err = svc.Save(ctx, negative)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestDeleteAbsentIDIsNoOp(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "nope"))

	products, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, len(seedCatalog))
}

func TestConcurrentSaveOfSameProductConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	impl := svc.(*service)

	require.NoError(t, impl.acquire("v1"))
	defer impl.release("v1")

	_, err := svc.Save(context.Background(), testProduct("v1"))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}
