package storage

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hamadpass/khodarji-backend/pkg/config"
	"github.com/hamadpass/khodarji-backend/pkg/db"
	"github.com/hamadpass/khodarji-backend/pkg/enums"
	"github.com/hamadpass/khodarji-backend/pkg/types"
)

func newTestStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	client, err := db.New(context.Background(), config.DBConfig{
		DSN:    "file::memory:",
		Driver: config.DBDriverSQLite,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.DB().AutoMigrate(&Record{}))
	return New(client, nil), client.DB()
}

func TestWriteReadRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	users := []types.User{
		{ID: "u1", Phone: "791234567", Role: enums.UserRoleAdmin},
		{ID: "u2", Phone: "790000001", Role: enums.UserRoleCustomer},
	}
	require.NoError(t, store.Write(ctx, KeyUsers, users))

	var got []types.User
	require.NoError(t, store.Read(ctx, KeyUsers, &got))
	require.Equal(t, users, got)
}

func TestWriteIsFullReplace(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, KeyUsers, []types.User{{ID: "u1", Phone: "791234567", Role: enums.UserRoleAdmin}}))
	require.NoError(t, store.Write(ctx, KeyUsers, []types.User{{ID: "u2", Phone: "790000001", Role: enums.UserRoleCustomer}}))

	var got []types.User
	require.NoError(t, store.Read(ctx, KeyUsers, &got))
	require.Len(t, got, 1)
	require.Equal(t, "u2", got[0].ID)
}

func TestReadMissingKeyLeavesDestUntouched(t *testing.T) {
	store, _ := newTestStore(t)

	var got []types.User
	require.NoError(t, store.Read(context.Background(), KeyUsers, &got))
	require.Empty(t, got)
}

func TestReadCorruptPayloadClearsRow(t *testing.T) {
	store, conn := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, conn.Create(&Record{
		Key:       KeyOrders,
		Version:   SchemaVersion,
		Payload:   "{not json at all",
		UpdatedAt: time.Now(),
	}).Error)

	var got []types.Order
	require.NoError(t, store.Read(ctx, KeyOrders, &got))
	require.Empty(t, got)

	var count int64
	require.NoError(t, conn.Model(&Record{}).Where("key = ?", KeyOrders).Count(&count).Error)
	require.Zero(t, count, "corrupt row must be cleared")
}

func TestReadVersionMismatchTreatedAsCorrupt(t *testing.T) {
	store, conn := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, conn.Create(&Record{
		Key:       KeyProducts,
		Version:   99,
		Payload:   `{"version":99,"data":[]}`,
		UpdatedAt: time.Now(),
	}).Error)

	var got []types.Product
	require.NoError(t, store.Read(ctx, KeyProducts, &got))
	require.Empty(t, got)

	var count int64
	require.NoError(t, conn.Model(&Record{}).Where("key = ?", KeyProducts).Count(&count).Error)
	require.Zero(t, count)
}

func TestCartSnapshotRoundTripPreservesQuantities(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	cart := []types.CartItem{
		{
			Product: types.Product{
				ID:       "v1",
				Name:     types.LocalizedString{En: "Tomatoes", Ar: "بندورة"},
				Category: enums.ProductCategoryVegetables,
				Price:    decimal.RequireFromString("0.65"),
				Unit:     "KG",
			},
			Quantity: decimal.RequireFromString("2.5"),
		},
		{
			Product: types.Product{
				ID:       "f3",
				Name:     types.LocalizedString{En: "Bananas", Ar: "موز"},
				Category: enums.ProductCategoryFruits,
				Price:    decimal.RequireFromString("1.35"),
				Unit:     "KG",
			},
			Quantity: decimal.RequireFromString("0.5"),
		},
	}
	key := CartKey("sess-1")
	require.NoError(t, store.Write(ctx, key, cart))

	var got []types.CartItem
	require.NoError(t, store.Read(ctx, key, &got))
	require.Len(t, got, 2)

	byID := map[string]types.CartItem{}
	for _, item := range got {
		byID[item.ID] = item
	}
	require.True(t, byID["v1"].Quantity.Equal(decimal.RequireFromString("2.5")))
	require.True(t, byID["f3"].Quantity.Equal(decimal.RequireFromString("0.5")))
}

func TestDeleteAbsentKeyIsNoOp(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Delete(context.Background(), "never-written"))
}

func TestEmptyCollectionIsPersistedExplicitly(t *testing.T) {
	store, conn := newTestStore(t)
	ctx := context.Background()

	key := CartKey("sess-2")
	require.NoError(t, store.Write(ctx, key, []types.CartItem{}))

	var count int64
	require.NoError(t, conn.Model(&Record{}).Where("key = ?", key).Count(&count).Error)
	require.EqualValues(t, 1, count, "an empty cart is still a stored record")
}
