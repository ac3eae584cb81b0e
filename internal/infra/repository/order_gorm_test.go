package repository

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderGormRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	gormDB := newTestDB(t)
	orders := NewOrderGormRepository(gormDB)
	items := NewOrderItemGormRepository(gormDB)

	o := newOrder("cs_test_ABC123", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, orders.Create(ctx, o))
	require.NoError(t, items.CreateBulk(ctx, o.ID, []model.OrderItem{
		newItem("MAT-DBL", 1, "399.00"),
		newItem("PIL-STD", 2, "50.00"),
	}))

	got, err := orders.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "test_ABC123", got.OrderNumber)
	assert.True(t, got.TotalAmount.Equal(o.TotalAmount))
	require.Len(t, got.Items, 2)
	assert.Equal(t, "MAT-DBL", got.Items[0].SKU)
	assert.Equal(t, o.ID, got.Items[1].OrderID)

	bySession, found, err := orders.FindBySessionID(ctx, "cs_test_ABC123")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, o.ID, bySession.ID)
}

func TestOrderGormRepository_FindByID_NotFound(t *testing.T) {
	orders := NewOrderGormRepository(newTestDB(t))

	_, err := orders.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestOrderGormRepository_FindBySessionID_NotFound(t *testing.T) {
	orders := NewOrderGormRepository(newTestDB(t))

	_, found, err := orders.FindBySessionID(context.Background(), "cs_live_nope")
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestOrderGormRepository_Create_DuplicateSession(t *testing.T) {
	ctx := context.Background()
	orders := NewOrderGormRepository(newTestDB(t))

	now := time.Now().UTC()
	require.NoError(t, orders.Create(ctx, newOrder("cs_test_DUP", now)))

	err := orders.Create(ctx, newOrder("cs_test_DUP", now))
	assert.ErrorIs(t, err, repo.ErrDuplicate)
}

func TestOrderGormRepository_ListAdmin_DayFilterNewestFirst(t *testing.T) {
	ctx := context.Background()
	gormDB := newTestDB(t)
	orders := NewOrderGormRepository(gormDB)
	items := NewOrderItemGormRepository(gormDB)

	before := newOrder("cs_test_BEFORE", time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC))
	early := newOrder("cs_test_EARLY", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	late := newOrder("cs_test_LATE", time.Date(2024, 3, 1, 23, 59, 59, 0, time.UTC))
	after := newOrder("cs_test_AFTER", time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))
	for _, o := range []model.Order{before, early, late, after} {
		require.NoError(t, orders.Create(ctx, o))
	}
	require.NoError(t, items.CreateBulk(ctx, early.ID, []model.OrderItem{newItem("A", 1, "10.00")}))

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	got, err := orders.ListAdmin(ctx, repo.AdminOrderListFilter{From: &from, To: &to})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, late.ID, got[0].ID)
	assert.Equal(t, early.ID, got[1].ID)
	assert.Len(t, got[1].Items, 1)
	assert.Empty(t, got[0].Items)
}

func TestOrderGormRepository_ListAdmin_StatusFilter(t *testing.T) {
	ctx := context.Background()
	orders := NewOrderGormRepository(newTestDB(t))

	now := time.Now().UTC()
	a := newOrder("cs_test_A", now)
	b := newOrder("cs_test_B", now.Add(time.Second))
	b.Status = model.OrderStatusDelivered
	require.NoError(t, orders.Create(ctx, a))
	require.NoError(t, orders.Create(ctx, b))

	got, err := orders.ListAdmin(ctx, repo.AdminOrderListFilter{Status: "delivered"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)
}

func TestOrderGormRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	orders := NewOrderGormRepository(newTestDB(t))

	o := newOrder("cs_test_S", time.Now().UTC())
	require.NoError(t, orders.Create(ctx, o))

	require.NoError(t, orders.UpdateStatus(ctx, o.ID, model.OrderStatusDelivered))
	//後戻りもできる
	require.NoError(t, orders.UpdateStatus(ctx, o.ID, model.OrderStatusPending))

	got, err := orders.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, got.Status)

	assert.ErrorIs(t, orders.UpdateStatus(ctx, "missing", model.OrderStatusPending), repo.ErrNotFound)
}

func TestOrderGormRepository_UpdateTracking(t *testing.T) {
	ctx := context.Background()
	orders := NewOrderGormRepository(newTestDB(t))

	o := newOrder("cs_test_T", time.Now().UTC())
	require.NoError(t, orders.Create(ctx, o))

	at := time.Date(2024, 3, 2, 9, 30, 0, 0, time.UTC)
	require.NoError(t, orders.UpdateTracking(ctx, o.ID, "RM123456789GB", at))

	got, err := orders.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDispatched, got.Status)
	require.NotNil(t, got.TrackingNumber)
	assert.Equal(t, "RM123456789GB", *got.TrackingNumber)
	require.NotNil(t, got.DispatchedAt)
	assert.True(t, got.DispatchedAt.Equal(at))

	assert.ErrorIs(t, orders.UpdateTracking(ctx, "missing", "X", at), repo.ErrNotFound)
}

func TestOrderGormRepository_Delete_CascadesItems(t *testing.T) {
	ctx := context.Background()
	gormDB := newTestDB(t)
	orders := NewOrderGormRepository(gormDB)
	items := NewOrderItemGormRepository(gormDB)

	o := newOrder("cs_test_DEL", time.Now().UTC())
	require.NoError(t, orders.Create(ctx, o))
	require.NoError(t, items.CreateBulk(ctx, o.ID, []model.OrderItem{
		newItem("A", 1, "10.00"),
		newItem("B", 3, "5.00"),
	}))

	require.NoError(t, orders.Delete(ctx, o.ID))

	var count int64
	require.NoError(t, gormDB.Model(&model.OrderItem{}).Count(&count).Error)
	assert.Zero(t, count)

	assert.ErrorIs(t, orders.Delete(ctx, o.ID), repo.ErrNotFound)
}
