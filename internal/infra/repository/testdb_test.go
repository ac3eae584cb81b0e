package repository

import (
	"fmt"
	"testing"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/infra/db"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// テストごとに別のインメモリDBを使う（外部キー有効）
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	gormDB, err := db.Open(sqlite.Open(dsn))
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gormDB))
	return gormDB
}

func newOrder(sessionID string, createdAt time.Time) model.Order {
	email := "jane@example.com"
	return model.Order{
		ID:              uuid.NewString(),
		OrderNumber:     sessionID[3:],
		StripeSessionID: sessionID,
		CustomerName:    "Jane Doe",
		CustomerEmail:   &email,
		TotalAmount:     decimal.RequireFromString("499.00"),
		Currency:        "gbp",
		Status:          model.OrderStatusPending,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
}

func newItem(sku string, qty int64, unit string) model.OrderItem {
	u := decimal.RequireFromString(unit)
	return model.OrderItem{
		SKU:         sku,
		ProductName: "Pocket Sprung Mattress",
		Size:        "Double",
		Quantity:    qty,
		UnitPrice:   u,
		TotalPrice:  u.Mul(decimal.NewFromInt(qty)),
		CreatedAt:   time.Now().UTC(),
	}
}
