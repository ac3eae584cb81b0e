package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxManagerGorm_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	gormDB := newTestDB(t)
	tm := NewTxManagerGorm(gormDB)

	o := newOrder("cs_test_TX", time.Now().UTC())
	boom := errors.New("boom")

	err := tm.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Orders().Create(ctx, o); err != nil {
			return err
		}
		if err := r.OrderItems().CreateBulk(ctx, o.ID, []model.OrderItem{newItem("A", 1, "1.00")}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	//ヘッダも明細も残らない
	_, found, err := NewOrderGormRepository(gormDB).FindBySessionID(ctx, "cs_test_TX")
	require.NoError(t, err)
	assert.False(t, found)

	var count int64
	require.NoError(t, gormDB.Model(&model.OrderItem{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTxManagerGorm_CommitWithAudit(t *testing.T) {
	ctx := context.Background()
	gormDB := newTestDB(t)
	tm := NewTxManagerGorm(gormDB)

	o := newOrder("cs_test_OK", time.Now().UTC())
	err := tm.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Orders().Create(ctx, o); err != nil {
			return err
		}
		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorEmail:   "ops@example.com",
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   o.ID,
			CreatedAt:    time.Now().UTC(),
		})
	})
	require.NoError(t, err)

	resourceID := o.ID
	logs, err := NewAuditLogGormRepository(gormDB).List(ctx, repo.AuditLogFilter{ResourceID: &resourceID})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "ops@example.com", logs[0].ActorEmail)
}
