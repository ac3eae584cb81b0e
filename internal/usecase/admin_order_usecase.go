package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/logger"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// 一覧の日付フィルタ（UTCの1日）
const dayLayout = "2006-01-02"

type AdminOrderUsecase struct {
	orders   repo.OrderRepository
	tx       repo.TransactionManager
	notifier Notifier
	clock    Clock
}

func NewAdminOrderUsecase(orders repo.OrderRepository, tx repo.TransactionManager, notifier Notifier, clock Clock) *AdminOrderUsecase {
	return &AdminOrderUsecase{orders: orders, tx: tx, notifier: notifier, clock: clock}
}

type AdminOrderListInput struct {
	Date   string // YYYY-MM-DD, 空なら全件
	Status string
}

type AdminUpdateOrderStatusInput struct {
	OrderID string
	Status  string
}

type AdminUpdateTrackingInput struct {
	OrderID        string
	TrackingNumber string
}

type OrderItemOutput struct {
	ID          int64           `json:"id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Size        string          `json:"size"`
	Color       string          `json:"color"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

type OrderOutput struct {
	ID              string            `json:"id"`
	OrderNumber     string            `json:"order_number"`
	CustomerName    string            `json:"customer_name"`
	CustomerEmail   *string           `json:"customer_email"`
	ShippingAddress any               `json:"shipping_address"`
	BillingAddress  any               `json:"billing_address"`
	TotalAmount     decimal.Decimal   `json:"total_amount"`
	Currency        string            `json:"currency"`
	Status          string            `json:"status"`
	TrackingNumber  *string           `json:"tracking_number"`
	DispatchedAt    *time.Time        `json:"dispatched_at"`
	CreatedAt       time.Time         `json:"created_at"`
	Items           []OrderItemOutput `json:"order_items"`
}

// 注文一覧（明細付き、新しい順）
func (u *AdminOrderUsecase) List(ctx context.Context, in AdminOrderListInput) ([]OrderOutput, error) {
	f := repo.AdminOrderListFilter{}

	if d := strings.TrimSpace(in.Date); d != "" {
		day, err := time.ParseInLocation(dayLayout, d, time.UTC)
		if err != nil {
			return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid date")
		}
		//[00:00:00Z, 翌日00:00:00Z)
		next := day.Add(24 * time.Hour)
		f.From = &day
		f.To = &next
	}

	if s := strings.TrimSpace(in.Status); s != "" {
		st, ok := model.ParseOrderStatus(s)
		if !ok {
			return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		f.Status = string(st)
	}

	orders, err := u.orders.ListAdmin(ctx, f)
	if err != nil {
		logger.FromCtx(ctx).Error("list orders", "err", err)
		return []OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		outs = append(outs, toOrderOutput(o))
	}
	return outs, nil
}

func (u *AdminOrderUsecase) Get(ctx context.Context, orderID string) (OrderOutput, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "missing id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		logger.FromCtx(ctx).Error("find order", "order_id", orderID, "err", err)
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toOrderOutput(o), nil
}

// ステータス更新。どの状態からどの状態へも変えられる（手動修正用）。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorEmail string, in AdminUpdateOrderStatusInput) error {
	orderID := strings.TrimSpace(in.OrderID)
	if orderID == "" {
		return NewHTTPError(http.StatusBadRequest, "missing order_id")
	}
	raw := strings.TrimSpace(in.Status)
	if raw == "" {
		return NewHTTPError(http.StatusBadRequest, "missing status")
	}
	newStatus, ok := model.ParseOrderStatus(raw)
	if !ok {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	log := logger.FromCtx(ctx).With("order_id", orderID)

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			log.Error("find order", "err", err)
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// すでに同じなら何もしない（200）
		if o.Status == newStatus {
			return nil
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			log.Error("update order status", "err", err)
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorEmail:   actorEmail,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   `{"status":"` + string(o.Status) + `"}`,
			AfterJSON:    `{"status":"` + string(newStatus) + `"}`,
			CreatedAt:    u.clock.Now().UTC(),
		}); err != nil {
			log.Error("write audit log", "err", err)
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		log.Info("order status updated", "from", o.Status, "to", newStatus, "actor", actorEmail)
		return nil
	})
}

// 追跡番号を登録して dispatched にする。発送メールは失敗しても無視。
func (u *AdminOrderUsecase) UpdateTracking(ctx context.Context, actorEmail string, in AdminUpdateTrackingInput) (OrderOutput, error) {
	orderID := strings.TrimSpace(in.OrderID)
	if orderID == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "missing order_id")
	}
	tracking := strings.TrimSpace(in.TrackingNumber)
	if tracking == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "missing tracking_number")
	}
	if len(tracking) > 255 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid tracking_number")
	}

	log := logger.FromCtx(ctx).With("order_id", orderID)
	now := u.clock.Now().UTC()

	var updated model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			log.Error("find order", "err", err)
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Orders().UpdateTracking(ctx, orderID, tracking, now); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			log.Error("update tracking", "err", err)
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		before := `{"status":"` + string(o.Status) + `"}`
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorEmail:   actorEmail,
			Action:       model.AuditActionUpdateOrderTracking,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   before,
			AfterJSON:    `{"status":"dispatched","tracking_number":"` + jsonEscape(tracking) + `"}`,
			CreatedAt:    now,
		}); err != nil {
			log.Error("write audit log", "err", err)
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		o.Status = model.OrderStatusDispatched
		o.TrackingNumber = &tracking
		o.DispatchedAt = &now
		updated = o
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	log.Info("order dispatched", "tracking_number", tracking, "actor", actorEmail)
	u.notifier.OrderDispatched(ctx, updated)

	return toOrderOutput(updated), nil
}

// 注文削除。明細は外部キーの CASCADE に任せる。
func (u *AdminOrderUsecase) Delete(ctx context.Context, actorEmail string, orderID string) error {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return NewHTTPError(http.StatusBadRequest, "missing id")
	}

	log := logger.FromCtx(ctx).With("order_id", orderID)

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			log.Error("find order", "err", err)
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Orders().Delete(ctx, orderID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			log.Error("delete order", "err", err)
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorEmail:   actorEmail,
			Action:       model.AuditActionDeleteOrder,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   `{"order_number":"` + jsonEscape(o.OrderNumber) + `","status":"` + string(o.Status) + `"}`,
			CreatedAt:    u.clock.Now().UTC(),
		}); err != nil {
			log.Error("write audit log", "err", err)
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		log.Info("order deleted", "actor", actorEmail)
		return nil
	})
}

func toOrderOutput(o model.Order) OrderOutput {
	items := make([]OrderItemOutput, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemOutput{
			ID:          it.ID,
			SKU:         it.SKU,
			ProductName: it.ProductName,
			Size:        it.Size,
			Color:       it.Color,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
		})
	}

	return OrderOutput{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		ShippingAddress: rawOrNil(o.ShippingAddress),
		BillingAddress:  rawOrNil(o.BillingAddress),
		TotalAmount:     o.TotalAmount,
		Currency:        o.Currency,
		Status:          string(o.Status),
		TrackingNumber:  o.TrackingNumber,
		DispatchedAt:    o.DispatchedAt,
		CreatedAt:       o.CreatedAt,
		Items:           items,
	}
}
