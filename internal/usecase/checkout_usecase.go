package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/domain/payment"
	"storefront/internal/logger"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	//チェックアウト時にカートの中身を入れておくメタデータのキー
	itemsMetadataKey = "items"
	//セッションIDの固定プレフィックス（注文番号からは外す）
	sessionIDPrefix = "cs_"
)

// 金額は最小単位（ペンス）で届く
var minorUnits = decimal.NewFromInt(100)

type MaterializeOutcome string

const (
	OutcomeCreated   MaterializeOutcome = "created"
	OutcomeDuplicate MaterializeOutcome = "duplicate"
)

type MaterializeResult struct {
	Outcome MaterializeOutcome
	Order   model.Order
}

// チェックアウト時に metadata に入れた最小限のカート情報
type stashedItem struct {
	ID       string          `json:"id"`
	Size     string          `json:"size"`
	Quantity int64           `json:"quantity"`
	SKU      string          `json:"sku"`
	Price    decimal.Decimal `json:"price"`
}

type CheckoutUsecase struct {
	orders    repo.OrderRepository
	tx        repo.TransactionManager
	lineItems LineItemSource
	ledger    EventLedger
	notifier  Notifier
	ids       IDGenerator
	clock     Clock
}

func NewCheckoutUsecase(
	orders repo.OrderRepository,
	tx repo.TransactionManager,
	lineItems LineItemSource,
	ledger EventLedger,
	notifier Notifier,
	ids IDGenerator,
	clock Clock,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		orders:    orders,
		tx:        tx,
		lineItems: lineItems,
		ledger:    ledger,
		notifier:  notifier,
		ids:       ids,
		clock:     clock,
	}
}

// HandleCompleted は検証済みの checkout.session.completed から注文と明細を作る。
// 同じイベント/セッションの再送は OutcomeDuplicate で何もしない。
func (u *CheckoutUsecase) HandleCompleted(ctx context.Context, eventID string, sess payment.CheckoutSession) (MaterializeResult, error) {
	log := logger.FromCtx(ctx).With("event_id", eventID, "session_id", sess.ID)

	first, err := u.ledger.MarkProcessed(ctx, eventID)
	if err != nil {
		//Redisが落ちていても、DBの一意制約で守られる
		log.Warn("event ledger unavailable", "err", err)
	} else if !first {
		log.Info("event already processed")
		return MaterializeResult{Outcome: OutcomeDuplicate}, nil
	}

	existing, found, err := u.orders.FindBySessionID(ctx, sess.ID)
	if err != nil {
		u.forget(ctx, eventID)
		return MaterializeResult{}, fmt.Errorf("find order by session: %w", err)
	}
	if found {
		log.Info("order already exists for session", "order_id", existing.ID)
		return MaterializeResult{Outcome: OutcomeDuplicate, Order: existing}, nil
	}

	stashed := parseStashedItems(ctx, sess.Metadata[itemsMetadataKey])

	lines, err := u.lineItems.ListLineItems(ctx, sess.ID)
	if err != nil {
		//metadata だけで続ける
		log.Warn("list line items failed", "err", err)
		lines = nil
	}

	now := u.clock.Now().UTC()
	order := model.Order{
		ID:              u.ids.NewID(),
		OrderNumber:     OrderNumberFromSession(sess.ID),
		StripeSessionID: sess.ID,
		CustomerName:    sess.Name(),
		ShippingAddress: jsonBlob(sess.ShippingDetails),
		TotalAmount:     decimal.NewFromInt(sess.AmountTotal).Div(minorUnits),
		Currency:        currencyOrDefault(sess.Currency),
		Status:          model.OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if email := sess.Email(); email != "" {
		order.CustomerEmail = &email
	}
	if sess.CustomerDetails != nil {
		order.BillingAddress = jsonBlob(sess.CustomerDetails.Address)
	}

	items := buildOrderItems(order.ID, stashed, lines, now)

	//ヘッダと明細は同じトランザクションで入れる
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Orders().Create(ctx, order); err != nil {
			return err
		}
		return r.OrderItems().CreateBulk(ctx, order.ID, items)
	})
	if errors.Is(err, repo.ErrDuplicate) {
		log.Info("order already exists for session (unique index)")
		return MaterializeResult{Outcome: OutcomeDuplicate}, nil
	}
	if err != nil {
		u.forget(ctx, eventID)
		return MaterializeResult{}, fmt.Errorf("insert order: %w", err)
	}

	order.Items = items
	log.Info("order materialized", "order_id", order.ID, "order_number", order.OrderNumber, "items", len(items))

	u.notifier.OrderPlaced(ctx, order)

	return MaterializeResult{Outcome: OutcomeCreated, Order: order}, nil
}

func (u *CheckoutUsecase) forget(ctx context.Context, eventID string) {
	if err := u.ledger.Forget(ctx, eventID); err != nil {
		logger.FromCtx(ctx).Warn("event ledger forget failed", "event_id", eventID, "err", err)
	}
}

// OrderNumberFromSession は cs_test_ABC123 -> test_ABC123
func OrderNumberFromSession(sessionID string) string {
	return strings.TrimPrefix(sessionID, sessionIDPrefix)
}

// 壊れた metadata は「明細なし」として扱う（注文ヘッダは残す）
func parseStashedItems(ctx context.Context, raw string) []stashedItem {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var items []stashedItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		logger.FromCtx(ctx).Warn("cannot parse items metadata", "err", err)
		return nil
	}
	return items
}

// metadata の i 番目と決済側の i 番目を対応させる
func buildOrderItems(orderID string, stashed []stashedItem, lines []payment.LineItem, now time.Time) []model.OrderItem {
	out := make([]model.OrderItem, 0, len(stashed))
	for i, s := range stashed {
		var line *payment.LineItem
		if i < len(lines) {
			line = &lines[i]
		}

		//数量: 決済側 > metadata
		qty := s.Quantity
		if line != nil && line.Quantity > 0 {
			qty = line.Quantity
		}
		if qty <= 0 {
			qty = 1
		}

		//SKU: 商品側の属性 > metadata > UNKNOWN
		sku := model.UnknownSKU
		switch {
		case line != nil && line.SKU != "":
			sku = line.SKU
		case s.SKU != "":
			sku = s.SKU
		}

		name := s.ID
		color := ""
		if line != nil {
			if line.Description != "" {
				name = line.Description
			}
			color = line.Color
		}

		var unit, total decimal.Decimal
		//決済側の明細があれば請求額をそのまま使う（0円の明細も含む）
		if line != nil {
			total = decimal.NewFromInt(line.AmountTotal).Div(minorUnits)
			unit = total.Div(decimal.NewFromInt(qty)).Round(2)
		} else {
			unit = s.Price
			total = unit.Mul(decimal.NewFromInt(qty))
		}

		out = append(out, model.OrderItem{
			OrderID:     orderID,
			SKU:         sku,
			ProductName: name,
			Size:        s.Size,
			Color:       color,
			Quantity:    qty,
			UnitPrice:   unit,
			TotalPrice:  total,
			CreatedAt:   now,
		})
	}
	return out
}

func jsonBlob(raw json.RawMessage) datatypes.JSON {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return datatypes.JSON(trimmed)
}

func currencyOrDefault(c string) string {
	if c == "" {
		return "gbp"
	}
	return strings.ToLower(c)
}
