// Package notification は注文メールを送る。
// 送信失敗はログとメトリクスだけで、呼び出し元には返さない。
package notification

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"storefront/internal/domain/model"
	"storefront/internal/infra/mail"
	"storefront/internal/logger"
	"storefront/internal/metrics"
)

type Mailer interface {
	Send(ctx context.Context, msg mail.Message) error
}

const (
	KindCustomerConfirmation = "customer_confirmation"
	KindOperatorNewOrder     = "operator_new_order"
	KindCustomerDispatched   = "customer_dispatched"
)

type Dispatcher struct {
	mailer        Mailer
	operatorEmail string
	storeName     string
	metrics       *metrics.Metrics
}

func NewDispatcher(mailer Mailer, operatorEmail string, storeName string, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		mailer:        mailer,
		operatorEmail: operatorEmail,
		storeName:     storeName,
		metrics:       m,
	}
}

type templateData struct {
	Order     model.Order
	StoreName string
}

// OrderPlaced は購入者（アドレスがあれば）と運営に送る。
func (d *Dispatcher) OrderPlaced(ctx context.Context, order model.Order) {
	if order.CustomerEmail != nil && *order.CustomerEmail != "" {
		d.send(ctx, KindCustomerConfirmation, order, *order.CustomerEmail,
			fmt.Sprintf("Order confirmation #%s", order.OrderNumber), customerConfirmationTmpl)
	}

	if d.operatorEmail == "" {
		logger.FromCtx(ctx).Warn("operator email not configured", "order_id", order.ID)
		return
	}
	d.send(ctx, KindOperatorNewOrder, order, d.operatorEmail,
		fmt.Sprintf("New order #%s", order.OrderNumber), operatorNewOrderTmpl)
}

// OrderDispatched は購入者に発送を知らせる。
func (d *Dispatcher) OrderDispatched(ctx context.Context, order model.Order) {
	if order.CustomerEmail == nil || *order.CustomerEmail == "" {
		return
	}
	d.send(ctx, KindCustomerDispatched, order, *order.CustomerEmail,
		fmt.Sprintf("Your order #%s has been dispatched", order.OrderNumber), customerDispatchedTmpl)
}

func (d *Dispatcher) send(ctx context.Context, kind string, order model.Order, to string, subject string, tmpl *template.Template) {
	log := logger.FromCtx(ctx).With("kind", kind, "order_id", order.ID)

	var body bytes.Buffer
	if err := tmpl.Execute(&body, templateData{Order: order, StoreName: d.storeName}); err != nil {
		log.Error("render notification", "err", err)
		d.count(kind, "failed")
		return
	}

	err := d.mailer.Send(ctx, mail.Message{
		To:      []string{to},
		Subject: subject,
		Body:    body.String(),
	})
	if err != nil {
		log.Error("send notification", "err", err)
		d.count(kind, "failed")
		return
	}
	d.count(kind, "sent")
}

func (d *Dispatcher) count(kind, result string) {
	if d.metrics != nil {
		d.metrics.Notifications.WithLabelValues(kind, result).Inc()
	}
}
