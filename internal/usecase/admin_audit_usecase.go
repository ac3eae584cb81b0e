package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/logger"
	repo "storefront/internal/repository"
)

// 注文ごとの操作履歴（削除済みの注文でも見られる）
type AdminAuditUsecase struct {
	audits repo.AuditLogRepository
}

func NewAdminAuditUsecase(audits repo.AuditLogRepository) *AdminAuditUsecase {
	return &AdminAuditUsecase{audits: audits}
}

type AuditLogOutput struct {
	ID         int64     `json:"id"`
	ActorEmail string    `json:"actor_email"`
	Action     string    `json:"action"`
	Before     any       `json:"before"`
	After      any       `json:"after"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListForOrder は注文の履歴を返す。actorEmail を渡すとその管理者の操作だけにする。
func (u *AdminAuditUsecase) ListForOrder(ctx context.Context, orderID string, actorEmail string) ([]AuditLogOutput, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return []AuditLogOutput{}, NewHTTPError(http.StatusBadRequest, "missing id")
	}

	rt := model.AuditResourceOrder
	filter := repo.AuditLogFilter{
		ResourceType: &rt,
		ResourceID:   &orderID,
		Limit:        200,
	}
	//監査ログのメールは小文字で入っている
	if actor := strings.ToLower(strings.TrimSpace(actorEmail)); actor != "" {
		filter.ActorEmail = &actor
	}

	logs, err := u.audits.List(ctx, filter)
	if err != nil {
		logger.FromCtx(ctx).Error("list audit logs", "order_id", orderID, "err", err)
		return []AuditLogOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]AuditLogOutput, 0, len(logs))
	for _, l := range logs {
		outs = append(outs, AuditLogOutput{
			ID:         l.ID,
			ActorEmail: l.ActorEmail,
			Action:     string(l.Action),
			Before:     rawStringOrNil(l.BeforeJSON),
			After:      rawStringOrNil(l.AfterJSON),
			CreatedAt:  l.CreatedAt,
		})
	}
	return outs, nil
}
