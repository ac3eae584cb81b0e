package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminOrderHandler struct {
	uc     *usecase.AdminOrderUsecase
	audits *usecase.AdminAuditUsecase
}

func NewAdminOrderHandler(uc *usecase.AdminOrderUsecase, audits *usecase.AdminAuditUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc, audits: audits}
}

type OrderStatusUpdateRequest struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

type OrderTrackingUpdateRequest struct {
	OrderID        string `json:"order_id"`
	TrackingNumber string `json:"tracking_number"`
}

// admin は SessionAuth + ManagerGuard 済みのグループ
func (h *AdminOrderHandler) RegisterRoutes(admin *echo.Group) {
	admin.GET("/orders", h.list)
	admin.GET("/orders/:id", h.detail)
	admin.GET("/orders/:id/history", h.history)
	admin.POST("/orders/status", h.updateStatus)
	admin.POST("/orders/tracking", h.updateTracking)
	admin.DELETE("/orders", h.delete)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context(), usecase.AdminOrderListInput{
		Date:   c.QueryParam("date"),
		Status: c.QueryParam("status"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) detail(c echo.Context) error {
	out, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 操作履歴（新しい順）。?actor= で管理者を絞り込む
func (h *AdminOrderHandler) history(c echo.Context) error {
	out, err := h.audits.ListForOrder(c.Request().Context(), c.Param("id"), c.QueryParam("actor"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	var req OrderStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	// 操作した管理者（監査ログ用）
	actor, _ := middleware.SessionEmail(c)

	if err := h.uc.UpdateStatus(c.Request().Context(), actor, usecase.AdminUpdateOrderStatusInput{
		OrderID: req.OrderID,
		Status:  req.Status,
	}); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}

func (h *AdminOrderHandler) updateTracking(c echo.Context) error {
	var req OrderTrackingUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	actor, _ := middleware.SessionEmail(c)

	out, err := h.uc.UpdateTracking(c.Request().Context(), actor, usecase.AdminUpdateTrackingInput{
		OrderID:        req.OrderID,
		TrackingNumber: req.TrackingNumber,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) delete(c echo.Context) error {
	actor, _ := middleware.SessionEmail(c)

	if err := h.uc.Delete(c.Request().Context(), actor, c.QueryParam("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}
