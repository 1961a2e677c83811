package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/janithpag/reztobelle-admin-web-sub000/internal/apperr"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/auth"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/inventory"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/inventory/dto"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/model"
	"github.com/janithpag/reztobelle-admin-web-sub000/pkg/logger"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.Logger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.Logger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) Register(g *echo.Group) {
	g.GET("/inventory", h.GetLevels)
	g.GET("/inventory/low-stock", h.GetLowStock)
	g.GET("/inventory/summary", h.GetSummary)
	g.GET("/inventory/movements", h.GetMovements)
	g.GET("/inventory/:productId/cost-history", h.GetCostHistory)
	g.POST("/inventory/:productId/reserve", h.Reserve)
	g.POST("/inventory/:productId/release", h.Release)
	g.POST("/inventory/:productId/confirm", h.Confirm)
	g.POST("/inventory/adjust", h.Adjust)
}

type quantityRequest struct {
	Quantity int64 `json:"quantity"`
}

type adjustRequest struct {
	ProductID     int64            `json:"product_id"`
	Quantity      int64            `json:"quantity"`
	MovementType  string           `json:"movement_type"`
	ReferenceType string           `json:"reference_type"`
	ReferenceID   *int64           `json:"reference_id"`
	Notes         string           `json:"notes"`
	UnitCost      *decimal.Decimal `json:"unit_cost"`
}

func (h *InventoryHandler) Reserve(c echo.Context) error {
	return h.quantityOp(c, h.uc.ReserveStock)
}

func (h *InventoryHandler) Release(c echo.Context) error {
	return h.quantityOp(c, h.uc.ReleaseStock)
}

func (h *InventoryHandler) Confirm(c echo.Context) error {
	return h.quantityOp(c, h.uc.ConfirmStock)
}

func (h *InventoryHandler) quantityOp(c echo.Context, op func(ctx context.Context, productID, quantity int64) (*model.Inventory, error)) error {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		return h.fail(c, apperr.Wrap(apperr.ErrValidation, "invalid product id"))
	}

	var req quantityRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, apperr.Wrap(apperr.ErrValidation, "invalid request body"))
	}

	inv, err := op(c.Request().Context(), productID, req.Quantity)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *InventoryHandler) Adjust(c echo.Context) error {
	var req adjustRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, apperr.Wrap(apperr.ErrValidation, "invalid request body"))
	}

	result, err := h.uc.AdjustStock(c.Request().Context(), &dto.AdjustStockInput{
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		MovementType:  req.MovementType,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		Notes:         req.Notes,
		UnitCost:      req.UnitCost,
		ActorID:       auth.ActorID(c),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *InventoryHandler) GetLevels(c echo.Context) error {
	includeInactive, _ := strconv.ParseBool(c.QueryParam("include_inactive"))

	items, err := h.uc.GetInventoryLevels(c.Request().Context(), includeInactive)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"items": items})
}

func (h *InventoryHandler) GetLowStock(c echo.Context) error {
	items, err := h.uc.GetLowStockItems(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"items": items})
}

func (h *InventoryHandler) GetSummary(c echo.Context) error {
	summary, err := h.uc.GetInventorySummary(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *InventoryHandler) GetMovements(c echo.Context) error {
	filters := &dto.MovementFilters{
		MovementType: c.QueryParam("movement_type"),
	}
	if raw := c.QueryParam("product_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return h.fail(c, apperr.Wrap(apperr.ErrValidation, "invalid product id"))
		}
		filters.ProductID = &id
	}
	filters.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	filters.Offset, _ = strconv.Atoi(c.QueryParam("offset"))

	movements, total, err := h.uc.GetStockMovements(c.Request().Context(), filters)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"movements": movements,
		"total":     total,
	})
}

func (h *InventoryHandler) GetCostHistory(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		return h.fail(c, apperr.Wrap(apperr.ErrValidation, "invalid product id"))
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	history, err := h.uc.GetCostHistory(c.Request().Context(), productID, limit)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, history)
}

func (h *InventoryHandler) fail(c echo.Context, err error) error {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("inventory request failed", zap.Error(err), zap.String("path", c.Path()))
		return c.JSON(status, map[string]string{"error": "internal error"})
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
