package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/janithpag/reztobelle-admin-web-sub000/internal/apperr"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/model"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/order"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/order/dto"
	"github.com/janithpag/reztobelle-admin-web-sub000/pkg/logger"
)

type OrderHandler struct {
	uc     order.UseCase
	logger logger.Logger
}

func NewOrderHandler(uc order.UseCase, log logger.Logger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *OrderHandler) Register(g *echo.Group) {
	g.GET("/orders", h.List)
	g.POST("/orders", h.Create)
	g.GET("/orders/:id", h.Get)
	g.POST("/orders/:id/confirm", h.Confirm)
	g.POST("/orders/:id/ship", h.Ship)
	g.POST("/orders/:id/deliver", h.Deliver)
	g.POST("/orders/:id/pay", h.Pay)
	g.POST("/orders/:id/cancel", h.Cancel)
}

func (h *OrderHandler) Create(c echo.Context) error {
	var input dto.CreateOrderInput
	if err := c.Bind(&input); err != nil {
		return h.fail(c, apperr.Wrap(apperr.ErrValidation, "invalid request body"))
	}

	o, err := h.uc.CreateOrder(c.Request().Context(), &input)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, o)
}

func (h *OrderHandler) Get(c echo.Context) error {
	id, err := h.orderID(c)
	if err != nil {
		return h.fail(c, err)
	}

	o, err := h.uc.GetOrder(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) List(c echo.Context) error {
	filters := &dto.OrderFilters{
		Status:        c.QueryParam("status"),
		PaymentStatus: c.QueryParam("payment_status"),
		SearchQuery:   c.QueryParam("q"),
	}
	filters.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filters.PageSize, _ = strconv.Atoi(c.QueryParam("page_size"))

	orders, total, err := h.uc.ListOrders(c.Request().Context(), filters)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": orders,
		"total": total,
		"page":  filters.Page,
	})
}

func (h *OrderHandler) Confirm(c echo.Context) error {
	return h.statusOp(c, h.uc.ConfirmOrder)
}

func (h *OrderHandler) Ship(c echo.Context) error {
	return h.statusOp(c, h.uc.ShipOrder)
}

func (h *OrderHandler) Deliver(c echo.Context) error {
	return h.statusOp(c, h.uc.MarkDelivered)
}

func (h *OrderHandler) Pay(c echo.Context) error {
	return h.statusOp(c, h.uc.MarkPaid)
}

func (h *OrderHandler) Cancel(c echo.Context) error {
	return h.statusOp(c, h.uc.CancelOrder)
}

func (h *OrderHandler) statusOp(c echo.Context, op func(ctx context.Context, id int64) (*model.Order, error)) error {
	id, err := h.orderID(c)
	if err != nil {
		return h.fail(c, err)
	}

	o, err := op(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) orderID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperr.Wrap(apperr.ErrValidation, "invalid order id")
	}
	return id, nil
}

func (h *OrderHandler) fail(c echo.Context, err error) error {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("order request failed", zap.Error(err), zap.String("path", c.Path()))
		return c.JSON(status, map[string]string{"error": "internal error"})
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
