package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/janithpag/reztobelle-admin-web-sub000/internal/apperr"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/delivery"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/delivery/dto"
	"github.com/janithpag/reztobelle-admin-web-sub000/pkg/logger"
)

type DeliveryHandler struct {
	uc     delivery.UseCase
	logger logger.Logger
}

func NewDeliveryHandler(uc delivery.UseCase, log logger.Logger) *DeliveryHandler {
	return &DeliveryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *DeliveryHandler) Register(g *echo.Group) {
	g.GET("/deliveries", h.List)
	g.POST("/deliveries", h.Create)
	g.GET("/deliveries/order/:orderId", h.GetByOrder)
	g.POST("/deliveries/:id/refresh", h.Refresh)
	g.GET("/deliveries/districts", h.Districts)
	g.GET("/deliveries/districts/:districtId/cities", h.Cities)
}

func (h *DeliveryHandler) Create(c echo.Context) error {
	var input dto.CreateDeliveryInput
	if err := c.Bind(&input); err != nil {
		return h.fail(c, apperr.Wrap(apperr.ErrValidation, "invalid request body"))
	}

	d, err := h.uc.CreateDelivery(c.Request().Context(), &input)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *DeliveryHandler) List(c echo.Context) error {
	deliveries, err := h.uc.ListDeliveries(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, deliveries)
}

func (h *DeliveryHandler) GetByOrder(c echo.Context) error {
	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		return h.fail(c, apperr.Wrap(apperr.ErrValidation, "invalid order id"))
	}

	d, err := h.uc.GetDeliveryByOrder(c.Request().Context(), orderID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *DeliveryHandler) Refresh(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return h.fail(c, apperr.Wrap(apperr.ErrValidation, "invalid delivery id"))
	}

	d, err := h.uc.RefreshTracking(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *DeliveryHandler) Districts(c echo.Context) error {
	districts, err := h.uc.ListDistricts(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, districts)
}

func (h *DeliveryHandler) Cities(c echo.Context) error {
	districtID, err := strconv.ParseInt(c.Param("districtId"), 10, 64)
	if err != nil {
		return h.fail(c, apperr.Wrap(apperr.ErrValidation, "invalid district id"))
	}

	cities, err := h.uc.ListCities(c.Request().Context(), districtID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, cities)
}

func (h *DeliveryHandler) fail(c echo.Context, err error) error {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("delivery request failed", zap.Error(err), zap.String("path", c.Path()))
		return c.JSON(status, map[string]string{"error": "internal error"})
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
