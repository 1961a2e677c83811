package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/janithpag/reztobelle-admin-web-sub000/internal/apperr"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/inventory"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/report"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/report/dto"
	"github.com/janithpag/reztobelle-admin-web-sub000/pkg/logger"
)

const (
	defaultTopLimit = 10
	maxTopLimit     = 50
)

type ReportHandler struct {
	repo        report.Repository
	inventoryUC inventory.UseCase
	logger      logger.Logger
}

func NewReportHandler(repo report.Repository, inventoryUC inventory.UseCase, log logger.Logger) *ReportHandler {
	return &ReportHandler{
		repo:        repo,
		inventoryUC: inventoryUC,
		logger:      log,
	}
}

func (h *ReportHandler) Register(g *echo.Group) {
	g.GET("/reports/sales", h.SalesSummary)
	g.GET("/reports/orders-by-status", h.OrdersByStatus)
	g.GET("/reports/top-products", h.TopProducts)
	g.GET("/reports/inventory", h.InventorySummary)
}

func (h *ReportHandler) SalesSummary(c echo.Context) error {
	rng, err := h.dateRange(c)
	if err != nil {
		return h.fail(c, err)
	}

	summary, err := h.repo.SalesSummary(c.Request().Context(), rng)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *ReportHandler) OrdersByStatus(c echo.Context) error {
	rng, err := h.dateRange(c)
	if err != nil {
		return h.fail(c, err)
	}

	counts, err := h.repo.OrdersByStatus(c.Request().Context(), rng)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, counts)
}

func (h *ReportHandler) TopProducts(c echo.Context) error {
	rng, err := h.dateRange(c)
	if err != nil {
		return h.fail(c, err)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = defaultTopLimit
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}

	products, err := h.repo.TopProducts(c.Request().Context(), rng, limit)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ReportHandler) InventorySummary(c echo.Context) error {
	summary, err := h.inventoryUC.GetInventorySummary(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// dateRange parses from/to query params as YYYY-MM-DD. The default window is
// the last 30 days; to is exclusive at the following midnight.
func (h *ReportHandler) dateRange(c echo.Context) (dto.DateRange, error) {
	now := time.Now().UTC()
	rng := dto.DateRange{
		From: now.AddDate(0, 0, -30).Truncate(24 * time.Hour),
		To:   now.Truncate(24 * time.Hour).AddDate(0, 0, 1),
	}

	if raw := c.QueryParam("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return rng, apperr.Wrap(apperr.ErrValidation, "invalid from date %q", raw)
		}
		rng.From = from
	}
	if raw := c.QueryParam("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return rng, apperr.Wrap(apperr.ErrValidation, "invalid to date %q", raw)
		}
		rng.To = to.AddDate(0, 0, 1)
	}
	if !rng.To.After(rng.From) {
		return rng, apperr.Wrap(apperr.ErrValidation, "to must be after from")
	}
	return rng, nil
}

func (h *ReportHandler) fail(c echo.Context, err error) error {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("report request failed", zap.Error(err), zap.String("path", c.Path()))
		return c.JSON(status, map[string]string{"error": "internal error"})
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
