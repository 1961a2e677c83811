package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/janithpag/reztobelle-admin-web-sub000/internal/apperr"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/category"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/category/dto"
	"github.com/janithpag/reztobelle-admin-web-sub000/pkg/logger"
)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.Logger
}

func NewCategoryHandler(uc category.UseCase, log logger.Logger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CategoryHandler) Register(g *echo.Group) {
	g.GET("/categories", h.List)
	g.POST("/categories", h.Create)
	g.GET("/categories/:id", h.Get)
	g.PUT("/categories/:id", h.Update)
	g.DELETE("/categories/:id", h.Delete)
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
	IsActive    bool   `json:"is_active"`
}

func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, apperr.Wrap(apperr.ErrValidation, "invalid request body"))
	}

	cat, err := h.uc.CreateCategory(c.Request().Context(), &dto.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return h.fail(c, apperr.Wrap(apperr.ErrValidation, "invalid category id"))
	}

	cat, err := h.uc.GetCategory(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) List(c echo.Context) error {
	includeInactive, _ := strconv.ParseBool(c.QueryParam("include_inactive"))

	items, err := h.uc.ListCategories(c.Request().Context(), includeInactive)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"items": items})
}

func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return h.fail(c, apperr.Wrap(apperr.ErrValidation, "invalid category id"))
	}

	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, apperr.Wrap(apperr.ErrValidation, "invalid request body"))
	}

	cat, err := h.uc.UpdateCategory(c.Request().Context(), &dto.UpdateCategoryInput{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return h.fail(c, apperr.Wrap(apperr.ErrValidation, "invalid category id"))
	}

	if err := h.uc.DeleteCategory(c.Request().Context(), id); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CategoryHandler) fail(c echo.Context, err error) error {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("category request failed", zap.Error(err), zap.String("path", c.Path()))
		return c.JSON(status, map[string]string{"error": "internal error"})
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
