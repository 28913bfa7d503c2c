package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rentle/smart-locker/internal/model"
	"github.com/rentle/smart-locker/internal/repository"
)

// CatalogHandler serves the public product catalog.  Responses sit behind
// the Redis cache middleware, so the handler itself stays dumb.
type CatalogHandler struct {
	Products *repository.ProductRepo
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(products *repository.ProductRepo) *CatalogHandler {
	if products == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{Products: products}
}

func productJSON(p model.Product) echo.Map {
	return echo.Map{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"city":        p.City,
		"price_cents": p.PriceCents,
	}
}

// ListProducts handles GET /v1/products with an optional ?city= filter.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	products, err := h.Products.ListActive(c.Request().Context(), c.QueryParam("city"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, 0, len(products))
	for _, p := range products {
		out = append(out, productJSON(p))
	}
	return c.JSON(http.StatusOK, echo.Map{"products": out})
}

// GetProduct handles GET /v1/products/:id.
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	p, err := h.Products.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, productJSON(*p))
}
