package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/producthub/catalog-api/internal/api/metrics"
	"github.com/producthub/catalog-api/internal/core/ports"
)

type ProductHandler struct {
	svc ports.ProductService
	log zerolog.Logger
}

func NewProductHandler(svc ports.ProductService, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{svc: svc, log: log}
}

// List browses the catalog.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        q           query     string   false  "Case-insensitive text over name and description"
// @Param        category    query     string   false  "Exact category"
// @Param        min_price   query     number   false  "Minimum price"
// @Param        max_price   query     number   false  "Maximum price"
// @Param        min_rating  query     number   false  "Minimum rating (0-5)"
// @Param        limit       query     int      false  "Page size (max 100)"
// @Param        offset      query     int      false  "Items to skip"
// @Success      200         {array}   domain.Product
// @Failure      400         {object}  errorBody
// @Router       /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	var q listProductsQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	products, err := h.svc.List(c.Request().Context(), q.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// Categories lists the distinct product categories.
//
// @Summary      List categories
// @Tags         products
// @Produce      json
// @Success      200  {array}  string
// @Router       /products/categories [get]
func (h *ProductHandler) Categories(c echo.Context) error {
	cats, err := h.svc.Categories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cats)
}

// Get returns a single product.
//
// @Summary      Get product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  domain.Product
// @Failure      404  {object}  errorBody
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	p, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Create adds a product to the catalog.
//
// @Summary      Create product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      ports.CreateProductInput  true  "Product"
// @Success      200   {object}  domain.Product
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Router       /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}

	var in ports.CreateProductInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	p, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}

	metrics.ProductMutationsTotal.WithLabelValues("create").Inc()
	h.log.Info().Str("product_id", p.ID).Str("actor", id.Subject).Msg("product created")
	return c.JSON(http.StatusOK, p)
}

// Update changes the provided fields of a product.
//
// @Summary      Update product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Product id"
// @Param        body  body      ports.UpdateProductInput  true  "Fields to change"
// @Success      200   {object}  domain.Product
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}

	var in ports.UpdateProductInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	p, err := h.svc.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}

	metrics.ProductMutationsTotal.WithLabelValues("update").Inc()
	h.log.Info().Str("product_id", p.ID).Str("actor", id.Subject).Msg("product updated")
	return c.JSON(http.StatusOK, p)
}

// Delete removes a product.
//
// @Summary      Delete product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}

	productID := c.Param("id")
	if err := h.svc.Delete(c.Request().Context(), productID); err != nil {
		return err
	}

	metrics.ProductMutationsTotal.WithLabelValues("delete").Inc()
	h.log.Info().Str("product_id", productID).Str("actor", id.Subject).Msg("product deleted")
	return c.JSON(http.StatusOK, messageResponse{Message: "product deleted"})
}
