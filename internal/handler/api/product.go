package api

import (
	"errors"
	"net/http"
	"strconv"

	resdto "shop-inventory/internal/handler/dto/response"
	"shop-inventory/internal/pkg/errs"
	"shop-inventory/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductHandler struct {
	productQueries queries.ProductQueries
	skuQueries     queries.SkuQueries
}

func NewProductHandler(productQueries queries.ProductQueries, skuQueries queries.SkuQueries) *ProductHandler {
	return &ProductHandler{
		productQueries: productQueries,
		skuQueries:     skuQueries,
	}
}

// @Summary List storefront products
// @Description Cursor-paginated listing of non-archived products with aggregated availability
// @Tags products
// @Produce json
// @Param after query string false "Opaque cursor from a previous page"
// @Param limit query int false "Page size (default 20, max 200)"
// @Success 200 {object} resdto.ProductListResponse
// @Failure 400 {object} map[string]string
// @Router /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid limit",
			})
			return
		}
		limit = parsed
	}

	page, err := h.productQueries.ListStorefront(c.Request.Context(), c.Query("after"), limit)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid cursor",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromProductListPage(page))
}

// @Summary Get product detail
// @Description Product with its SKUs and stored availability counters
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} resdto.ProductDetailResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /products/{id} [get]
func (h *ProductHandler) GetDetail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID format",
		})
		return
	}

	view, err := h.productQueries.GetDetail(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromProductDetail(view))
}

// @Summary Get SKU availability
// @Description Single-SKU ledger view with stored counters; expired unswept holds still count as reserved
// @Tags products
// @Produce json
// @Param id path string true "SKU ID"
// @Success 200 {object} queries.SkuView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /skus/{id} [get]
func (h *ProductHandler) GetSku(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid SKU ID format",
		})
		return
	}

	view, err := h.skuQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrSkuNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "SKU not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, view)
}
