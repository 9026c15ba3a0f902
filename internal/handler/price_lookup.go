package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/srouini/SmartStore/internal/apierror"
	"github.com/srouini/SmartStore/internal/dto"
	"github.com/srouini/SmartStore/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const priceCacheTTL = 4 * time.Hour

// PriceLookupHandler serves the public price check endpoint.
// No authentication required — no side effects whatsoever.
type PriceLookupHandler struct {
	repo repository.ProductRepository
	rdb  *redis.Client
}

func NewPriceLookupHandler(repo repository.ProductRepository, rdb *redis.Client) *PriceLookupHandler {
	return &PriceLookupHandler{repo: repo, rdb: rdb}
}

// GetPriceByCode godoc
// @Summary Price check by product code (no authentication)
// @Tags price
// @Produce json
// @Param code path string true "4-character product code"
// @Success 200 {object} dto.PriceLookupResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/price/{code} [get]
func (h *PriceLookupHandler) GetPriceByCode(c *gin.Context) {
	code := strings.ToUpper(c.Param("code"))
	ctx := c.Request.Context()
	cacheKey := "price:" + code

	// 1. Try Redis cache
	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.PriceLookupResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	// 2. Cache miss — query DB
	product, err := h.repo.FindByCode(ctx, code)
	if err != nil || !product.Active {
		c.JSON(http.StatusNotFound, apierror.New("Product not found"))
		return
	}

	resp := dto.PriceLookupResponse{
		Name:                 product.Name,
		Code:                 product.Code,
		ProductType:          product.ProductType,
		SellingUnitPrice:     product.SellingUnitPrice,
		SellingSemiBulkPrice: product.SellingSemiBulkPrice,
		SellingBulkPrice:     product.SellingBulkPrice,
	}
	if product.Stock != nil {
		resp.StockAvailable = product.Stock.Quantity
	}

	// 3. Populate cache — best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, priceCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}
