package handler

import (
	"net/http"

	"github.com/srouini/SmartStore/internal/apierror"
	"github.com/srouini/SmartStore/internal/dto"
	"github.com/srouini/SmartStore/internal/service"

	"github.com/gin-gonic/gin"
)

type StockHandler struct{ svc service.StockService }

func NewStockHandler(svc service.StockService) *StockHandler { return &StockHandler{svc: svc} }

// Add godoc
// @Summary      Add stock
// @Description  Adds received quantity to a product's stock and journals the movement.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AddStockRequest true "Product and quantity"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Router       /v1/stock/add [post]
func (h *StockHandler) Add(c *gin.Context) {
	var req dto.AddStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Add(c.Request.Context(), req); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Adjust godoc
// @Summary      Adjust stock
// @Description  Applies a signed manual correction. Negative deltas that would drive the quantity below zero are rejected.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AdjustStockRequest true "Signed delta and reason"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /v1/stock/adjust [post]
func (h *StockHandler) Adjust(c *gin.Context) {
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Adjust(c.Request.Context(), req); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMovements godoc
// @Summary      List stock movements
// @Description  Paginated immutable movement journal, newest first.
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        product_id query string false "Filter by product UUID"
// @Param        kind       query string false "sale | purchase | adjustment | initial | restore_cancellation"
// @Success      200 {object} dto.StockMovementListResponse
// @Router       /v1/stock/movements [get]
func (h *StockHandler) ListMovements(c *gin.Context) {
	var filter dto.StockMovementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list movements"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListLevels godoc
// @Summary      Current stock levels
// @Description  Quantity on hand per active product.
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.StockResponse
// @Router       /v1/stock [get]
func (h *StockHandler) ListLevels(c *gin.Context) {
	resp, err := h.svc.ListLevels(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list stock levels"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
