package handler

import (
	"net/http"

	"github.com/srouini/SmartStore/internal/apierror"
	"github.com/srouini/SmartStore/internal/dto"
	"github.com/srouini/SmartStore/internal/middleware"
	"github.com/srouini/SmartStore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler { return &SalesHandler{svc: svc} }

// RecordSale godoc
// @Summary      Record a sale
// @Description  Creates an ACID sale: snapshots tier prices, decrements stock, optionally issues an invoice and deposits into a cash register, then dispatches async invoice rendering.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RecordSaleRequest true "Sale detail"
// @Success      201  {object} dto.SaleResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/sales [post]
func (h *SalesHandler) RecordSale(c *gin.Context) {
	var req dto.RecordSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	operatorID := operatorIDFromClaims(c)

	resp, err := h.svc.RecordSale(c.Request.Context(), operatorID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CancelSale godoc
// @Summary      Cancel a sale
// @Description  Restores stock, reverses the cash register deposit when one was made, and marks the sale cancelled.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string               true "Sale UUID"
// @Param        body body dto.CancelSaleRequest true "Cancellation reason"
// @Success      204
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/sales/{id} [delete]
func (h *SalesHandler) CancelSale(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.CancelSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	operatorID := operatorIDFromClaims(c)
	if err := h.svc.CancelSale(c.Request.Context(), id, req.Reason, operatorID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get godoc
// @Summary      Get a sale by ID
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Sale UUID"
// @Success      200 {object} dto.SaleResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sales/{id} [get]
func (h *SalesHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List sales
// @Description  Paginated list filtered by date range, tier, status, and invoice flag.
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        from   query string false "From date YYYY-MM-DD"
// @Param        to     query string false "To date YYYY-MM-DD"
// @Param        status query string false "completed | cancelled | all"
// @Param        page   query int    false "Page (default 1)"
// @Param        limit  query int    false "Rows per page (default 50)"
// @Success      200    {object} dto.SaleListResponse
// @Router       /v1/sales [get]
func (h *SalesHandler) List(c *gin.Context) {
	var filter dto.SaleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list sales"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// operatorIDFromClaims extracts the authenticated operator's UUID, when any.
func operatorIDFromClaims(c *gin.Context) *uuid.UUID {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return nil
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil
	}
	return &id
}
