package handler

import (
	"net/http"

	"github.com/srouini/SmartStore/internal/apierror"
	"github.com/srouini/SmartStore/internal/dto"
	"github.com/srouini/SmartStore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PurchasesHandler struct{ svc service.PurchaseService }

func NewPurchasesHandler(svc service.PurchaseService) *PurchasesHandler {
	return &PurchasesHandler{svc: svc}
}

// RecordPurchase godoc
// @Summary      Record a supplier purchase
// @Description  Creates an ACID purchase with computed HT/TVA/TTC line amounts; optionally receives stock and withdraws the payment from a cash register.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RecordPurchaseRequest true "Purchase detail"
// @Success      201  {object} dto.PurchaseResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/purchases [post]
func (h *PurchasesHandler) RecordPurchase(c *gin.Context) {
	var req dto.RecordPurchaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	operatorID := operatorIDFromClaims(c)

	resp, err := h.svc.RecordPurchase(c.Request.Context(), operatorID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ReplaceItems godoc
// @Summary      Replace the item set of a pending purchase
// @Description  Swaps all items and recomputes header totals in one transaction.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "Purchase UUID"
// @Param        body body dto.ReplaceItemsRequest true "New item set"
// @Success      200  {object} dto.PurchaseResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/purchases/{id}/items [put]
func (h *PurchasesHandler) ReplaceItems(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.ReplaceItemsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ReplaceItems(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get a purchase by ID
// @Tags         purchases
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Purchase UUID"
// @Success      200 {object} dto.PurchaseResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/purchases/{id} [get]
func (h *PurchasesHandler) Get(c *gin.Context) {
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
// @Summary      List purchases
// @Tags         purchases
// @Produce      json
// @Security     BearerAuth
// @Param        supplier_id    query string false "Filter by supplier UUID"
// @Param        status         query string false "pending | received | cancelled | all"
// @Param        payment_status query string false "unpaid | partial | paid"
// @Success      200 {object} dto.PurchaseListResponse
// @Router       /v1/purchases [get]
func (h *PurchasesHandler) List(c *gin.Context) {
	var filter dto.PurchaseFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list purchases"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
