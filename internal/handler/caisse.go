package handler

import (
	"context"
	"net/http"

	"github.com/srouini/SmartStore/internal/apierror"
	"github.com/srouini/SmartStore/internal/dto"
	"github.com/srouini/SmartStore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CaisseHandler struct{ svc service.CaisseService }

func NewCaisseHandler(svc service.CaisseService) *CaisseHandler {
	return &CaisseHandler{svc: svc}
}

// Create godoc
// @Summary      Create a cash register
// @Tags         caisse
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateCaisseRequest true "Register definition"
// @Success      201  {object} dto.CaisseResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/caisses [post]
func (h *CaisseHandler) Create(c *gin.Context) {
	var req dto.CreateCaisseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Deposit godoc
// @Summary      Deposit cash into a register
// @Description  Appends a journal operation and updates the balance atomically.
// @Tags         caisse
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "Register UUID"
// @Param        body body dto.CaisseMovementRequest true "Amount and reason"
// @Success      201  {object} dto.CaisseOperationResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/caisses/{id}/deposit [post]
func (h *CaisseHandler) Deposit(c *gin.Context) {
	h.manualOperation(c, h.svc.Deposit)
}

// Withdraw godoc
// @Summary      Withdraw cash from a register
// @Description  Fails with 409 when the withdrawal would overdraw the register; no operation is appended in that case.
// @Tags         caisse
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "Register UUID"
// @Param        body body dto.CaisseMovementRequest true "Amount and reason"
// @Success      201  {object} dto.CaisseOperationResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/caisses/{id}/withdraw [post]
func (h *CaisseHandler) Withdraw(c *gin.Context) {
	h.manualOperation(c, h.svc.Withdraw)
}

func (h *CaisseHandler) manualOperation(
	c *gin.Context,
	op func(ctx context.Context, id uuid.UUID, req dto.CaisseMovementRequest, performedBy *uuid.UUID) (*dto.CaisseOperationResponse, error),
) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.CaisseMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := op(c.Request.Context(), id, req, operatorIDFromClaims(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get godoc
// @Summary      Get a cash register
// @Tags         caisse
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Register UUID"
// @Success      200 {object} dto.CaisseResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/caisses/{id} [get]
func (h *CaisseHandler) Get(c *gin.Context) {
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
// @Summary      List cash registers
// @Tags         caisse
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.CaisseListResponse
// @Router       /v1/caisses [get]
func (h *CaisseHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list registers"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListOperations godoc
// @Summary      List register operations
// @Description  Paginated journal of the register, newest first.
// @Tags         caisse
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string true  "Register UUID"
// @Param        kind query string false "deposit | withdrawal | sale | purchase_payment | adjustment"
// @Success      200  {object} dto.CaisseOperationListResponse
// @Router       /v1/caisses/{id}/operations [get]
func (h *CaisseHandler) ListOperations(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var filter dto.CaisseOperationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListOperations(c.Request.Context(), id, filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reconcile godoc
// @Summary      Reconcile a register
// @Description  Replays the full journal and reports whether the recorded balance matches the computed one.
// @Tags         caisse
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Register UUID"
// @Success      200 {object} dto.ReconcileResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/caisses/{id}/reconcile [get]
func (h *CaisseHandler) Reconcile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, err := h.svc.Reconcile(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
