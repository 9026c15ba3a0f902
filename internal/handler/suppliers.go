package handler

import (
	"net/http"

	"github.com/srouini/SmartStore/internal/apierror"
	"github.com/srouini/SmartStore/internal/dto"
	"github.com/srouini/SmartStore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SuppliersHandler struct{ svc service.SupplierService }

func NewSuppliersHandler(svc service.SupplierService) *SuppliersHandler {
	return &SuppliersHandler{svc: svc}
}

// Create godoc
// @Summary      Create a supplier
// @Description  Registers a supplier with its fiscal identification (RC, NIF, AI, NIS) and tax regime.
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateSupplierRequest true "Supplier data"
// @Success      201  {object} dto.SupplierResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/suppliers [post]
func (h *SuppliersHandler) Create(c *gin.Context) {
	var req dto.CreateSupplierRequest
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

// Get godoc
// @Summary      Get a supplier by ID
// @Tags         suppliers
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Supplier UUID"
// @Success      200 {object} dto.SupplierResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/suppliers/{id} [get]
func (h *SuppliersHandler) Get(c *gin.Context) {
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
// @Summary      List suppliers
// @Tags         suppliers
// @Produce      json
// @Security     BearerAuth
// @Param        name   query string false "Name substring"
// @Param        active query string false "false | all (default: active only)"
// @Success      200 {object} dto.SupplierListResponse
// @Router       /v1/suppliers [get]
func (h *SuppliersHandler) List(c *gin.Context) {
	var filter dto.SupplierFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list suppliers"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Deactivate godoc
// @Summary      Deactivate a supplier
// @Tags         suppliers
// @Security     BearerAuth
// @Param        id path string true "Supplier UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/suppliers/{id} [delete]
func (h *SuppliersHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
