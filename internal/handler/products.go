package handler

import (
	"net/http"

	"github.com/srouini/SmartStore/internal/apierror"
	"github.com/srouini/SmartStore/internal/dto"
	"github.com/srouini/SmartStore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// Create godoc
// @Summary      Create a product
// @Description  Creates a product with its phone or accessory spec, settles a unique 4-character code, and initializes a zero-quantity stock row — all in one transaction.
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateProductRequest true "Product definition"
// @Success      201  {object} dto.ProductResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/products [post]
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
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

// GetByID godoc
// @Summary      Get a product by ID
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product UUID"
// @Success      200 {object} dto.ProductResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/products/{id} [get]
func (h *ProductsHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List products
// @Description  Paginated catalog filtered by name, code, type, brand, active state.
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        name   query string false "Name substring"
// @Param        active query string false "false | all (default: active only)"
// @Param        page   query int    false "Page (default 1)"
// @Param        limit  query int    false "Rows per page (default 50)"
// @Success      200 {object} dto.ProductListResponse
// @Router       /v1/products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list products"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Deactivate godoc
// @Summary      Deactivate a product
// @Description  Soft delete — the product stops appearing in the catalog and can no longer be sold; history is preserved.
// @Tags         products
// @Security     BearerAuth
// @Param        id path string true "Product UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/products/{id} [delete]
func (h *ProductsHandler) Deactivate(c *gin.Context) {
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
