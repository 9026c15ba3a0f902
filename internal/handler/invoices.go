package handler

import (
	"net/http"

	"github.com/srouini/SmartStore/internal/apierror"
	"github.com/srouini/SmartStore/internal/dto"
	"github.com/srouini/SmartStore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InvoicesHandler struct{ svc service.InvoiceService }

func NewInvoicesHandler(svc service.InvoiceService) *InvoicesHandler {
	return &InvoicesHandler{svc: svc}
}

// Get godoc
// @Summary      Get an invoice by ID
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Invoice UUID"
// @Success      200 {object} dto.InvoiceResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/invoices/{id} [get]
func (h *InvoicesHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        from   query string false "From date YYYY-MM-DD"
// @Param        to     query string false "To date YYYY-MM-DD"
// @Param        number query string false "Invoice number substring"
// @Success      200 {object} dto.InvoiceListResponse
// @Router       /v1/invoices [get]
func (h *InvoicesHandler) List(c *gin.Context) {
	var filter dto.InvoiceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list invoices"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DownloadPDF godoc
// @Summary      Download the invoice PDF
// @Description  Serves the rendered PDF; 409 when the async worker has not rendered it yet.
// @Tags         invoices
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "Invoice UUID"
// @Success      200
// @Failure      404 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /v1/invoices/{id}/pdf [get]
func (h *InvoicesHandler) DownloadPDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	path, err := h.svc.PDFPath(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	if path == "" {
		c.JSON(http.StatusConflict, apierror.New("PDF not rendered yet"))
		return
	}
	c.FileAttachment(path, "invoice.pdf")
}
