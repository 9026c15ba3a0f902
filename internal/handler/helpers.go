package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/srouini/SmartStore/internal/apierror"
	"github.com/srouini/SmartStore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// respondServiceError writes a service-layer error with the status its
// taxonomy calls for: missing entities are 404, business conflicts
// (stock shortfalls, overdraws, duplicates, already-cancelled) are 409,
// anything else is a plain 400.
func respondServiceError(c *gin.Context, err error) {
	c.JSON(statusForError(err), apierror.New(err.Error()))
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrStockNotFound),
		errors.Is(err, service.ErrSaleNotFound),
		errors.Is(err, service.ErrPurchaseNotFound),
		errors.Is(err, service.ErrSupplierNotFound),
		errors.Is(err, service.ErrCaisseNotFound),
		errors.Is(err, service.ErrInvoiceNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrStockAlreadyExists),
		errors.Is(err, service.ErrSaleAlreadyCancelled):
		return http.StatusConflict
	}
	var insufficientStock *service.InsufficientStockError
	var insufficientFunds *service.InsufficientFundsError
	var duplicateRef *service.DuplicateReferenceError
	if errors.As(err, &insufficientStock) || errors.As(err, &insufficientFunds) || errors.As(err, &duplicateRef) {
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}
