package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/srouini/SmartStore/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestStatusForErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"product missing", service.ErrProductNotFound, http.StatusNotFound},
		{"stock row missing", service.ErrStockNotFound, http.StatusNotFound},
		{"sale missing", service.ErrSaleNotFound, http.StatusNotFound},
		{"purchase missing", service.ErrPurchaseNotFound, http.StatusNotFound},
		{"supplier missing", service.ErrSupplierNotFound, http.StatusNotFound},
		{"caisse missing", service.ErrCaisseNotFound, http.StatusNotFound},
		{"wrapped not-found", fmt.Errorf("%w: GH89", service.ErrProductNotFound), http.StatusNotFound},
		{"already cancelled", service.ErrSaleAlreadyCancelled, http.StatusConflict},
		{"stock row exists", service.ErrStockAlreadyExists, http.StatusConflict},
		{
			"stock shortfall",
			&service.InsufficientStockError{ProductName: "Phone Case", ProductCode: "GH89", Requested: 3, Available: 1},
			http.StatusConflict,
		},
		{
			"register overdraw",
			&service.InsufficientFundsError{CaisseName: "Front desk", Requested: "200.00", Available: "100.00"},
			http.StatusConflict,
		},
		{"duplicate reference", &service.DuplicateReferenceError{Reference: "PO-2026-001"}, http.StatusConflict},
		{"invalid quantity", service.ErrInvalidQuantity, http.StatusBadRequest},
		{"invalid amount", service.ErrInvalidAmount, http.StatusBadRequest},
		{"anything else", fmt.Errorf("invalid caisse_id: bad uuid"), http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusForError(tc.err))
		})
	}
}
