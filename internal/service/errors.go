package service

import (
	"errors"
	"fmt"
)

// Sentinel errors — mapped by handlers to 404 / 409 without string matching.
var (
	ErrProductNotFound  = errors.New("product not found")
	ErrStockNotFound    = errors.New("no stock record found for product")
	ErrSaleNotFound     = errors.New("sale not found")
	ErrPurchaseNotFound = errors.New("purchase not found")
	ErrSupplierNotFound = errors.New("supplier not found")
	ErrCaisseNotFound   = errors.New("caisse not found")
	ErrInvoiceNotFound  = errors.New("invoice not found")

	ErrStockAlreadyExists   = errors.New("stock record already exists for product")
	ErrSaleAlreadyCancelled = errors.New("sale is already cancelled")

	// ErrInvalidQuantity / ErrInvalidAmount guard the engine entry points
	// against callers that bypass HTTP-layer validation.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrInvalidAmount   = errors.New("amount must be positive")

	// ErrCodeSpaceExhausted: the bounded generate-and-verify loop ran out of
	// attempts without finding a free product code.
	ErrCodeSpaceExhausted = errors.New("could not generate a unique product code")
	// ErrInvoiceNumberExhausted: same, for invoice numbers.
	ErrInvoiceNumberExhausted = errors.New("could not generate a unique invoice number")
)

// InsufficientStockError reports a reservation shortfall with enough
// context for the client message: which product, how much was asked,
// how much was there.
type InsufficientStockError struct {
	ProductName string
	ProductCode string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s (code: %s): available %d, requested %d",
		e.ProductName, e.ProductCode, e.Available, e.Requested)
}

// InsufficientFundsError reports a cash register balance that cannot
// cover a withdrawal.
type InsufficientFundsError struct {
	CaisseName string
	Requested  string
	Available  string
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds in caisse %s: available %s, requested %s",
		e.CaisseName, e.Available, e.Requested)
}

// DuplicateReferenceError reports a purchase reference collision.
type DuplicateReferenceError struct {
	Reference string
}

func (e *DuplicateReferenceError) Error() string {
	return fmt.Sprintf("a purchase with reference %q already exists", e.Reference)
}
