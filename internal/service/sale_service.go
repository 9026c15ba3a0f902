package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/srouini/SmartStore/internal/dto"
	"github.com/srouini/SmartStore/internal/model"
	"github.com/srouini/SmartStore/internal/repository"
	"github.com/srouini/SmartStore/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleService interface {
	RecordSale(ctx context.Context, operatorID *uuid.UUID, req dto.RecordSaleRequest) (*dto.SaleResponse, error)
	CancelSale(ctx context.Context, id uuid.UUID, reason string, operatorID *uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	repo        repository.SaleRepository
	invoiceRepo repository.InvoiceRepository
	productRepo repository.ProductRepository
	stock       StockService
	caisse      CaisseService
	dispatcher  *worker.Dispatcher
}

func NewSaleService(
	repo repository.SaleRepository,
	invoiceRepo repository.InvoiceRepository,
	productRepo repository.ProductRepository,
	stock StockService,
	caisse CaisseService,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{
		repo:        repo,
		invoiceRepo: invoiceRepo,
		productRepo: productRepo,
		stock:       stock,
		caisse:      caisse,
		dispatcher:  dispatcher,
	}
}

// invoiceNumberMaxAttempts bounds the regenerate loop; the DB unique
// index remains the final arbiter under concurrency.
const invoiceNumberMaxAttempts = 32

// ── RecordSale ────────────────────────────────────────────────────────────────
// Full ACID flow:
//  1. Resolve products and pick the tier price (pre-flight, outside TX)
//  2. BEGIN TX: create sale + item snapshots, reserve stock per item,
//     optionally issue the invoice, optionally deposit into the caisse
//  3. COMMIT
//  4. (async) dispatch invoice PDF/email job

func (s *saleService) RecordSale(ctx context.Context, operatorID *uuid.UUID, req dto.RecordSaleRequest) (*dto.SaleResponse, error) {
	var caisseID *uuid.UUID
	if req.CaisseID != nil {
		parsed, err := uuid.Parse(*req.CaisseID)
		if err != nil {
			return nil, fmt.Errorf("invalid caisse_id: %w", err)
		}
		caisseID = &parsed
	}

	// 1. Resolve products and settle prices (pre-flight, outside TX).
	// The tier price falls back to the unit price when the requested tier
	// has no price configured for a product.
	type resolvedItem struct {
		product  *model.Product
		quantity int
		price    decimal.Decimal
	}

	resolved := make([]resolvedItem, 0, len(req.Items))
	total := decimal.Zero
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %s", ErrInvalidQuantity, item.ProductID)
		}
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid product_id: %w", err)
		}
		p, err := s.productRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, item.ProductID)
		}
		if !p.Active {
			return nil, fmt.Errorf("product %s is inactive and cannot be sold", p.Name)
		}
		price := priceForTier(p, req.SaleType)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		resolved = append(resolved, resolvedItem{product: p, quantity: item.Quantity, price: price})
	}

	// 2. ACID transaction. A unique violation on the invoice number at
	// commit time (two concurrent sales drawing the same number past the
	// pre-check) is a normal retryable miss: roll back and redraw, up to
	// the same bound as the generation loop.
	var sale model.Sale
	var invoice *model.Invoice
	attempt := func() error {
		invoice = nil
		return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			sale = model.Sale{
				SaleType:     req.SaleType,
				TotalAmount:  total,
				CustomerName: req.CustomerName,
				HasInvoice:   req.GenerateInvoice,
				Status:       "completed",
				SoldByID:     operatorID,
				CaisseID:     caisseID,
			}
			for _, r := range resolved {
				sale.Items = append(sale.Items, model.SaleItem{
					ProductID:   r.product.ID,
					ProductName: r.product.Name,
					ProductCode: r.product.Code,
					Quantity:    r.quantity,
					UnitPrice:   r.price,
				})
			}
			if err := s.repo.CreateTx(ctx, tx, &sale); err != nil {
				return err
			}

			saleRef := sale.ID
			for _, r := range resolved {
				reason := fmt.Sprintf("Sale %s", shortID(sale.ID))
				if err := s.stock.ReserveTx(ctx, tx, r.product, r.quantity, "sale", reason, &saleRef); err != nil {
					return err
				}
			}

			if req.GenerateInvoice {
				number, err := s.generateInvoiceNumber(tx)
				if err != nil {
					return err
				}
				invoice = &model.Invoice{
					SaleID:        sale.ID,
					InvoiceNumber: number,
					CustomerInfo:  req.CustomerName,
					TotalAmount:   total,
				}
				if err := s.invoiceRepo.CreateTx(ctx, tx, invoice); err != nil {
					return err
				}
			}

			if caisseID != nil {
				reason := fmt.Sprintf("Sale %s", shortID(sale.ID))
				if invoice != nil {
					reason = fmt.Sprintf("Sale %s (invoice %s)", shortID(sale.ID), invoice.InvoiceNumber)
				}
				if _, err := s.caisse.RecordSystemOperationTx(ctx, tx, *caisseID, "sale", total, reason, &saleRef, operatorID); err != nil {
					return err
				}
			}
			return nil
		})
	}

	txErr := attempt()
	if req.GenerateInvoice {
		for i := 1; txErr != nil && errors.Is(txErr, gorm.ErrDuplicatedKey) && i < invoiceNumberMaxAttempts; i++ {
			txErr = attempt()
		}
		if txErr != nil && errors.Is(txErr, gorm.ErrDuplicatedKey) {
			txErr = ErrInvoiceNumberExhausted
		}
	}
	if txErr != nil {
		return nil, txErr
	}

	// 3. Async invoice rendering — best-effort, fire & forget.
	if invoice != nil && s.dispatcher != nil {
		payload := worker.InvoiceJobPayload{InvoiceID: invoice.ID.String()}
		if req.CustomerEmail != nil && *req.CustomerEmail != "" {
			payload.CustomerEmail = req.CustomerEmail
		}
		_ = s.dispatcher.EnqueueInvoice(ctx, payload)
	}

	sale.Invoice = invoice
	return saleToResponse(&sale), nil
}

// priceForTier returns the configured tier price, falling back to the
// unit price when the tier price is not set.
func priceForTier(p *model.Product, saleType string) decimal.Decimal {
	switch saleType {
	case "bulk":
		if p.SellingBulkPrice != nil {
			return *p.SellingBulkPrice
		}
	case "semi-bulk":
		if p.SellingSemiBulkPrice != nil {
			return *p.SellingSemiBulkPrice
		}
	}
	return p.SellingUnitPrice
}

// generateInvoiceNumber draws INV-YYYYMMDD-NNNN candidates until one is
// free, bounded so a pathologically full day fails loudly.
func (s *saleService) generateInvoiceNumber(tx *gorm.DB) (string, error) {
	datePart := time.Now().Format("20060102")
	for i := 0; i < invoiceNumberMaxAttempts; i++ {
		number := fmt.Sprintf("INV-%s-%04d", datePart, rand.Intn(10000))
		taken, err := s.invoiceRepo.NumberExistsTx(tx, number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
	}
	return "", ErrInvoiceNumberExhausted
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

// ── CancelSale ────────────────────────────────────────────────────────────────
// Restores stock per item, reverses the caisse deposit when one was made,
// and marks the sale cancelled — all in one transaction. The original
// journal entries are never touched; reversals are new inverse entries.

func (s *saleService) CancelSale(ctx context.Context, id uuid.UUID, reason string, operatorID *uuid.UUID) error {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrSaleNotFound
	}
	if sale.Status == "cancelled" {
		return ErrSaleAlreadyCancelled
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		saleRef := sale.ID
		for _, item := range sale.Items {
			movReason := fmt.Sprintf("Cancellation of sale %s — %s", shortID(sale.ID), reason)
			if err := s.stock.ReleaseTx(ctx, tx, item.ProductID, item.Quantity, "restore_cancellation", movReason, &saleRef); err != nil {
				return err
			}
		}

		if sale.CaisseID != nil {
			opReason := fmt.Sprintf("Cancellation of sale %s — %s", shortID(sale.ID), reason)
			if _, err := s.caisse.RecordSystemOperationTx(ctx, tx, *sale.CaisseID, "adjustment", sale.TotalAmount.Neg(), opReason, &saleRef, operatorID); err != nil {
				return err
			}
		}

		return s.repo.UpdateStatusTx(tx, id, "cancelled")
	})
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *saleService) Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrSaleNotFound
	}
	return saleToResponse(sale), nil
}

func (s *saleService) List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sales, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for _, sale := range sales {
		items = append(items, *saleToResponse(&sale))
	}
	return &dto.SaleListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── Mapping ───────────────────────────────────────────────────────────────────

func saleToResponse(sale *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(sale.Items))
	for _, item := range sale.Items {
		items = append(items, dto.SaleItemResponse{
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			ProductCode: item.ProductCode,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}
	resp := &dto.SaleResponse{
		ID:           sale.ID.String(),
		SaleType:     sale.SaleType,
		CustomerName: sale.CustomerName,
		Items:        items,
		TotalAmount:  sale.TotalAmount,
		HasInvoice:   sale.HasInvoice,
		Status:       sale.Status,
		CreatedAt:    sale.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if sale.Invoice != nil {
		number := sale.Invoice.InvoiceNumber
		resp.InvoiceNumber = &number
	}
	if sale.CaisseID != nil {
		cid := sale.CaisseID.String()
		resp.CaisseID = &cid
	}
	return resp
}
