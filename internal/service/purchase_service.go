package service

import (
	"context"
	"fmt"
	"time"

	"github.com/srouini/SmartStore/internal/dto"
	"github.com/srouini/SmartStore/internal/model"
	"github.com/srouini/SmartStore/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseService interface {
	RecordPurchase(ctx context.Context, operatorID *uuid.UUID, req dto.RecordPurchaseRequest) (*dto.PurchaseResponse, error)
	// ReplaceItems swaps the full item set of a pending purchase and
	// recomputes the header totals in the same transaction.
	ReplaceItems(ctx context.Context, id uuid.UUID, req dto.ReplaceItemsRequest) (*dto.PurchaseResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error)
	List(ctx context.Context, filter dto.PurchaseFilter) (*dto.PurchaseListResponse, error)
}

type purchaseService struct {
	repo         repository.PurchaseRepository
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	stock        StockService
	caisse       CaisseService
	// tvaRatePct is the VAT percentage applied to suppliers subject to tax,
	// e.g. 19 for 19%.
	tvaRatePct decimal.Decimal
}

func NewPurchaseService(
	repo repository.PurchaseRepository,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	stock StockService,
	caisse CaisseService,
	tvaRatePct decimal.Decimal,
) PurchaseService {
	return &purchaseService{
		repo:         repo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		stock:        stock,
		caisse:       caisse,
		tvaRatePct:   tvaRatePct,
	}
}

// ── Line math ─────────────────────────────────────────────────────────────────
// HT  = quantity × unit price − discount
// TVA = HT × rate   (zero when the purchase is not subject to tax)
// TTC = HT + TVA
// Amounts are rounded to 2 decimal places at each line, so the header
// totals are exact sums of the stored line amounts.

func (s *purchaseService) computeLine(item dto.PurchaseItemRequest, subjectToTax bool) (ht, tva, ttc decimal.Decimal, err error) {
	if item.Quantity <= 0 {
		return ht, tva, ttc, ErrInvalidQuantity
	}
	if item.UnitPrice.IsNegative() {
		return ht, tva, ttc, fmt.Errorf("%w: unit price cannot be negative", ErrInvalidAmount)
	}
	gross := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
	if item.Discount.GreaterThan(gross) {
		return ht, tva, ttc, fmt.Errorf("discount %s exceeds the line amount %s", item.Discount.StringFixed(2), gross.StringFixed(2))
	}
	ht = gross.Sub(item.Discount).Round(2)
	if subjectToTax {
		tva = ht.Mul(s.tvaRatePct).Div(decimal.NewFromInt(100)).Round(2)
	} else {
		tva = decimal.Zero
	}
	ttc = ht.Add(tva)
	return ht, tva, ttc, nil
}

func (s *purchaseService) buildItems(ctx context.Context, reqItems []dto.PurchaseItemRequest, subjectToTax bool) ([]model.PurchaseItem, decimal.Decimal, decimal.Decimal, decimal.Decimal, error) {
	items := make([]model.PurchaseItem, 0, len(reqItems))
	totalHT, totalTVA, totalTTC := decimal.Zero, decimal.Zero, decimal.Zero
	for _, item := range reqItems {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, totalHT, totalTVA, totalTTC, fmt.Errorf("invalid product_id: %w", err)
		}
		product, err := s.productRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, totalHT, totalTVA, totalTTC, fmt.Errorf("%w: %s", ErrProductNotFound, item.ProductID)
		}
		ht, tva, ttc, err := s.computeLine(item, subjectToTax)
		if err != nil {
			return nil, totalHT, totalTVA, totalTTC, err
		}
		items = append(items, model.PurchaseItem{
			ProductID:   pid,
			ProductName: product.Name,
			ProductCode: product.Code,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Discount:    item.Discount,
			HT:          ht,
			TVA:         tva,
			TTC:         ttc,
		})
		totalHT = totalHT.Add(ht)
		totalTVA = totalTVA.Add(tva)
		totalTTC = totalTTC.Add(ttc)
	}
	return items, totalHT, totalTVA, totalTTC, nil
}

// ── RecordPurchase ────────────────────────────────────────────────────────────
// Full ACID flow:
//  1. Check the reference, load the supplier, compute all line amounts
//  2. BEGIN TX: create purchase + items, optionally receive stock,
//     optionally withdraw the payment from the caisse
//  3. COMMIT

func (s *purchaseService) RecordPurchase(ctx context.Context, operatorID *uuid.UUID, req dto.RecordPurchaseRequest) (*dto.PurchaseResponse, error) {
	if taken, err := s.repo.ReferenceExists(ctx, req.Reference); err != nil {
		return nil, err
	} else if taken {
		return nil, &DuplicateReferenceError{Reference: req.Reference}
	}

	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("invalid supplier_id: %w", err)
	}
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, ErrSupplierNotFound
	}

	var caisseID *uuid.UUID
	if req.CaisseID != nil {
		parsed, err := uuid.Parse(*req.CaisseID)
		if err != nil {
			return nil, fmt.Errorf("invalid caisse_id: %w", err)
		}
		caisseID = &parsed
	}

	// The supplier's flag is only the default; the request pins the flag
	// for this purchase.
	subjectToTax := supplier.SubjectToTax
	if req.SubjectToTax != nil {
		subjectToTax = *req.SubjectToTax
	}

	items, totalHT, totalTVA, totalTTC, err := s.buildItems(ctx, req.Items, subjectToTax)
	if err != nil {
		return nil, err
	}

	purchaseDate := time.Now()
	if req.Date != "" {
		purchaseDate, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
	}

	paymentStatus := req.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = "unpaid"
	}
	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cash"
	}
	status := "pending"
	if req.ReceiveStock {
		status = "received"
	}

	purchase := model.Purchase{
		Reference:     req.Reference,
		SupplierID:    supplierID,
		Date:          purchaseDate,
		Status:        status,
		PaymentStatus: paymentStatus,
		PaymentMethod: paymentMethod,
		SubjectToTax:  subjectToTax,
		TotalHT:       totalHT,
		TotalTVA:      totalTVA,
		TotalTTC:      totalTTC,
		TotalAmount:   totalTTC,
		Notes:         req.Notes,
		CreatedByID:   operatorID,
		Items:         items,
	}
	if paymentStatus == "paid" {
		purchase.CaisseID = caisseID
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(ctx, tx, &purchase); err != nil {
			return err
		}

		purchaseRef := purchase.ID
		if req.ReceiveStock {
			for _, item := range purchase.Items {
				reason := fmt.Sprintf("Purchase %s", req.Reference)
				if err := s.stock.ReleaseTx(ctx, tx, item.ProductID, item.Quantity, "purchase", reason, &purchaseRef); err != nil {
					return err
				}
			}
		}

		if paymentStatus == "paid" && caisseID != nil {
			reason := fmt.Sprintf("Payment of purchase %s", req.Reference)
			if _, err := s.caisse.RecordSystemOperationTx(ctx, tx, *caisseID, "purchase_payment", totalTTC.Neg(), reason, &purchaseRef, operatorID); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	purchase.Supplier = supplier
	return purchaseToResponse(&purchase), nil
}

// ── ReplaceItems ──────────────────────────────────────────────────────────────

func (s *purchaseService) ReplaceItems(ctx context.Context, id uuid.UUID, req dto.ReplaceItemsRequest) (*dto.PurchaseResponse, error) {
	purchase, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrPurchaseNotFound
	}
	if purchase.Status != "pending" {
		return nil, fmt.Errorf("cannot replace items of a %s purchase", purchase.Status)
	}

	// The flag was pinned when the purchase was recorded.
	items, totalHT, totalTVA, totalTTC, err := s.buildItems(ctx, req.Items, purchase.SubjectToTax)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].PurchaseID = id
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.DeleteItemsTx(tx, id); err != nil {
			return err
		}
		if err := s.repo.CreateItemsTx(tx, items); err != nil {
			return err
		}
		purchase.TotalHT = totalHT
		purchase.TotalTVA = totalTVA
		purchase.TotalTTC = totalTTC
		purchase.TotalAmount = totalTTC
		return s.repo.UpdateTotalsTx(tx, purchase)
	})
	if txErr != nil {
		return nil, txErr
	}

	purchase.Items = items
	return purchaseToResponse(purchase), nil
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *purchaseService) Get(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error) {
	purchase, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrPurchaseNotFound
	}
	return purchaseToResponse(purchase), nil
}

func (s *purchaseService) List(ctx context.Context, filter dto.PurchaseFilter) (*dto.PurchaseListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	purchases, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		items = append(items, *purchaseToResponse(&p))
	}
	return &dto.PurchaseListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── Mapping ───────────────────────────────────────────────────────────────────

func purchaseToResponse(p *model.Purchase) *dto.PurchaseResponse {
	items := make([]dto.PurchaseItemResponse, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, dto.PurchaseItemResponse{
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			ProductCode: item.ProductCode,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Discount:    item.Discount,
			HT:          item.HT,
			TVA:         item.TVA,
			TTC:         item.TTC,
		})
	}
	resp := &dto.PurchaseResponse{
		ID:            p.ID.String(),
		Reference:     p.Reference,
		SupplierID:    p.SupplierID.String(),
		Date:          p.Date.Format("2006-01-02"),
		Status:        p.Status,
		PaymentStatus: p.PaymentStatus,
		PaymentMethod: p.PaymentMethod,
		SubjectToTax:  p.SubjectToTax,
		Items:         items,
		TotalHT:       p.TotalHT,
		TotalTVA:      p.TotalTVA,
		TotalTTC:      p.TotalTTC,
		TotalAmount:   p.TotalAmount,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if p.Supplier != nil {
		resp.SupplierName = p.Supplier.Name
	}
	if p.CaisseID != nil {
		cid := p.CaisseID.String()
		resp.CaisseID = &cid
	}
	return resp
}
