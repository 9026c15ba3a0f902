package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/srouini/SmartStore/internal/dto"
	"github.com/srouini/SmartStore/internal/model"
	"github.com/srouini/SmartStore/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockService is the stock ledger. Every mutation appends an immutable
// StockMovement entry; the quantity invariant (never negative) is enforced
// by the conditional UPDATE in the repository, not by application checks.
type StockService interface {
	// Initialize creates the zero-quantity stock row for a new product.
	Initialize(ctx context.Context, productID uuid.UUID) error
	// InitializeTx is the in-transaction variant used at product creation.
	InitializeTx(ctx context.Context, tx *gorm.DB, productID uuid.UUID) error

	// ReserveTx removes qty units inside the caller's transaction. Fails the
	// whole transaction with InsufficientStockError when quantity is short,
	// or ErrStockNotFound when the product has no stock row.
	ReserveTx(ctx context.Context, tx *gorm.DB, product *model.Product, qty int, kind, reason string, refID *uuid.UUID) error
	// ReleaseTx returns qty units inside the caller's transaction.
	ReleaseTx(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int, kind, reason string, refID *uuid.UUID) error

	// Add and Adjust are the standalone entry points for goods received
	// outside a purchase and manual corrections.
	Add(ctx context.Context, req dto.AddStockRequest) error
	Adjust(ctx context.Context, req dto.AdjustStockRequest) error

	ListMovements(ctx context.Context, filter dto.StockMovementFilter) (*dto.StockMovementListResponse, error)
	ListLevels(ctx context.Context) ([]dto.StockResponse, error)
}

type stockService struct {
	repo        repository.StockRepository
	productRepo repository.ProductRepository
}

func NewStockService(repo repository.StockRepository, productRepo repository.ProductRepository) StockService {
	return &stockService{repo: repo, productRepo: productRepo}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Initialize ────────────────────────────────────────────────────────────────

func (s *stockService) Initialize(ctx context.Context, productID uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.InitializeTx(ctx, tx, productID)
	})
}

func (s *stockService) InitializeTx(ctx context.Context, tx *gorm.DB, productID uuid.UUID) error {
	if _, err := s.repo.FindByProductIDTx(tx, productID); err == nil {
		return ErrStockAlreadyExists
	}
	return s.repo.CreateTx(ctx, tx, &model.Stock{ProductID: productID, Quantity: 0})
}

// ── Reserve / Release ─────────────────────────────────────────────────────────

func (s *stockService) ReserveTx(ctx context.Context, tx *gorm.DB, product *model.Product, qty int, kind, reason string, refID *uuid.UUID) error {
	// A non-positive qty would slip through the conditional UPDATE (and a
	// negative one would increment); reject before touching the row.
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	rows, err := s.repo.ReserveTx(tx, product.ID, qty)
	if err != nil {
		return err
	}
	if rows == 0 {
		// No row matched: distinguish a missing stock row from a shortfall.
		current, findErr := s.repo.FindByProductIDTx(tx, product.ID)
		if findErr != nil {
			return fmt.Errorf("%w: %s (code: %s)", ErrStockNotFound, product.Name, product.Code)
		}
		return &InsufficientStockError{
			ProductName: product.Name,
			ProductCode: product.Code,
			Requested:   qty,
			Available:   current.Quantity,
		}
	}

	after, err := s.repo.FindByProductIDTx(tx, product.ID)
	if err != nil {
		return err
	}
	return s.repo.CreateMovementTx(tx, &model.StockMovement{
		ProductID:      product.ID,
		Kind:           kind,
		Delta:          -qty,
		QuantityBefore: after.Quantity + qty,
		QuantityAfter:  after.Quantity,
		Reason:         reason,
		ReferenceID:    refID,
	})
}

func (s *stockService) ReleaseTx(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int, kind, reason string, refID *uuid.UUID) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	before, err := s.repo.FindByProductIDTx(tx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStockNotFound
		}
		return err
	}
	if err := s.repo.ReleaseTx(tx, productID, qty); err != nil {
		return err
	}
	return s.repo.CreateMovementTx(tx, &model.StockMovement{
		ProductID:      productID,
		Kind:           kind,
		Delta:          qty,
		QuantityBefore: before.Quantity,
		QuantityAfter:  before.Quantity + qty,
		Reason:         reason,
		ReferenceID:    refID,
	})
}

// ── Add / Adjust ──────────────────────────────────────────────────────────────

func (s *stockService) Add(ctx context.Context, req dto.AddStockRequest) error {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return fmt.Errorf("invalid product_id: %w", err)
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.ReleaseTx(ctx, tx, productID, req.Quantity, "adjustment", req.Reason, nil)
	})
}

func (s *stockService) Adjust(ctx context.Context, req dto.AdjustStockRequest) error {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return fmt.Errorf("invalid product_id: %w", err)
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if req.Delta >= 0 {
			return s.ReleaseTx(ctx, tx, productID, req.Delta, "adjustment", req.Reason, nil)
		}
		product, err := s.productRepo.FindByID(ctx, productID)
		if err != nil {
			return ErrProductNotFound
		}
		return s.ReserveTx(ctx, tx, product, -req.Delta, "adjustment", req.Reason, nil)
	})
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *stockService) ListMovements(ctx context.Context, filter dto.StockMovementFilter) (*dto.StockMovementListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	movements, total, err := s.repo.ListMovements(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		item := dto.StockMovementResponse{
			ID:             m.ID.String(),
			ProductID:      m.ProductID.String(),
			Kind:           m.Kind,
			Delta:          m.Delta,
			QuantityBefore: m.QuantityBefore,
			QuantityAfter:  m.QuantityAfter,
			Reason:         m.Reason,
			CreatedAt:      m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
		if m.Product != nil {
			item.ProductName = m.Product.Name
		}
		if m.ReferenceID != nil {
			ref := m.ReferenceID.String()
			item.ReferenceID = &ref
		}
		items = append(items, item)
	}
	return &dto.StockMovementListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *stockService) ListLevels(ctx context.Context) ([]dto.StockResponse, error) {
	levels, err := s.repo.ListLevels(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.StockResponse, 0, len(levels))
	for _, lv := range levels {
		item := dto.StockResponse{
			ProductID:   lv.ProductID.String(),
			Quantity:    lv.Quantity,
			LastUpdated: lv.LastUpdated.Format("2006-01-02T15:04:05Z"),
		}
		if lv.Product != nil {
			item.ProductName = lv.Product.Name
			item.ProductCode = lv.Product.Code
		}
		resp = append(resp, item)
	}
	return resp, nil
}
