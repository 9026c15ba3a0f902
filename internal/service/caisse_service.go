package service

import (
	"context"

	"github.com/srouini/SmartStore/internal/dto"
	"github.com/srouini/SmartStore/internal/model"
	"github.com/srouini/SmartStore/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CaisseService is the cash ledger. Every balance change appends an
// operation row with a balance_after snapshot and updates the materialized
// balance in the same transaction — both writes or neither.
type CaisseService interface {
	Create(ctx context.Context, req dto.CreateCaisseRequest) (*dto.CaisseResponse, error)
	Deposit(ctx context.Context, id uuid.UUID, req dto.CaisseMovementRequest, performedBy *uuid.UUID) (*dto.CaisseOperationResponse, error)
	Withdraw(ctx context.Context, id uuid.UUID, req dto.CaisseMovementRequest, performedBy *uuid.UUID) (*dto.CaisseOperationResponse, error)

	// RecordSystemOperationTx is called by the sales and purchases engines
	// inside their own transactions. Amount is signed; a negative amount
	// that would overdraw the register fails the whole transaction.
	RecordSystemOperationTx(ctx context.Context, tx *gorm.DB, caisseID uuid.UUID, kind string, amount decimal.Decimal, reason string, refID, performedBy *uuid.UUID) (*model.CaisseOperation, error)

	Get(ctx context.Context, id uuid.UUID) (*dto.CaisseResponse, error)
	List(ctx context.Context) (*dto.CaisseListResponse, error)
	ListOperations(ctx context.Context, id uuid.UUID, filter dto.CaisseOperationFilter) (*dto.CaisseOperationListResponse, error)
	Reconcile(ctx context.Context, id uuid.UUID) (*dto.ReconcileResponse, error)
}

type caisseService struct {
	repo repository.CaisseRepository
}

func NewCaisseService(repo repository.CaisseRepository) CaisseService {
	return &caisseService{repo: repo}
}

// ── Create ────────────────────────────────────────────────────────────────────
// A nonzero opening balance is journaled as the register's first deposit,
// so the balance is always the sum of the operations from zero.

func (s *caisseService) Create(ctx context.Context, req dto.CreateCaisseRequest) (*dto.CaisseResponse, error) {
	if req.InitialBalance.IsNegative() {
		return nil, ErrInvalidAmount
	}
	c := &model.Caisse{
		Name:           req.Name,
		InitialBalance: req.InitialBalance,
		Balance:        req.InitialBalance,
		Active:         true,
	}
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(ctx, tx, c); err != nil {
			return err
		}
		if c.InitialBalance.IsZero() {
			return nil
		}
		return s.repo.CreateOperationTx(tx, &model.CaisseOperation{
			CaisseID:     c.ID,
			Kind:         "deposit",
			Amount:       c.InitialBalance,
			BalanceAfter: c.InitialBalance,
			Reason:       "Opening balance",
		})
	})
	if txErr != nil {
		return nil, txErr
	}
	return caisseToResponse(c), nil
}

// ── Deposit / Withdraw ────────────────────────────────────────────────────────

func (s *caisseService) Deposit(ctx context.Context, id uuid.UUID, req dto.CaisseMovementRequest, performedBy *uuid.UUID) (*dto.CaisseOperationResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	return s.manualOperation(ctx, id, "deposit", req.Amount, req.Reason, performedBy)
}

func (s *caisseService) Withdraw(ctx context.Context, id uuid.UUID, req dto.CaisseMovementRequest, performedBy *uuid.UUID) (*dto.CaisseOperationResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	return s.manualOperation(ctx, id, "withdrawal", req.Amount.Neg(), req.Reason, performedBy)
}

func (s *caisseService) manualOperation(ctx context.Context, id uuid.UUID, kind string, amount decimal.Decimal, reason string, performedBy *uuid.UUID) (*dto.CaisseOperationResponse, error) {
	var op *model.CaisseOperation
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		created, err := s.RecordSystemOperationTx(ctx, tx, id, kind, amount, reason, nil, performedBy)
		if err != nil {
			return err
		}
		op = created
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return operationToResponse(op), nil
}

// ── RecordSystemOperationTx ───────────────────────────────────────────────────
// Row lock → compute → append operation → update balance. The lock
// serializes concurrent operations on the same register; the journal row
// and the balance update commit or roll back together.

func (s *caisseService) RecordSystemOperationTx(ctx context.Context, tx *gorm.DB, caisseID uuid.UUID, kind string, amount decimal.Decimal, reason string, refID, performedBy *uuid.UUID) (*model.CaisseOperation, error) {
	c, err := s.repo.FindByIDForUpdateTx(tx, caisseID)
	if err != nil {
		return nil, ErrCaisseNotFound
	}

	newBalance := c.Balance.Add(amount)
	if newBalance.IsNegative() {
		return nil, &InsufficientFundsError{
			CaisseName: c.Name,
			Requested:  amount.Abs().StringFixed(2),
			Available:  c.Balance.StringFixed(2),
		}
	}

	op := &model.CaisseOperation{
		CaisseID:      caisseID,
		Kind:          kind,
		Amount:        amount,
		BalanceAfter:  newBalance,
		Reason:        reason,
		ReferenceID:   refID,
		PerformedByID: performedBy,
	}
	if err := s.repo.CreateOperationTx(tx, op); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateBalanceTx(tx, caisseID, newBalance); err != nil {
		return nil, err
	}
	return op, nil
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *caisseService) Get(ctx context.Context, id uuid.UUID) (*dto.CaisseResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrCaisseNotFound
	}
	return caisseToResponse(c), nil
}

func (s *caisseService) List(ctx context.Context) (*dto.CaisseListResponse, error) {
	caisses, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CaisseResponse, 0, len(caisses))
	for _, c := range caisses {
		items = append(items, *caisseToResponse(&c))
	}
	return &dto.CaisseListResponse{Data: items}, nil
}

func (s *caisseService) ListOperations(ctx context.Context, id uuid.UUID, filter dto.CaisseOperationFilter) (*dto.CaisseOperationListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, ErrCaisseNotFound
	}
	ops, total, err := s.repo.ListOperations(ctx, id, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CaisseOperationResponse, 0, len(ops))
	for _, op := range ops {
		items = append(items, *operationToResponse(&op))
	}
	return &dto.CaisseOperationListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── Reconcile ─────────────────────────────────────────────────────────────────
// Replays the full journal from zero in chronological order; the opening
// balance is itself a journal entry. The register is consistent when every
// operation's balance_after equals the running sum and the final sum
// equals the materialized balance.

func (s *caisseService) Reconcile(ctx context.Context, id uuid.UUID) (*dto.ReconcileResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrCaisseNotFound
	}
	ops, err := s.repo.ListOperationsOrdered(ctx, id)
	if err != nil {
		return nil, err
	}

	running := decimal.Zero
	var firstMismatch *string
	for _, op := range ops {
		running = running.Add(op.Amount)
		if firstMismatch == nil && !running.Equal(op.BalanceAfter) {
			mismatchID := op.ID.String()
			firstMismatch = &mismatchID
		}
	}

	consistent := firstMismatch == nil && running.Equal(c.Balance)
	return &dto.ReconcileResponse{
		CaisseID:        id.String(),
		Consistent:      consistent,
		ComputedBalance: running,
		RecordedBalance: c.Balance,
		OperationCount:  len(ops),
		FirstMismatchID: firstMismatch,
	}, nil
}

// ── Mapping ───────────────────────────────────────────────────────────────────

func caisseToResponse(c *model.Caisse) *dto.CaisseResponse {
	return &dto.CaisseResponse{
		ID:             c.ID.String(),
		Name:           c.Name,
		InitialBalance: c.InitialBalance,
		Balance:        c.Balance,
		Active:         c.Active,
		CreatedAt:      c.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func operationToResponse(op *model.CaisseOperation) *dto.CaisseOperationResponse {
	resp := &dto.CaisseOperationResponse{
		ID:           op.ID.String(),
		CaisseID:     op.CaisseID.String(),
		Kind:         op.Kind,
		Amount:       op.Amount,
		BalanceAfter: op.BalanceAfter,
		Reason:       op.Reason,
		CreatedAt:    op.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if op.ReferenceID != nil {
		ref := op.ReferenceID.String()
		resp.ReferenceID = &ref
	}
	return resp
}
