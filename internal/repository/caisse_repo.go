package repository

import (
	"context"

	"github.com/srouini/SmartStore/internal/dto"
	"github.com/srouini/SmartStore/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CaisseRepository interface {
	// CreateTx inserts the register inside the caller's transaction so
	// the opening-balance operation commits with it.
	CreateTx(ctx context.Context, tx *gorm.DB, c *model.Caisse) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Caisse, error)
	// FindByIDForUpdateTx takes a SELECT … FOR UPDATE row lock so the
	// read-modify-write on the balance is serialized per register.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Caisse, error)
	UpdateBalanceTx(tx *gorm.DB, id uuid.UUID, balance interface{}) error
	CreateOperationTx(tx *gorm.DB, op *model.CaisseOperation) error
	ListOperations(ctx context.Context, caisseID uuid.UUID, filter dto.CaisseOperationFilter) ([]model.CaisseOperation, int64, error)
	// ListOperationsOrdered returns ALL operations of a register in
	// chronological order — the reconcile replay input.
	ListOperationsOrdered(ctx context.Context, caisseID uuid.UUID) ([]model.CaisseOperation, error)
	List(ctx context.Context) ([]model.Caisse, error)
	DB() *gorm.DB
}

type caisseRepo struct{ db *gorm.DB }

func NewCaisseRepository(db *gorm.DB) CaisseRepository { return &caisseRepo{db: db} }

func (r *caisseRepo) DB() *gorm.DB { return r.db }

func (r *caisseRepo) CreateTx(ctx context.Context, tx *gorm.DB, c *model.Caisse) error {
	return tx.WithContext(ctx).Create(c).Error
}

func (r *caisseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Caisse, error) {
	var c model.Caisse
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *caisseRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Caisse, error) {
	var c model.Caisse
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, id).Error
	return &c, err
}

func (r *caisseRepo) UpdateBalanceTx(tx *gorm.DB, id uuid.UUID, balance interface{}) error {
	return tx.Model(&model.Caisse{}).Where("id = ?", id).Update("balance", balance).Error
}

func (r *caisseRepo) CreateOperationTx(tx *gorm.DB, op *model.CaisseOperation) error {
	return tx.Create(op).Error
}

func (r *caisseRepo) ListOperations(ctx context.Context, caisseID uuid.UUID, filter dto.CaisseOperationFilter) ([]model.CaisseOperation, int64, error) {
	var ops []model.CaisseOperation
	var total int64

	q := r.db.WithContext(ctx).Model(&model.CaisseOperation{}).Where("caisse_id = ?", caisseID)

	if filter.Kind != "" {
		q = q.Where("kind = ?", filter.Kind)
	}
	if filter.From != "" {
		q = q.Where("DATE(created_at) >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("DATE(created_at) <= ?", filter.To)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&ops).Error
	return ops, total, err
}

func (r *caisseRepo) ListOperationsOrdered(ctx context.Context, caisseID uuid.UUID) ([]model.CaisseOperation, error) {
	var ops []model.CaisseOperation
	err := r.db.WithContext(ctx).
		Where("caisse_id = ?", caisseID).
		Order("created_at ASC, id ASC").
		Find(&ops).Error
	return ops, err
}

func (r *caisseRepo) List(ctx context.Context) ([]model.Caisse, error) {
	var caisses []model.Caisse
	err := r.db.WithContext(ctx).Where("active = true").Order("name ASC").Find(&caisses).Error
	return caisses, err
}
