package repository

import (
	"context"

	"github.com/srouini/SmartStore/internal/dto"
	"github.com/srouini/SmartStore/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, p *model.Purchase) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	ReferenceExists(ctx context.Context, reference string) (bool, error)

	// ReplaceItems support — the service recomputes totals and calls these
	// inside one transaction.
	DeleteItemsTx(tx *gorm.DB, purchaseID uuid.UUID) error
	CreateItemsTx(tx *gorm.DB, items []model.PurchaseItem) error
	UpdateTotalsTx(tx *gorm.DB, p *model.Purchase) error

	List(ctx context.Context, filter dto.PurchaseFilter) ([]model.Purchase, int64, error)
	DB() *gorm.DB
}

type purchaseRepo struct{ db *gorm.DB }

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository { return &purchaseRepo{db: db} }

func (r *purchaseRepo) DB() *gorm.DB { return r.db }

func (r *purchaseRepo) CreateTx(ctx context.Context, tx *gorm.DB, p *model.Purchase) error {
	return tx.WithContext(ctx).Create(p).Error
}

func (r *purchaseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	var p model.Purchase
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Supplier").
		First(&p, id).Error
	return &p, err
}

func (r *purchaseRepo) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Where("reference = ?", reference).Count(&count).Error
	return count > 0, err
}

func (r *purchaseRepo) DeleteItemsTx(tx *gorm.DB, purchaseID uuid.UUID) error {
	return tx.Where("purchase_id = ?", purchaseID).Delete(&model.PurchaseItem{}).Error
}

func (r *purchaseRepo) CreateItemsTx(tx *gorm.DB, items []model.PurchaseItem) error {
	return tx.Create(&items).Error
}

func (r *purchaseRepo) UpdateTotalsTx(tx *gorm.DB, p *model.Purchase) error {
	return tx.Model(&model.Purchase{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"total_ht":     p.TotalHT,
		"total_tva":    p.TotalTVA,
		"total_ttc":    p.TotalTTC,
		"total_amount": p.TotalAmount,
	}).Error
}

func (r *purchaseRepo) List(ctx context.Context, filter dto.PurchaseFilter) ([]model.Purchase, int64, error) {
	var purchases []model.Purchase
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Purchase{})

	if filter.SupplierID != "" {
		q = q.Where("supplier_id = ?", filter.SupplierID)
	}
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		q = q.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.Reference != "" {
		q = q.Where("reference ILIKE ?", "%"+filter.Reference+"%")
	}
	if filter.From != "" {
		q = q.Where("date >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("date <= ?", filter.To)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items").Preload("Supplier").
		Order("date DESC, created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&purchases).Error
	return purchases, total, err
}
