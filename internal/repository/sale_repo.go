package repository

import (
	"context"

	"github.com/srouini/SmartStore/internal/dto"
	"github.com/srouini/SmartStore/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error)
	// DB exposes the DB for transaction creation in the service layer.
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) CreateTx(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Invoice").
		First(&s, id).Error
	return &s, err
}

func (r *saleRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.Sale{}).Where("id = ?", id).Update("status", status).Error
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Sale{})

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.SaleType != "" {
		q = q.Where("sale_type = ?", filter.SaleType)
	}
	if filter.HasInvoice == "true" {
		q = q.Where("has_invoice = true")
	} else if filter.HasInvoice == "false" {
		q = q.Where("has_invoice = false")
	}
	if filter.Customer != "" {
		q = q.Where("customer_name ILIKE ?", "%"+filter.Customer+"%")
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
	err := q.Preload("Items").Preload("Invoice").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&sales).Error
	return sales, total, err
}
