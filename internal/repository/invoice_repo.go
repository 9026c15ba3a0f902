package repository

import (
	"context"

	"github.com/srouini/SmartStore/internal/dto"
	"github.com/srouini/SmartStore/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, inv *model.Invoice) error
	// NumberExistsTx checks inside the sale transaction so the regenerate
	// loop sees invoices committed by concurrent transactions.
	NumberExistsTx(tx *gorm.DB, number string) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	FindBySaleID(ctx context.Context, saleID uuid.UUID) (*model.Invoice, error)
	UpdatePDFPath(ctx context.Context, id uuid.UUID, path string) error
	List(ctx context.Context, filter dto.InvoiceFilter) ([]model.Invoice, int64, error)
}

type invoiceRepo struct{ db *gorm.DB }

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository { return &invoiceRepo{db: db} }

func (r *invoiceRepo) CreateTx(ctx context.Context, tx *gorm.DB, inv *model.Invoice) error {
	return tx.WithContext(ctx).Create(inv).Error
}

func (r *invoiceRepo) NumberExistsTx(tx *gorm.DB, number string) (bool, error) {
	var count int64
	err := tx.Model(&model.Invoice{}).Where("invoice_number = ?", number).Count(&count).Error
	return count > 0, err
}

func (r *invoiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).Preload("Sale.Items").First(&inv, id).Error
	return &inv, err
}

func (r *invoiceRepo) FindBySaleID(ctx context.Context, saleID uuid.UUID) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).Where("sale_id = ?", saleID).First(&inv).Error
	return &inv, err
}

func (r *invoiceRepo) UpdatePDFPath(ctx context.Context, id uuid.UUID, path string) error {
	return r.db.WithContext(ctx).Model(&model.Invoice{}).
		Where("id = ?", id).Update("pdf_path", path).Error
}

func (r *invoiceRepo) List(ctx context.Context, filter dto.InvoiceFilter) ([]model.Invoice, int64, error) {
	var invoices []model.Invoice
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Invoice{})

	if filter.Number != "" {
		q = q.Where("invoice_number ILIKE ?", "%"+filter.Number+"%")
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
		Find(&invoices).Error
	return invoices, total, err
}
