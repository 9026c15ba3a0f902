package repository

import (
	"context"

	"github.com/srouini/SmartStore/internal/dto"
	"github.com/srouini/SmartStore/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierRepository interface {
	Create(ctx context.Context, s *model.Supplier) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, filter dto.SupplierFilter) ([]model.Supplier, int64, error)
	Update(ctx context.Context, s *model.Supplier) error
}

type supplierRepo struct{ db *gorm.DB }

func NewSupplierRepository(db *gorm.DB) SupplierRepository { return &supplierRepo{db: db} }

func (r *supplierRepo) Create(ctx context.Context, s *model.Supplier) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *supplierRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	var s model.Supplier
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *supplierRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Supplier{}).
		Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *supplierRepo) List(ctx context.Context, filter dto.SupplierFilter) ([]model.Supplier, int64, error) {
	var suppliers []model.Supplier
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Supplier{})

	switch filter.Active {
	case "false":
		q = q.Where("active = false")
	case "all":
		// no filter
	default:
		q = q.Where("active = true")
	}

	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Code != "" {
		q = q.Where("code = ?", filter.Code)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&suppliers).Error
	return suppliers, total, err
}

func (r *supplierRepo) Update(ctx context.Context, s *model.Supplier) error {
	return r.db.WithContext(ctx).Save(s).Error
}
