package repository

import (
	"context"

	"github.com/srouini/SmartStore/internal/dto"
	"github.com/srouini/SmartStore/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type ProductRepository interface {
	// CreateTx inserts the product with its spec association inside a tx.
	// A unique violation on code or name surfaces as gorm.ErrDuplicatedKey.
	CreateTx(ctx context.Context, tx *gorm.DB, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByCode(ctx context.Context, code string) (*model.Product, error)
	// CodeExists checks across ALL rows including deactivated products —
	// historical codes stay reserved forever.
	CodeExists(ctx context.Context, code string) (bool, error)
	NameExists(ctx context.Context, name string) (bool, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	Update(ctx context.Context, p *model.Product) error
	Deactivate(ctx context.Context, id uuid.UUID) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) DB() *gorm.DB { return r.db }

func (r *productRepo) CreateTx(ctx context.Context, tx *gorm.DB, p *model.Product) error {
	return tx.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("PhoneSpec").Preload("AccessorySpec").Preload("Stock").
		First(&p, id).Error
	return &p, err
}

func (r *productRepo) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("PhoneSpec").Preload("AccessorySpec").Preload("Stock").
		Where("code = ?", code).First(&p).Error
	return &p, err
}

func (r *productRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *productRepo) NameExists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})

	// Active filter: "false" = inactive, "all" = everything, default active
	switch filter.Active {
	case "false":
		q = q.Where("active = false")
	case "all":
		// no filter
	default:
		q = q.Where("active = true")
	}

	if filter.Code != "" {
		q = q.Where("code = ?", filter.Code)
	}
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.ProductType != "" {
		q = q.Where("product_type = ?", filter.ProductType)
	}
	if filter.Brand != "" {
		q = q.Where("brand_name ILIKE ?", "%"+filter.Brand+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("PhoneSpec").Preload("AccessorySpec").Preload("Stock").
		Order("name ASC").Limit(filter.Limit).Offset(offset).
		Find(&products).Error
	return products, total, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).Update("active", false).Error
}
