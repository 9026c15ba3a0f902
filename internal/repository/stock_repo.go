package repository

import (
	"context"

	"github.com/srouini/SmartStore/internal/dto"
	"github.com/srouini/SmartStore/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockRepository is the data access contract for stock rows and the
// immutable movement journal. All mutating methods take the live tx —
// stock never changes outside a transaction.
type StockRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, s *model.Stock) error
	FindByProductID(ctx context.Context, productID uuid.UUID) (*model.Stock, error)
	FindByProductIDTx(tx *gorm.DB, productID uuid.UUID) (*model.Stock, error)

	// ReserveTx decrements quantity with a single conditional UPDATE:
	//   UPDATE stocks SET quantity = quantity - ? WHERE product_id = ? AND quantity >= ?
	// Returns the number of rows affected: 0 means no row matched, either
	// because the stock row does not exist or the quantity was short.
	ReserveTx(tx *gorm.DB, productID uuid.UUID, qty int) (int64, error)
	// ReleaseTx increments quantity unconditionally.
	ReleaseTx(tx *gorm.DB, productID uuid.UUID, qty int) error

	CreateMovementTx(tx *gorm.DB, m *model.StockMovement) error
	ListMovements(ctx context.Context, filter dto.StockMovementFilter) ([]model.StockMovement, int64, error)
	ListLevels(ctx context.Context) ([]model.Stock, error)

	DB() *gorm.DB
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepository(db *gorm.DB) StockRepository { return &stockRepo{db: db} }

func (r *stockRepo) DB() *gorm.DB { return r.db }

func (r *stockRepo) CreateTx(ctx context.Context, tx *gorm.DB, s *model.Stock) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *stockRepo) FindByProductID(ctx context.Context, productID uuid.UUID) (*model.Stock, error) {
	var s model.Stock
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&s).Error
	return &s, err
}

func (r *stockRepo) FindByProductIDTx(tx *gorm.DB, productID uuid.UUID) (*model.Stock, error) {
	var s model.Stock
	err := tx.Where("product_id = ?", productID).First(&s).Error
	return &s, err
}

func (r *stockRepo) ReserveTx(tx *gorm.DB, productID uuid.UUID, qty int) (int64, error) {
	res := tx.Model(&model.Stock{}).
		Where("product_id = ? AND quantity >= ?", productID, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	return res.RowsAffected, res.Error
}

func (r *stockRepo) ReleaseTx(tx *gorm.DB, productID uuid.UUID, qty int) error {
	return tx.Model(&model.Stock{}).
		Where("product_id = ?", productID).
		Update("quantity", gorm.Expr("quantity + ?", qty)).Error
}

func (r *stockRepo) CreateMovementTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}

func (r *stockRepo) ListMovements(ctx context.Context, filter dto.StockMovementFilter) ([]model.StockMovement, int64, error) {
	var movements []model.StockMovement
	var total int64

	q := r.db.WithContext(ctx).Model(&model.StockMovement{})

	if filter.ProductID != "" {
		q = q.Where("product_id = ?", filter.ProductID)
	}
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
	err := q.Preload("Product").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&movements).Error
	return movements, total, err
}

func (r *stockRepo) ListLevels(ctx context.Context) ([]model.Stock, error) {
	var levels []model.Stock
	err := r.db.WithContext(ctx).Preload("Product").
		Joins("JOIN products ON products.id = stocks.product_id AND products.active = true").
		Order("quantity ASC").
		Find(&levels).Error
	return levels, err
}
