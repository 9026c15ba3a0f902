package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/srouini/SmartStore/internal/dto"
	"github.com/srouini/SmartStore/internal/model"
	"github.com/srouini/SmartStore/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	GetByCode(ctx context.Context, code string) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo  repository.ProductRepository
	stock StockService
	rdb   *redis.Client
}

func NewProductService(repo repository.ProductRepository, stock StockService, rdb *redis.Client) ProductService {
	return &productService{repo: repo, stock: stock, rdb: rdb}
}

// createMaxAttempts bounds retries when a generated code loses the race
// against a concurrent insert (unique violation at commit time).
const createMaxAttempts = 3

// ── Create ────────────────────────────────────────────────────────────────────
// Construction is explicit: validate the variant payload, settle the code,
// then persist product + spec + zero-quantity stock row in ONE transaction.
// Persisting never mutates the request or triggers hidden side effects.

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := validateVariantPayload(req); err != nil {
		return nil, err
	}

	if taken, err := s.repo.NameExists(ctx, req.Name); err != nil {
		return nil, err
	} else if taken {
		return nil, fmt.Errorf("a product named %q already exists", req.Name)
	}

	providedCode := ""
	if req.Code != nil && *req.Code != "" {
		providedCode = strings.ToUpper(*req.Code)
		if taken, err := s.repo.CodeExists(ctx, providedCode); err != nil {
			return nil, err
		} else if taken {
			return nil, fmt.Errorf("product code %q is already in use", providedCode)
		}
	}

	var product model.Product
	for attempt := 0; attempt < createMaxAttempts; attempt++ {
		code := providedCode
		if code == "" {
			generated, err := generateProductCode(ctx, s.repo.CodeExists)
			if err != nil {
				return nil, err
			}
			code = generated
		}

		product = buildProduct(req, code)
		txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			if err := s.repo.CreateTx(ctx, tx, &product); err != nil {
				return err
			}
			return s.stock.InitializeTx(ctx, tx, product.ID)
		})
		if txErr == nil {
			return productToResponse(&product), nil
		}
		// A duplicate key on a generated code is a lost race — draw again.
		if errors.Is(txErr, gorm.ErrDuplicatedKey) && providedCode == "" {
			continue
		}
		return nil, txErr
	}
	return nil, ErrCodeSpaceExhausted
}

func validateVariantPayload(req dto.CreateProductRequest) error {
	switch req.ProductType {
	case "phone":
		if req.PhoneSpec == nil {
			return errors.New("phone_spec is required for product_type phone")
		}
		if req.AccessorySpec != nil {
			return errors.New("accessory_spec is not allowed for product_type phone")
		}
	case "accessory":
		if req.AccessorySpec == nil {
			return errors.New("accessory_spec is required for product_type accessory")
		}
		if req.PhoneSpec != nil {
			return errors.New("phone_spec is not allowed for product_type accessory")
		}
	}
	return nil
}

func buildProduct(req dto.CreateProductRequest, code string) model.Product {
	p := model.Product{
		Code:                 code,
		Name:                 req.Name,
		ProductType:          req.ProductType,
		BrandName:            req.BrandName,
		Description:          req.Description,
		Note:                 req.Note,
		CostPrice:            req.CostPrice,
		SellingUnitPrice:     req.SellingUnitPrice,
		SellingSemiBulkPrice: req.SellingSemiBulkPrice,
		SellingBulkPrice:     req.SellingBulkPrice,
		Active:               true,
	}

	if req.ProductType == "phone" {
		spec := req.PhoneSpec
		condition := spec.Condition
		if condition == "" {
			condition = "new"
		}
		version := spec.Version
		if version == "" {
			version = "global"
		}
		phoneType := spec.PhoneType
		if phoneType == "" {
			phoneType = "ordinary"
		}
		p.PhoneSpec = &model.PhoneSpec{
			ModelName:       spec.ModelName,
			Processor:       spec.Processor,
			RAMGB:           spec.RAMGB,
			StorageGB:       spec.StorageGB,
			ScreenSizeInch:  spec.ScreenSizeInch,
			ScreenType:      spec.ScreenType,
			OperatingSystem: spec.OperatingSystem,
			RearCameraMP:    spec.RearCameraMP,
			FrontCameraMP:   spec.FrontCameraMP,
			BatteryMAh:      spec.BatteryMAh,
			Color:           spec.Color,
			Condition:       condition,
			Version:         version,
			PhoneType:       phoneType,
		}
	} else {
		spec := req.AccessorySpec
		p.AccessorySpec = &model.AccessorySpec{
			Category:           spec.Category,
			Color:              spec.Color,
			Material:           spec.Material,
			VoltageV:           spec.VoltageV,
			AmperageA:          spec.AmperageA,
			WattageW:           spec.WattageW,
			BatteryCapacityMAh: spec.BatteryCapacityMAh,
			CableType:          spec.CableType,
			LengthCM:           spec.LengthCM,
			ConnectionType:     spec.ConnectionType,
			WirelessRangeM:     spec.WirelessRangeM,
			NoiseCancellation:  spec.NoiseCancellation,
			HardnessRating:     spec.HardnessRating,
			Finish:             spec.Finish,
		}
	}
	return p
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return productToResponse(p), nil
}

func (s *productService) GetByCode(ctx context.Context, code string) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByCode(ctx, strings.ToUpper(code))
	if err != nil {
		return nil, ErrProductNotFound
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, *productToResponse(&p))
	}
	return &dto.ProductListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── Deactivate ────────────────────────────────────────────────────────────────

func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrProductNotFound
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	// Drop the public price cache entry so the code stops resolving.
	if s.rdb != nil {
		_ = s.rdb.Del(ctx, "price:"+p.Code).Err()
	}
	return nil
}

// ── Mapping ───────────────────────────────────────────────────────────────────

func productToResponse(p *model.Product) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:                   p.ID.String(),
		Code:                 p.Code,
		Name:                 p.Name,
		ProductType:          p.ProductType,
		BrandName:            p.BrandName,
		Description:          p.Description,
		Note:                 p.Note,
		CostPrice:            p.CostPrice,
		SellingUnitPrice:     p.SellingUnitPrice,
		SellingSemiBulkPrice: p.SellingSemiBulkPrice,
		SellingBulkPrice:     p.SellingBulkPrice,
		Active:               p.Active,
		CreatedAt:            p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if p.Stock != nil {
		resp.StockQuantity = p.Stock.Quantity
	}
	if p.PhoneSpec != nil {
		spec := p.PhoneSpec
		resp.PhoneSpec = &dto.PhoneSpecRequest{
			ModelName:       spec.ModelName,
			Processor:       spec.Processor,
			RAMGB:           spec.RAMGB,
			StorageGB:       spec.StorageGB,
			ScreenSizeInch:  spec.ScreenSizeInch,
			ScreenType:      spec.ScreenType,
			OperatingSystem: spec.OperatingSystem,
			RearCameraMP:    spec.RearCameraMP,
			FrontCameraMP:   spec.FrontCameraMP,
			BatteryMAh:      spec.BatteryMAh,
			Color:           spec.Color,
			Condition:       spec.Condition,
			Version:         spec.Version,
			PhoneType:       spec.PhoneType,
		}
	}
	if p.AccessorySpec != nil {
		spec := p.AccessorySpec
		resp.AccessorySpec = &dto.AccessorySpecRequest{
			Category:           spec.Category,
			Color:              spec.Color,
			Material:           spec.Material,
			VoltageV:           spec.VoltageV,
			AmperageA:          spec.AmperageA,
			WattageW:           spec.WattageW,
			BatteryCapacityMAh: spec.BatteryCapacityMAh,
			CableType:          spec.CableType,
			LengthCM:           spec.LengthCM,
			ConnectionType:     spec.ConnectionType,
			WirelessRangeM:     spec.WirelessRangeM,
			NoiseCancellation:  spec.NoiseCancellation,
			HardnessRating:     spec.HardnessRating,
			Finish:             spec.Finish,
		}
	}
	return resp
}
