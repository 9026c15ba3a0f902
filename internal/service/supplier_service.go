package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/srouini/SmartStore/internal/dto"
	"github.com/srouini/SmartStore/internal/model"
	"github.com/srouini/SmartStore/internal/repository"

	"github.com/google/uuid"
)

type SupplierService interface {
	Create(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SupplierResponse, error)
	List(ctx context.Context, filter dto.SupplierFilter) (*dto.SupplierListResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type supplierService struct {
	repo repository.SupplierRepository
}

func NewSupplierService(repo repository.SupplierRepository) SupplierService {
	return &supplierService{repo: repo}
}

func (s *supplierService) Create(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	code := strings.ToUpper(req.Code)
	if taken, err := s.repo.CodeExists(ctx, code); err != nil {
		return nil, err
	} else if taken {
		return nil, fmt.Errorf("supplier code %q is already in use", code)
	}

	subjectToTax := true
	if req.SubjectToTax != nil {
		subjectToTax = *req.SubjectToTax
	}

	supplier := &model.Supplier{
		Name:         req.Name,
		Code:         code,
		Phone:        req.Phone,
		Email:        req.Email,
		Address:      req.Address,
		RC:           req.RC,
		NIF:          req.NIF,
		AI:           req.AI,
		NIS:          req.NIS,
		SubjectToTax: subjectToTax,
		Active:       true,
	}
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplierToResponse(supplier), nil
}

func (s *supplierService) Get(ctx context.Context, id uuid.UUID) (*dto.SupplierResponse, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrSupplierNotFound
	}
	return supplierToResponse(supplier), nil
}

func (s *supplierService) List(ctx context.Context, filter dto.SupplierFilter) (*dto.SupplierListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	suppliers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplierResponse, 0, len(suppliers))
	for _, supplier := range suppliers {
		items = append(items, *supplierToResponse(&supplier))
	}
	return &dto.SupplierListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *supplierService) Deactivate(ctx context.Context, id uuid.UUID) error {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrSupplierNotFound
	}
	supplier.Active = false
	return s.repo.Update(ctx, supplier)
}

func supplierToResponse(s *model.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:           s.ID.String(),
		Name:         s.Name,
		Code:         s.Code,
		Phone:        s.Phone,
		Email:        s.Email,
		Address:      s.Address,
		RC:           s.RC,
		NIF:          s.NIF,
		AI:           s.AI,
		NIS:          s.NIS,
		SubjectToTax: s.SubjectToTax,
		Active:       s.Active,
		CreatedAt:    s.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
