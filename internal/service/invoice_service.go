package service

import (
	"context"

	"github.com/srouini/SmartStore/internal/dto"
	"github.com/srouini/SmartStore/internal/model"
	"github.com/srouini/SmartStore/internal/repository"

	"github.com/google/uuid"
)

type InvoiceService interface {
	Get(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error)
	GetBySaleID(ctx context.Context, saleID uuid.UUID) (*dto.InvoiceResponse, error)
	List(ctx context.Context, filter dto.InvoiceFilter) (*dto.InvoiceListResponse, error)
	// PDFPath returns the stored relative path of the rendered PDF, or
	// ErrInvoiceNotFound when the invoice does not exist and an empty string
	// when the worker has not rendered it yet.
	PDFPath(ctx context.Context, id uuid.UUID) (string, error)
}

type invoiceService struct {
	repo repository.InvoiceRepository
}

func NewInvoiceService(repo repository.InvoiceRepository) InvoiceService {
	return &invoiceService{repo: repo}
}

func (s *invoiceService) Get(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrInvoiceNotFound
	}
	return invoiceToResponse(inv), nil
}

func (s *invoiceService) GetBySaleID(ctx context.Context, saleID uuid.UUID) (*dto.InvoiceResponse, error) {
	inv, err := s.repo.FindBySaleID(ctx, saleID)
	if err != nil {
		return nil, ErrInvoiceNotFound
	}
	return invoiceToResponse(inv), nil
}

func (s *invoiceService) List(ctx context.Context, filter dto.InvoiceFilter) (*dto.InvoiceListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	invoices, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		items = append(items, *invoiceToResponse(&inv))
	}
	return &dto.InvoiceListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *invoiceService) PDFPath(ctx context.Context, id uuid.UUID) (string, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", ErrInvoiceNotFound
	}
	if inv.PDFPath == nil {
		return "", nil
	}
	return *inv.PDFPath, nil
}

func invoiceToResponse(inv *model.Invoice) *dto.InvoiceResponse {
	return &dto.InvoiceResponse{
		ID:            inv.ID.String(),
		SaleID:        inv.SaleID.String(),
		InvoiceNumber: inv.InvoiceNumber,
		CustomerInfo:  inv.CustomerInfo,
		TotalAmount:   inv.TotalAmount,
		PDFPath:       inv.PDFPath,
		CreatedAt:     inv.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
