package service

import (
	"context"
	"testing"

	"github.com/srouini/SmartStore/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSupplierSvc() (SupplierService, *stubSupplierRepo) {
	repo := newStubSupplierRepo()
	return NewSupplierService(repo), repo
}

func TestCreateSupplierDefaultsToSubjectToTax(t *testing.T) {
	svc, _ := buildSupplierSvc()

	resp, err := svc.Create(context.Background(), dto.CreateSupplierRequest{
		Name: "TechDistrib",
		Code: "td01",
	})
	require.NoError(t, err)

	assert.Equal(t, "TD01", resp.Code)
	assert.True(t, resp.SubjectToTax)
	assert.True(t, resp.Active)
}

func TestCreateSupplierExplicitTaxExemption(t *testing.T) {
	svc, _ := buildSupplierSvc()

	exempt := false
	resp, err := svc.Create(context.Background(), dto.CreateSupplierRequest{
		Name:         "ImportExpress",
		Code:         "IE02",
		SubjectToTax: &exempt,
	})
	require.NoError(t, err)
	assert.False(t, resp.SubjectToTax)
}

func TestCreateSupplierDuplicateCode(t *testing.T) {
	svc, _ := buildSupplierSvc()
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CreateSupplierRequest{Name: "TechDistrib", Code: "TD01"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, dto.CreateSupplierRequest{Name: "Other", Code: "td01"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already in use")
}

func TestDeactivateSupplier(t *testing.T) {
	svc, repo := buildSupplierSvc()
	ctx := context.Background()
	s := seedSupplier(repo, "TechDistrib", "TD01", true)

	require.NoError(t, svc.Deactivate(ctx, s.ID))
	assert.False(t, repo.suppliers[s.ID].Active)

	err := svc.Deactivate(ctx, uuid.New())
	require.ErrorIs(t, err, ErrSupplierNotFound)
}
