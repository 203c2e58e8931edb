package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Nivethan26/farmers-gate-backend/api/middleware"
	productsvc "github.com/Nivethan26/farmers-gate-backend/internal/products"
	"github.com/Nivethan26/farmers-gate-backend/internal/users"
	"github.com/Nivethan26/farmers-gate-backend/pkg/db/models"
	"github.com/Nivethan26/farmers-gate-backend/pkg/enums"
	"github.com/Nivethan26/farmers-gate-backend/pkg/pagination"
)

type stubProductService struct {
	productsvc.Service

	created *models.Product
	listed  *pagination.Page[models.Product]
}

func (s *stubProductService) Create(ctx context.Context, sellerID uuid.UUID, sellerName string, input productsvc.CreateInput) (*models.Product, error) {
	s.created = &models.Product{
		ID:         uuid.New(),
		SellerID:   sellerID,
		SellerName: sellerName,
		Name:       input.Name,
		PricePerKg: input.PricePerKg,
	}
	return s.created, nil
}

func (s *stubProductService) List(ctx context.Context, filters productsvc.ListFilters, params pagination.Params) (*pagination.Page[models.Product], error) {
	if s.listed == nil {
		page := pagination.NewPage([]models.Product{}, params, 0)
		s.listed = &page
	}
	return s.listed, nil
}

type stubUsersService struct {
	users.Service
}

func (stubUsersService) Get(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, targetID uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{
		ID:    targetID,
		Role:  enums.UserRoleSeller,
		Name:  "Kasun Perera",
		Email: "kasun@example.lk",
	}, nil
}

func TestListProductsRejectsBadSupplyType(t *testing.T) {
	svc := &stubProductService{}
	handler := ListProducts(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?supplyType=bulk", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListProductsReturnsPage(t *testing.T) {
	svc := &stubProductService{}
	handler := ListProducts(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?pageNumber=2&category=vegetables", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"items"`) {
		t.Fatalf("expected page envelope, got %s", rec.Body.String())
	}
}

func TestCreateProductRequiresSellerRole(t *testing.T) {
	svc := &stubProductService{}
	handler := CreateProduct(svc, stubUsersService{}, nil)

	body := `{"name":"Red Rice","category":"grains","price_per_kg":350,"supply_type":"wholesale","location_district":"Kandy","stock_qty":40,"negotiation_enabled":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
	ctx := middleware.WithUserID(req.Context(), uuid.NewString())
	ctx = middleware.WithRole(ctx, string(enums.UserRoleBuyer))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if svc.created != nil {
		t.Fatal("service must not be called for non-sellers")
	}
}

func TestCreateProductSnapshotsSellerName(t *testing.T) {
	svc := &stubProductService{}
	handler := CreateProduct(svc, stubUsersService{}, nil)

	body := `{"name":"Red Rice","category":"grains","price_per_kg":350,"supply_type":"wholesale","location_district":"Kandy","stock_qty":40,"negotiation_enabled":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
	ctx := middleware.WithUserID(req.Context(), uuid.NewString())
	ctx = middleware.WithRole(ctx, string(enums.UserRoleSeller))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.created == nil || svc.created.SellerName != "Kasun Perera" {
		t.Fatalf("expected seller name snapshot, got %+v", svc.created)
	}
	if !svc.created.PricePerKg.Equal(decimal.NewFromInt(350)) {
		t.Fatalf("unexpected price %s", svc.created.PricePerKg)
	}
}
