package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Nivethan26/farmers-gate-backend/pkg/db/models"
	pkgerrors "github.com/Nivethan26/farmers-gate-backend/pkg/errors"
	"github.com/Nivethan26/farmers-gate-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines catalog operations. Reads are public; writes are limited to
// the owning seller.
type Service interface {
	Create(ctx context.Context, sellerID uuid.UUID, sellerName string, input CreateInput) (*models.Product, error)
	Update(ctx context.Context, actorID uuid.UUID, productID uuid.UUID, input UpdateInput) (*models.Product, error)
	Delete(ctx context.Context, actorID uuid.UUID, productID uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*pagination.Page[models.Product], error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error)
}

type service struct {
	repo Repository
}

// NewService builds a catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, sellerID uuid.UUID, sellerName string, input CreateInput) (*models.Product, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	product := &models.Product{
		SellerID:           sellerID,
		SellerName:         sellerName,
		Name:               strings.TrimSpace(input.Name),
		Category:           strings.TrimSpace(input.Category),
		PricePerKg:         input.PricePerKg,
		SupplyType:         input.SupplyType,
		LocationDistrict:   strings.TrimSpace(input.LocationDistrict),
		Image:              input.Image,
		StockQty:           input.StockQty,
		Description:        input.Description,
		NegotiationEnabled: input.NegotiationEnabled,
		ExpiresOn:          input.ExpiresOn,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, actorID uuid.UUID, productID uuid.UUID, input UpdateInput) (*models.Product, error) {
	product, err := s.loadOwned(ctx, actorID, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.PricePerKg != nil {
		if input.PricePerKg.Sign() <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price per kg must be positive")
		}
		product.PricePerKg = *input.PricePerKg
	}
	if input.SupplyType != nil {
		if !input.SupplyType.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid supply type")
		}
		product.SupplyType = *input.SupplyType
	}
	if input.LocationDistrict != nil {
		product.LocationDistrict = strings.TrimSpace(*input.LocationDistrict)
	}
	if input.Image != nil {
		product.Image = input.Image
	}
	if input.StockQty != nil {
		if *input.StockQty < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock qty cannot be negative")
		}
		product.StockQty = *input.StockQty
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.NegotiationEnabled != nil {
		product.NegotiationEnabled = *input.NegotiationEnabled
	}
	if input.ExpiresOn != nil {
		product.ExpiresOn = input.ExpiresOn
	}

	updated, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, actorID uuid.UUID, productID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, actorID, productID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (*pagination.Page[models.Product], error) {
	if filters.SupplyType != nil && !filters.SupplyType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid supply type filter")
	}
	page, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return page, nil
}

func (s *service) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id required")
	}
	rows, err := s.repo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list seller products")
	}
	return rows, nil
}

func (s *service) loadOwned(ctx context.Context, actorID uuid.UUID, productID uuid.UUID) (*models.Product, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.SellerID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to seller")
	}
	return product, nil
}

func validateCreate(input CreateInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.Category) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if input.PricePerKg.Sign() <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price per kg must be positive")
	}
	if !input.SupplyType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid supply type")
	}
	if input.StockQty < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock qty cannot be negative")
	}
	return nil
}
