package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/Nivethan26/farmers-gate-backend/pkg/db/models"
	pkgerrors "github.com/Nivethan26/farmers-gate-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// QuoteRequest names the products and quantities a client wants priced.
type QuoteRequest struct {
	Items          []QuoteRequestItem
	RedeemedPoints int
}

type QuoteRequestItem struct {
	ProductID uuid.UUID
	Qty       int
}

// Service prices carts against live catalog data so clients cannot submit
// stale or tampered prices.
type Service interface {
	Quote(ctx context.Context, req QuoteRequest) (*Cart, error)
}

type service struct {
	products productFinder
}

func NewService(products productFinder) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	return &service{products: products}, nil
}

func (s *service) Quote(ctx context.Context, req QuoteRequest) (*Cart, error) {
	if len(req.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}

	quoted := New()
	for _, line := range req.Items {
		if line.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
		}
		if line.Qty < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "qty must be at least 1")
		}
		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", line.ProductID))
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		quoted = quoted.Add(Item{
			ProductID:   product.ID,
			ProductName: product.Name,
			PricePerKg:  product.PricePerKg,
			Qty:         line.Qty,
			Image:       product.Image,
			SellerID:    product.SellerID,
			SellerName:  product.SellerName,
		})
	}
	quoted = quoted.SetRedeemedPoints(req.RedeemedPoints)
	return &quoted, nil
}
