package cart

import (
	"context"
	"testing"

	"github.com/Nivethan26/farmers-gate-backend/pkg/db/models"
	pkgerrors "github.com/Nivethan26/farmers-gate-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubProductFinder struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubProductFinder) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func TestQuoteUsesLiveCatalogPrices(t *testing.T) {
	productID := uuid.New()
	sellerID := uuid.New()
	finder := &stubProductFinder{products: map[uuid.UUID]*models.Product{
		productID: {
			ID:         productID,
			SellerID:   sellerID,
			SellerName: "Jaffna Growers",
			Name:       "Red Onions",
			PricePerKg: decimal.NewFromInt(220),
		},
	}}
	svc, err := NewService(finder)
	require.NoError(t, err)

	quoted, err := svc.Quote(context.Background(), QuoteRequest{
		Items:          []QuoteRequestItem{{ProductID: productID, Qty: 2}},
		RedeemedPoints: 40,
	})
	require.NoError(t, err)

	assert.True(t, quoted.Subtotal.Equal(decimal.NewFromInt(440)))
	assert.True(t, quoted.DeliveryFee.Equal(decimal.NewFromInt(300)))
	assert.True(t, quoted.Total.Equal(decimal.NewFromInt(700)))
	assert.Equal(t, "Jaffna Growers", quoted.Items[0].SellerName)
}

func TestQuoteUnknownProduct(t *testing.T) {
	svc, err := NewService(&stubProductFinder{products: map[uuid.UUID]*models.Product{}})
	require.NoError(t, err)

	_, err = svc.Quote(context.Background(), QuoteRequest{
		Items: []QuoteRequestItem{{ProductID: uuid.New(), Qty: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestQuoteValidation(t *testing.T) {
	svc, err := NewService(&stubProductFinder{products: map[uuid.UUID]*models.Product{}})
	require.NoError(t, err)

	_, err = svc.Quote(context.Background(), QuoteRequest{})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Quote(context.Background(), QuoteRequest{
		Items: []QuoteRequestItem{{ProductID: uuid.New(), Qty: 0}},
	})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
