package product

import (
	"context"
	"fmt"
	"testing"

	"github.com/Nivethan26/farmers-gate-backend/pkg/db/models"
	"github.com/Nivethan26/farmers-gate-backend/pkg/enums"
	"github.com/Nivethan26/farmers-gate-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestRepo(t *testing.T) Repository {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:products_%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Product{}))
	return NewRepository(conn)
}

func seedProduct(t *testing.T, repo Repository, mutate func(*models.Product)) *models.Product {
	t.Helper()
	p := &models.Product{
		ID:               uuid.New(),
		SellerID:         uuid.New(),
		SellerName:       "Ella Farms",
		Name:             "Carrots",
		Category:         "vegetables",
		PricePerKg:       decimal.NewFromInt(150),
		SupplyType:       enums.SupplyTypeSmallScale,
		LocationDistrict: "Badulla",
		StockQty:         10,
	}
	if mutate != nil {
		mutate(p)
	}
	created, err := repo.Create(context.Background(), p)
	require.NoError(t, err)
	return created
}

func TestDecrementStockGuardsAvailability(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	p := seedProduct(t, repo, nil)

	ok, err := repo.DecrementStock(ctx, p.ID, 6)
	require.NoError(t, err)
	assert.True(t, ok)

	// second request for 6 against remaining 4 must be refused
	ok, err = repo.DecrementStock(ctx, p.ID, 6)
	require.NoError(t, err)
	assert.False(t, ok)

	reloaded, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, reloaded.StockQty)
}

func TestDecrementStockUnknownProduct(t *testing.T) {
	repo := newTestRepo(t)
	ok, err := repo.DecrementStock(context.Background(), uuid.New(), 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListFiltersAndPaginates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		seedProduct(t, repo, func(p *models.Product) {
			p.Name = fmt.Sprintf("Carrots %02d", i)
		})
	}
	seedProduct(t, repo, func(p *models.Product) {
		p.Name = "Bulk Rice"
		p.Category = "grains"
		p.LocationDistrict = "Anuradhapura"
		p.SupplyType = enums.SupplyTypeWholesale
	})

	page, err := repo.List(ctx, ListFilters{}, pagination.Params{Page: 1})
	require.NoError(t, err)
	assert.Len(t, page.Items, pagination.ProductPageSize)
	assert.Equal(t, int64(16), page.Total)
	assert.Equal(t, 2, page.Pages)

	page2, err := repo.List(ctx, ListFilters{}, pagination.Params{Page: 2})
	require.NoError(t, err)
	assert.Len(t, page2.Items, 4)

	wholesale := enums.SupplyTypeWholesale
	filtered, err := repo.List(ctx, ListFilters{
		Category:   "grains",
		District:   "Anuradhapura",
		SupplyType: &wholesale,
		Search:     "rice",
	}, pagination.Params{Page: 1})
	require.NoError(t, err)
	require.Len(t, filtered.Items, 1)
	assert.Equal(t, "Bulk Rice", filtered.Items[0].Name)
}

func TestListBySellerOnlyReturnsOwnListings(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	mine := seedProduct(t, repo, nil)
	seedProduct(t, repo, nil)

	rows, err := repo.ListBySeller(ctx, mine.SellerID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, mine.ID, rows[0].ID)

	count, err := repo.CountBySeller(ctx, mine.SellerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
