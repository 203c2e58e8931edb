package negotiations

import (
	"context"
	"fmt"
	"testing"

	"github.com/Nivethan26/farmers-gate-backend/pkg/db"
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

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:negotiations_%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Negotiation{}))
	// the production index lives in a goose migration; recreate it here so
	// the one-active-thread-per-pair rule is enforced in tests too
	require.NoError(t, conn.Exec(
		`CREATE UNIQUE INDEX `+models.ActiveNegotiationConstraint+
			` ON negotiations (product_id, buyer_id) WHERE status IN ('open', 'countered')`,
	).Error)
	return conn
}

func insertNegotiation(t *testing.T, repo Repository, productID, buyerID, sellerID uuid.UUID, status enums.NegotiationStatus) *models.Negotiation {
	t.Helper()
	n := &models.Negotiation{
		ProductID:      productID,
		ProductName:    "Red Onions",
		BuyerID:        buyerID,
		BuyerName:      "Kasun",
		SellerID:       sellerID,
		SellerName:     "Ella Farms",
		CurrentPrice:   decimal.NewFromInt(450),
		RequestedPrice: decimal.NewFromInt(400),
		Status:         status,
	}
	created, err := repo.Create(context.Background(), n)
	require.NoError(t, err)
	return created
}

func TestOnlyOneActiveNegotiationPerPair(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	productID := uuid.New()
	buyerID := uuid.New()
	sellerID := uuid.New()

	first := insertNegotiation(t, repo, productID, buyerID, sellerID, enums.NegotiationStatusOpen)

	_, err := repo.Create(ctx, &models.Negotiation{
		ProductID:      productID,
		ProductName:    "Red Onions",
		BuyerID:        buyerID,
		BuyerName:      "Kasun",
		SellerID:       sellerID,
		SellerName:     "Ella Farms",
		CurrentPrice:   decimal.NewFromInt(450),
		RequestedPrice: decimal.NewFromInt(380),
		Status:         enums.NegotiationStatusOpen,
	})
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, models.ActiveNegotiationConstraint))

	// a countered thread still blocks a new one
	require.NoError(t, repo.UpdateFields(ctx, first.ID, map[string]any{"status": enums.NegotiationStatusCountered}))
	_, err = repo.Create(ctx, &models.Negotiation{
		ProductID:      productID,
		ProductName:    "Red Onions",
		BuyerID:        buyerID,
		BuyerName:      "Kasun",
		SellerID:       sellerID,
		SellerName:     "Ella Farms",
		CurrentPrice:   decimal.NewFromInt(450),
		RequestedPrice: decimal.NewFromInt(380),
		Status:         enums.NegotiationStatusOpen,
	})
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, models.ActiveNegotiationConstraint))

	// resolving the thread frees the pair
	require.NoError(t, repo.UpdateFields(ctx, first.ID, map[string]any{"status": enums.NegotiationStatusRejected}))
	second := insertNegotiation(t, repo, productID, buyerID, sellerID, enums.NegotiationStatusOpen)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestSamePairDifferentProductsAllowed(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	buyerID := uuid.New()
	sellerID := uuid.New()

	insertNegotiation(t, repo, uuid.New(), buyerID, sellerID, enums.NegotiationStatusOpen)
	insertNegotiation(t, repo, uuid.New(), buyerID, sellerID, enums.NegotiationStatusOpen)
}

func TestUpdateFieldsPersistsCounter(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	n := insertNegotiation(t, repo, uuid.New(), uuid.New(), uuid.New(), enums.NegotiationStatusOpen)

	counter := decimal.NewFromInt(425)
	require.NoError(t, repo.UpdateFields(ctx, n.ID, map[string]any{
		"status":        enums.NegotiationStatusCountered,
		"counter_price": counter,
		"counter_notes": "can do 425 for 50kg+",
	}))

	found, err := repo.FindByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.NegotiationStatusCountered, found.Status)
	require.NotNil(t, found.CounterPrice)
	assert.True(t, found.CounterPrice.Equal(counter))
	require.NotNil(t, found.CounterNotes)
	assert.Equal(t, "can do 425 for 50kg+", *found.CounterNotes)
}

func TestListScopesAndPaginates(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	buyerID := uuid.New()
	sellerID := uuid.New()

	mine := insertNegotiation(t, repo, uuid.New(), buyerID, sellerID, enums.NegotiationStatusOpen)
	insertNegotiation(t, repo, uuid.New(), uuid.New(), uuid.New(), enums.NegotiationStatusRejected)

	buyerPage, err := repo.ListByBuyer(ctx, buyerID, pagination.Params{Page: 1})
	require.NoError(t, err)
	require.Len(t, buyerPage.Items, 1)
	assert.Equal(t, mine.ID, buyerPage.Items[0].ID)

	sellerPage, err := repo.ListBySeller(ctx, sellerID, pagination.Params{Page: 1})
	require.NoError(t, err)
	require.Len(t, sellerPage.Items, 1)

	open := enums.NegotiationStatusOpen
	filtered, err := repo.List(ctx, ListFilters{Status: &open}, pagination.Params{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), filtered.Total)

	all, err := repo.List(ctx, ListFilters{}, pagination.Params{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)
}

func TestStatsCountsByStatus(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	insertNegotiation(t, repo, uuid.New(), uuid.New(), uuid.New(), enums.NegotiationStatusOpen)
	insertNegotiation(t, repo, uuid.New(), uuid.New(), uuid.New(), enums.NegotiationStatusAgreed)
	insertNegotiation(t, repo, uuid.New(), uuid.New(), uuid.New(), enums.NegotiationStatusAgreed)

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(1), stats.ByStatus[enums.NegotiationStatusOpen])
	assert.Equal(t, int64(2), stats.ByStatus[enums.NegotiationStatusAgreed])
}
