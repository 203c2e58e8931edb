package negotiations

import (
	"context"
	"testing"

	product "github.com/Nivethan26/farmers-gate-backend/internal/products"
	"github.com/Nivethan26/farmers-gate-backend/pkg/db/models"
	"github.com/Nivethan26/farmers-gate-backend/pkg/enums"
	pkgerrors "github.com/Nivethan26/farmers-gate-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubNegotiationRepo struct {
	Repository
	created   *models.Negotiation
	byID      map[uuid.UUID]*models.Negotiation
	updates   map[string]any
	createErr error
}

func newStubNegotiationRepo() *stubNegotiationRepo {
	return &stubNegotiationRepo{byID: map[uuid.UUID]*models.Negotiation{}}
}

func (s *stubNegotiationRepo) Create(_ context.Context, n *models.Negotiation) (*models.Negotiation, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	n.ID = uuid.New()
	s.created = n
	s.byID[n.ID] = n
	return n, nil
}

func (s *stubNegotiationRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Negotiation, error) {
	n, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *n
	return &copied, nil
}

func (s *stubNegotiationRepo) UpdateFields(_ context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates = updates
	n, ok := s.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if status, ok := updates["status"].(enums.NegotiationStatus); ok {
		n.Status = status
	}
	if price, ok := updates["counter_price"].(decimal.Decimal); ok {
		n.CounterPrice = &price
	}
	if price, ok := updates["agreed_price"].(decimal.Decimal); ok {
		n.AgreedPrice = &price
	}
	return nil
}

type stubProductFinder struct {
	product.Repository
	products map[uuid.UUID]*models.Product
}

func (s *stubProductFinder) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func negotiableProduct(sellerID uuid.UUID) *models.Product {
	return &models.Product{
		ID:                 uuid.New(),
		SellerID:           sellerID,
		SellerName:         "Ella Farms",
		Name:               "Red Onions",
		Category:           "vegetables",
		PricePerKg:         decimal.NewFromInt(450),
		SupplyType:         enums.SupplyTypeWholesale,
		StockQty:           100,
		NegotiationEnabled: true,
	}
}

func newTestService(t *testing.T, repo Repository, finder product.Repository) Service {
	t.Helper()
	svc, err := NewService(repo, finder)
	require.NoError(t, err)
	return svc
}

func seedNegotiation(repo *stubNegotiationRepo, status enums.NegotiationStatus) *models.Negotiation {
	n := &models.Negotiation{
		ID:             uuid.New(),
		ProductID:      uuid.New(),
		ProductName:    "Red Onions",
		BuyerID:        uuid.New(),
		BuyerName:      "Kasun",
		SellerID:       uuid.New(),
		SellerName:     "Ella Farms",
		CurrentPrice:   decimal.NewFromInt(450),
		RequestedPrice: decimal.NewFromInt(400),
		Status:         status,
	}
	repo.byID[n.ID] = n
	return n
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected a coded error, got %v", err)
	assert.Equal(t, code, typed.Code())
}

func TestOpenSnapshotsProductAndSeller(t *testing.T) {
	repo := newStubNegotiationRepo()
	sellerID := uuid.New()
	p := negotiableProduct(sellerID)
	finder := &stubProductFinder{products: map[uuid.UUID]*models.Product{p.ID: p}}
	svc := newTestService(t, repo, finder)

	created, err := svc.Open(context.Background(), OpenInput{
		BuyerID:        uuid.New(),
		BuyerName:      "Kasun",
		ProductID:      p.ID,
		RequestedPrice: decimal.NewFromInt(400),
		Notes:          "bulk order for a shop",
	})
	require.NoError(t, err)

	assert.Equal(t, enums.NegotiationStatusOpen, created.Status)
	assert.Equal(t, sellerID, created.SellerID)
	assert.Equal(t, "Ella Farms", created.SellerName)
	assert.Equal(t, "Red Onions", created.ProductName)
	assert.True(t, created.CurrentPrice.Equal(p.PricePerKg))
}

func TestOpenRejectsNonNegotiableProduct(t *testing.T) {
	repo := newStubNegotiationRepo()
	p := negotiableProduct(uuid.New())
	p.NegotiationEnabled = false
	finder := &stubProductFinder{products: map[uuid.UUID]*models.Product{p.ID: p}}
	svc := newTestService(t, repo, finder)

	_, err := svc.Open(context.Background(), OpenInput{
		BuyerID:        uuid.New(),
		ProductID:      p.ID,
		RequestedPrice: decimal.NewFromInt(400),
	})
	assertCode(t, err, pkgerrors.CodeValidation)
	assert.Nil(t, repo.created)
}

func TestOpenValidation(t *testing.T) {
	repo := newStubNegotiationRepo()
	p := negotiableProduct(uuid.New())
	finder := &stubProductFinder{products: map[uuid.UUID]*models.Product{p.ID: p}}
	svc := newTestService(t, repo, finder)
	ctx := context.Background()

	_, err := svc.Open(ctx, OpenInput{BuyerID: uuid.New(), ProductID: p.ID, RequestedPrice: decimal.Zero})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Open(ctx, OpenInput{BuyerID: uuid.New(), ProductID: uuid.New(), RequestedPrice: decimal.NewFromInt(400)})
	assertCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.Open(ctx, OpenInput{ProductID: p.ID, RequestedPrice: decimal.NewFromInt(400)})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestOpenMapsUniqueViolationToConflict(t *testing.T) {
	repo := newStubNegotiationRepo()
	repo.createErr = &mockUniqueErr{}
	p := negotiableProduct(uuid.New())
	finder := &stubProductFinder{products: map[uuid.UUID]*models.Product{p.ID: p}}
	svc := newTestService(t, repo, finder)

	_, err := svc.Open(context.Background(), OpenInput{
		BuyerID:        uuid.New(),
		ProductID:      p.ID,
		RequestedPrice: decimal.NewFromInt(400),
	})
	assertCode(t, err, pkgerrors.CodeConflict)
}

type mockUniqueErr struct{}

func (m *mockUniqueErr) Error() string {
	return `duplicate key value violates unique constraint "idx_negotiations_active_per_pair"`
}

func TestSellerCounterMovesToCountered(t *testing.T) {
	repo := newStubNegotiationRepo()
	svc := newTestService(t, repo, &stubProductFinder{})
	n := seedNegotiation(repo, enums.NegotiationStatusOpen)

	price := decimal.NewFromInt(425)
	updated, err := svc.SellerUpdate(context.Background(), SellerUpdateInput{
		NegotiationID: n.ID,
		SellerID:      n.SellerID,
		Action:        SellerActionCounter,
		CounterPrice:  &price,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.NegotiationStatusCountered, updated.Status)
	require.NotNil(t, updated.CounterPrice)
	assert.True(t, updated.CounterPrice.Equal(price))
}

func TestSellerMayReCounter(t *testing.T) {
	repo := newStubNegotiationRepo()
	svc := newTestService(t, repo, &stubProductFinder{})
	n := seedNegotiation(repo, enums.NegotiationStatusCountered)
	first := decimal.NewFromInt(430)
	n.CounterPrice = &first

	second := decimal.NewFromInt(420)
	updated, err := svc.SellerUpdate(context.Background(), SellerUpdateInput{
		NegotiationID: n.ID,
		SellerID:      n.SellerID,
		Action:        SellerActionCounter,
		CounterPrice:  &second,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.NegotiationStatusCountered, updated.Status)
	assert.True(t, updated.CounterPrice.Equal(second))
}

func TestSellerAcceptOnlyFromOpen(t *testing.T) {
	repo := newStubNegotiationRepo()
	svc := newTestService(t, repo, &stubProductFinder{})
	ctx := context.Background()

	open := seedNegotiation(repo, enums.NegotiationStatusOpen)
	updated, err := svc.SellerUpdate(ctx, SellerUpdateInput{
		NegotiationID: open.ID,
		SellerID:      open.SellerID,
		Action:        SellerActionAccept,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.NegotiationStatusAgreed, updated.Status)
	require.NotNil(t, updated.AgreedPrice)
	assert.True(t, updated.AgreedPrice.Equal(open.RequestedPrice))

	countered := seedNegotiation(repo, enums.NegotiationStatusCountered)
	_, err = svc.SellerUpdate(ctx, SellerUpdateInput{
		NegotiationID: countered.ID,
		SellerID:      countered.SellerID,
		Action:        SellerActionAccept,
	})
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestSellerRejectFromAnyActiveState(t *testing.T) {
	repo := newStubNegotiationRepo()
	svc := newTestService(t, repo, &stubProductFinder{})
	ctx := context.Background()

	for _, status := range []enums.NegotiationStatus{enums.NegotiationStatusOpen, enums.NegotiationStatusCountered} {
		n := seedNegotiation(repo, status)
		updated, err := svc.SellerUpdate(ctx, SellerUpdateInput{
			NegotiationID: n.ID,
			SellerID:      n.SellerID,
			Action:        SellerActionReject,
		})
		require.NoError(t, err)
		assert.Equal(t, enums.NegotiationStatusRejected, updated.Status)
	}
}

func TestTerminalNegotiationsAreLocked(t *testing.T) {
	repo := newStubNegotiationRepo()
	svc := newTestService(t, repo, &stubProductFinder{})
	ctx := context.Background()

	for _, status := range []enums.NegotiationStatus{enums.NegotiationStatusAgreed, enums.NegotiationStatusRejected} {
		n := seedNegotiation(repo, status)
		price := decimal.NewFromInt(400)
		_, err := svc.SellerUpdate(ctx, SellerUpdateInput{
			NegotiationID: n.ID,
			SellerID:      n.SellerID,
			Action:        SellerActionCounter,
			CounterPrice:  &price,
		})
		assertCode(t, err, pkgerrors.CodeStateConflict)
	}
}

func TestSellerUpdateRequiresOwnership(t *testing.T) {
	repo := newStubNegotiationRepo()
	svc := newTestService(t, repo, &stubProductFinder{})
	n := seedNegotiation(repo, enums.NegotiationStatusOpen)

	_, err := svc.SellerUpdate(context.Background(), SellerUpdateInput{
		NegotiationID: n.ID,
		SellerID:      uuid.New(),
		Action:        SellerActionReject,
	})
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestAcceptCounterAdoptsCounterPrice(t *testing.T) {
	repo := newStubNegotiationRepo()
	svc := newTestService(t, repo, &stubProductFinder{})
	n := seedNegotiation(repo, enums.NegotiationStatusCountered)
	counter := decimal.NewFromInt(425)
	n.CounterPrice = &counter

	updated, err := svc.AcceptCounter(context.Background(), n.BuyerID, n.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.NegotiationStatusAgreed, updated.Status)
	require.NotNil(t, updated.AgreedPrice)
	assert.True(t, updated.AgreedPrice.Equal(counter))
}

func TestAcceptCounterRequiresCounteredState(t *testing.T) {
	repo := newStubNegotiationRepo()
	svc := newTestService(t, repo, &stubProductFinder{})
	n := seedNegotiation(repo, enums.NegotiationStatusOpen)

	_, err := svc.AcceptCounter(context.Background(), n.BuyerID, n.ID)
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestAcceptCounterRequiresOwnership(t *testing.T) {
	repo := newStubNegotiationRepo()
	svc := newTestService(t, repo, &stubProductFinder{})
	n := seedNegotiation(repo, enums.NegotiationStatusCountered)
	counter := decimal.NewFromInt(425)
	n.CounterPrice = &counter

	_, err := svc.AcceptCounter(context.Background(), uuid.New(), n.ID)
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestGetVisibility(t *testing.T) {
	repo := newStubNegotiationRepo()
	svc := newTestService(t, repo, &stubProductFinder{})
	n := seedNegotiation(repo, enums.NegotiationStatusOpen)
	ctx := context.Background()

	_, err := svc.Get(ctx, n.BuyerID, enums.UserRoleBuyer, n.ID)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, n.SellerID, enums.UserRoleSeller, n.ID)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, uuid.New(), enums.UserRoleAdmin, n.ID)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, uuid.New(), enums.UserRoleBuyer, n.ID)
	assertCode(t, err, pkgerrors.CodeForbidden)

	_, err = svc.Get(ctx, uuid.New(), enums.UserRoleAgent, n.ID)
	assertCode(t, err, pkgerrors.CodeForbidden)
}
