package negotiations

import (
	"context"
	"errors"
	"fmt"
	"time"

	product "github.com/Nivethan26/farmers-gate-backend/internal/products"
	"github.com/Nivethan26/farmers-gate-backend/pkg/db"
	"github.com/Nivethan26/farmers-gate-backend/pkg/db/models"
	"github.com/Nivethan26/farmers-gate-backend/pkg/enums"
	pkgerrors "github.com/Nivethan26/farmers-gate-backend/pkg/errors"
	"github.com/Nivethan26/farmers-gate-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines negotiation operations. The state machine is:
// open -> countered | agreed | rejected, countered -> countered (re-counter)
// | agreed (buyer accept) | rejected. agreed and rejected are terminal.
type Service interface {
	Open(ctx context.Context, input OpenInput) (*models.Negotiation, error)
	SellerUpdate(ctx context.Context, input SellerUpdateInput) (*models.Negotiation, error)
	AcceptCounter(ctx context.Context, buyerID, negotiationID uuid.UUID) (*models.Negotiation, error)
	Get(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID) (*models.Negotiation, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*pagination.Page[models.Negotiation], error)
	ListForBuyer(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*pagination.Page[models.Negotiation], error)
	ListForSeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*pagination.Page[models.Negotiation], error)
	Stats(ctx context.Context) (*Stats, error)
}

type service struct {
	repo     Repository
	products product.Repository
	now      func() time.Time
}

// NewService builds a negotiation service.
func NewService(repo Repository, products product.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("negotiations repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo, products: products, now: time.Now}, nil
}

func (s *service) Open(ctx context.Context, input OpenInput) (*models.Negotiation, error) {
	if input.BuyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.RequestedPrice.Sign() <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "requested price must be positive")
	}

	p, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !p.NegotiationEnabled {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product does not accept negotiations")
	}

	negotiation := &models.Negotiation{
		ProductID:      p.ID,
		ProductName:    p.Name,
		BuyerID:        input.BuyerID,
		BuyerName:      input.BuyerName,
		SellerID:       p.SellerID,
		SellerName:     p.SellerName,
		CurrentPrice:   p.PricePerKg,
		RequestedPrice: input.RequestedPrice,
		Notes:          input.Notes,
		Status:         enums.NegotiationStatusOpen,
	}

	// the partial unique index is the authoritative guard against two
	// concurrent opens on the same (product, buyer) pair
	created, err := s.repo.Create(ctx, negotiation)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an active negotiation already exists for this product")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create negotiation")
	}
	return created, nil
}

func (s *service) SellerUpdate(ctx context.Context, input SellerUpdateInput) (*models.Negotiation, error) {
	if input.SellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	negotiation, err := s.load(ctx, input.NegotiationID)
	if err != nil {
		return nil, err
	}
	if negotiation.SellerID != input.SellerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "negotiation does not belong to seller")
	}
	if negotiation.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "negotiation is already resolved")
	}

	now := s.now()
	updates := map[string]any{"updated_at": now}

	switch input.Action {
	case SellerActionCounter:
		if input.CounterPrice == nil || input.CounterPrice.Sign() <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "counter price must be positive")
		}
		updates["status"] = enums.NegotiationStatusCountered
		updates["counter_price"] = *input.CounterPrice
		negotiation.Status = enums.NegotiationStatusCountered
		negotiation.CounterPrice = input.CounterPrice
		if input.CounterNotes != nil {
			updates["counter_notes"] = *input.CounterNotes
			negotiation.CounterNotes = input.CounterNotes
		}

	case SellerActionAccept:
		// accepting the buyer's original ask only makes sense before any
		// counter has been made
		if negotiation.Status != enums.NegotiationStatusOpen {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only an open negotiation can be accepted as-is")
		}
		updates["status"] = enums.NegotiationStatusAgreed
		updates["agreed_price"] = negotiation.RequestedPrice
		negotiation.Status = enums.NegotiationStatusAgreed
		agreed := negotiation.RequestedPrice
		negotiation.AgreedPrice = &agreed

	case SellerActionReject:
		updates["status"] = enums.NegotiationStatusRejected
		negotiation.Status = enums.NegotiationStatusRejected

	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "action must be counter, accept, or reject")
	}

	if err := s.repo.UpdateFields(ctx, negotiation.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update negotiation")
	}
	negotiation.UpdatedAt = now
	return negotiation, nil
}

func (s *service) AcceptCounter(ctx context.Context, buyerID, negotiationID uuid.UUID) (*models.Negotiation, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	negotiation, err := s.load(ctx, negotiationID)
	if err != nil {
		return nil, err
	}
	if negotiation.BuyerID != buyerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "negotiation does not belong to buyer")
	}
	if negotiation.Status != enums.NegotiationStatusCountered {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no counter offer to accept")
	}
	if negotiation.CounterPrice == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "counter price missing")
	}

	now := s.now()
	updates := map[string]any{
		"status":       enums.NegotiationStatusAgreed,
		"agreed_price": *negotiation.CounterPrice,
		"updated_at":   now,
	}
	if err := s.repo.UpdateFields(ctx, negotiation.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update negotiation")
	}

	negotiation.Status = enums.NegotiationStatusAgreed
	negotiation.AgreedPrice = negotiation.CounterPrice
	negotiation.UpdatedAt = now
	return negotiation, nil
}

func (s *service) Get(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, id uuid.UUID) (*models.Negotiation, error) {
	negotiation, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	switch actorRole {
	case enums.UserRoleAdmin:
		return negotiation, nil
	case enums.UserRoleBuyer:
		if negotiation.BuyerID == actorID {
			return negotiation, nil
		}
	case enums.UserRoleSeller:
		if negotiation.SellerID == actorID {
			return negotiation, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeForbidden, "negotiation is not visible to this account")
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (*pagination.Page[models.Negotiation], error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	page, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list negotiations")
	}
	return page, nil
}

func (s *service) ListForBuyer(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*pagination.Page[models.Negotiation], error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	page, err := s.repo.ListByBuyer(ctx, buyerID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list buyer negotiations")
	}
	return page, nil
}

func (s *service) ListForSeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*pagination.Page[models.Negotiation], error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	page, err := s.repo.ListBySeller(ctx, sellerID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list seller negotiations")
	}
	return page, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load negotiation stats")
	}
	return stats, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Negotiation, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "negotiation id required")
	}
	negotiation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "negotiation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load negotiation")
	}
	return negotiation, nil
}
